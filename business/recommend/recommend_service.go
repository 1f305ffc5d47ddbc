// Package recommend ranks candidate products against a reference item by
// price proximity.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"priceKart/domain"
	"priceKart/pkg/logger"
)

const (
	// Acceptance band around the reference average used to shape the
	// candidate query; never applied as a hard post-filter.
	bandLowerFactor = 0.7
	bandUpperFactor = 1.3

	// Over-fetch factor so ranking has enough survivors after drops.
	poolFactor = 3
)

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

type Service struct {
	productRepo  ProductRepository
	defaultLimit int
}

func NewService(productRepo ProductRepository, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = 4
	}
	return &Service{
		productRepo:  productRepo,
		defaultLimit: defaultLimit,
	}
}

// SimilarProducts loads the reference product, fetches a candidate pool in
// its price band and subcategory, and returns the closest matches.
func (s *Service) SimilarProducts(ctx context.Context, productID uint64, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	reference, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	return s.Recommend(ctx, reference, limit)
}

// Recommend fetches the candidate pool for the reference and ranks it. Read
// only; the pool is never mutated.
func (s *Service) Recommend(ctx context.Context, reference domain.Product, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	filter := domain.ProductFilter{
		Category:    reference.Category,
		Subcategory: reference.Subcategory,
		Limit:       limit * poolFactor,
		ExcludeID:   reference.ID,
	}

	if avg, ok := reference.AveragePrice(); ok {
		filter.MinPrice = math.Floor(avg * bandLowerFactor)
		filter.MaxPrice = math.Ceil(avg * bandUpperFactor)
	}

	pool, err := s.productRepo.SearchProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	ranked := Rank(reference, pool, limit)

	logger.Debug("recommendation ranked",
		"reference", reference.ID, "pool", len(pool), "returned", len(ranked))

	return ranked, nil
}

// Rank orders candidates by distance between their average price and the
// reference's, closest first, stable on retrieval order, truncated to limit.
// Candidates without priced listings are dropped. A reference without priced
// listings skips scoring entirely: the pool is truncated in retrieval order.
func Rank(reference domain.Product, pool []domain.Product, limit int) []domain.Product {
	if limit <= 0 {
		limit = len(pool)
	}

	refAvg, ok := reference.AveragePrice()
	if !ok {
		if len(pool) > limit {
			return append([]domain.Product(nil), pool[:limit]...)
		}
		return append([]domain.Product(nil), pool...)
	}

	type candidate struct {
		product  domain.Product
		distance float64
	}

	scored := make([]candidate, 0, len(pool))
	for _, p := range pool {
		avg, ok := p.AveragePrice()
		if !ok {
			continue
		}
		scored = append(scored, candidate{
			product:  p,
			distance: math.Abs(avg - refAvg),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].distance < scored[j].distance
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]domain.Product, 0, len(scored))
	for _, c := range scored {
		out = append(out, c.product)
	}

	return out
}
