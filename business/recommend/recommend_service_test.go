package recommend

import (
	"context"
	"errors"
	"testing"

	"priceKart/domain"
)

func product(id uint64, name string, prices ...float64) domain.Product {
	return domain.Product{ID: id, Name: name, Prices: prices}
}

func TestRankByPriceDistance(t *testing.T) {
	// Reference prices [100,200] -> avg 150. Candidate averages 140, 500,
	// 160 must come back closest-to-farthest.
	reference := product(1, "ref", 100, 200)
	pool := []domain.Product{
		product(2, "near-low", 140),
		product(3, "far", 500),
		product(4, "near-high", 160),
	}

	got := Rank(reference, pool, 4)
	wantNames := []string{"near-low", "near-high", "far"}
	if len(got) != len(wantNames) {
		t.Fatalf("ranked: got %d products, want %d", len(got), len(wantNames))
	}
	for i, w := range wantNames {
		if got[i].Name != w {
			t.Errorf("position %d: got %q, want %q", i, got[i].Name, w)
		}
	}
}

func TestRankTruncatesToLimit(t *testing.T) {
	reference := product(1, "ref", 100, 200)
	pool := []domain.Product{
		product(2, "a", 150),
		product(3, "b", 151),
		product(4, "c", 152),
		product(5, "d", 153),
		product(6, "e", 154),
	}

	got := Rank(reference, pool, 4)
	if len(got) != 4 {
		t.Errorf("ranked: got %d products, want 4", len(got))
	}
}

func TestRankStableTies(t *testing.T) {
	reference := product(1, "ref", 150, 150)
	pool := []domain.Product{
		product(2, "first", 160),
		product(3, "second", 140),
	}

	// Both distances are 10; retrieval order breaks the tie.
	got := Rank(reference, pool, 4)
	if got[0].Name != "first" || got[1].Name != "second" {
		t.Errorf("tie order: got [%s %s], want [first second]", got[0].Name, got[1].Name)
	}
}

func TestRankDropsUnpricedCandidates(t *testing.T) {
	reference := product(1, "ref", 100)
	pool := []domain.Product{
		product(2, "priced", 110),
		product(3, "unpriced"),
	}

	got := Rank(reference, pool, 4)
	if len(got) != 1 || got[0].Name != "priced" {
		t.Errorf("got %+v, want only the priced candidate", got)
	}
}

func TestRankUnpricedReferenceKeepsRetrievalOrder(t *testing.T) {
	reference := product(1, "ref")
	pool := []domain.Product{
		product(2, "a", 999),
		product(3, "b"),
		product(4, "c", 1),
		product(5, "d", 5),
		product(6, "e", 7),
	}

	got := Rank(reference, pool, 4)
	wantNames := []string{"a", "b", "c", "d"}
	if len(got) != 4 {
		t.Fatalf("got %d products, want 4", len(got))
	}
	for i, w := range wantNames {
		if got[i].Name != w {
			t.Errorf("position %d: got %q, want %q", i, got[i].Name, w)
		}
	}
}

func TestRankFewerSurvivorsThanLimit(t *testing.T) {
	reference := product(1, "ref", 100)
	pool := []domain.Product{product(2, "only", 90)}

	got := Rank(reference, pool, 4)
	if len(got) != 1 {
		t.Errorf("got %d products, want 1 (never pad)", len(got))
	}
}

type stubRepo struct {
	byID       map[uint64]domain.Product
	pool       []domain.Product
	lastFilter domain.ProductFilter
	err        error
}

func (r *stubRepo) FindByID(ctx context.Context, id uint64) (domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, errors.New("product not found")
	}
	return p, nil
}

func (r *stubRepo) SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	r.lastFilter = filter
	return r.pool, r.err
}

func TestRecommendShapesCandidateQuery(t *testing.T) {
	ref := domain.Product{ID: 7, Category: "women", Subcategory: "dresses", Prices: []float64{100, 200}}
	repo := &stubRepo{byID: map[uint64]domain.Product{7: ref}}
	svc := NewService(repo, 4)

	if _, err := svc.SimilarProducts(context.Background(), 7, 0); err != nil {
		t.Fatalf("SimilarProducts: %v", err)
	}

	f := repo.lastFilter
	if f.MinPrice != 105 { // floor(150*0.7)
		t.Errorf("MinPrice: got %v, want 105", f.MinPrice)
	}
	if f.MaxPrice != 195 { // ceil(150*1.3)
		t.Errorf("MaxPrice: got %v, want 195", f.MaxPrice)
	}
	if f.Subcategory != "dresses" {
		t.Errorf("Subcategory: got %q, want dresses", f.Subcategory)
	}
	if f.ExcludeID != 7 {
		t.Errorf("ExcludeID: got %d, want 7", f.ExcludeID)
	}
	if f.Limit != 12 {
		t.Errorf("Limit: got %d, want 12 (over-fetch)", f.Limit)
	}
}

func TestRecommendUnpricedReferenceSkipsBand(t *testing.T) {
	ref := domain.Product{ID: 8, Category: "men"}
	repo := &stubRepo{byID: map[uint64]domain.Product{8: ref}}
	svc := NewService(repo, 4)

	if _, err := svc.SimilarProducts(context.Background(), 8, 0); err != nil {
		t.Fatalf("SimilarProducts: %v", err)
	}

	if repo.lastFilter.MinPrice != 0 || repo.lastFilter.MaxPrice != 0 {
		t.Errorf("price band: got [%v, %v], want unset",
			repo.lastFilter.MinPrice, repo.lastFilter.MaxPrice)
	}
}

func TestRecommendRepoErrorPropagates(t *testing.T) {
	ref := domain.Product{ID: 9, Prices: []float64{50}}
	repo := &stubRepo{byID: map[uint64]domain.Product{9: ref}, err: errors.New("db down")}
	svc := NewService(repo, 4)

	if _, err := svc.SimilarProducts(context.Background(), 9, 0); err == nil {
		t.Error("expected error from repository to propagate")
	}
}
