package platform

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"priceKart/domain"
)

type demoSeed struct {
	name      string
	basePrice float64
}

// Fixed name/price table per category. Demo listings are reproducible in
// spirit across runs: same names and images, jittered prices and ratings.
var demoSeeds = map[domain.Category][]demoSeed{
	domain.CategoryMen: {
		{"Classic Cotton Oxford Shirt", 1299},
		{"Slim Fit Stretch Chinos", 1799},
		{"Essential Crew Neck T-Shirt", 599},
	},
	domain.CategoryWomen: {
		{"Floral Print Wrap Dress", 2199},
		{"High-Rise Skinny Jeans", 1899},
		{"Embroidered Kurta Set", 2499},
	},
	domain.CategoryKids: {
		{"Dinosaur Graphic Tee", 449},
		{"Cotton Jogger Set", 899},
		{"Printed Sneaker Shoes", 1199},
	},
}

var demoImages = map[domain.Category][]string{
	domain.CategoryMen: {
		"https://images.pricekart.dev/demo/men/shirt-01.jpg",
		"https://images.pricekart.dev/demo/men/chinos-01.jpg",
		"https://images.pricekart.dev/demo/men/tee-01.jpg",
	},
	domain.CategoryWomen: {
		"https://images.pricekart.dev/demo/women/dress-01.jpg",
		"https://images.pricekart.dev/demo/women/jeans-01.jpg",
		"https://images.pricekart.dev/demo/women/kurta-01.jpg",
	},
	domain.CategoryKids: {
		"https://images.pricekart.dev/demo/kids/tee-01.jpg",
		"https://images.pricekart.dev/demo/kids/jogger-01.jpg",
		"https://images.pricekart.dev/demo/kids/sneaker-01.jpg",
	},
}

type demoCatalog struct{}

func newDemoCatalog() *demoCatalog {
	return &demoCatalog{}
}

// listings synthesizes the 3-item demo catalog for a platform and category,
// with slight price and rating jitter so repeated searches look alive.
func (d *demoCatalog) listings(p domain.Platform, category domain.Category) []domain.PriceListing {
	seeds, ok := demoSeeds[category]
	if !ok {
		seeds = demoSeeds[domain.CategoryMen]
		category = domain.CategoryMen
	}
	images := demoImages[category]

	now := time.Now()
	out := make([]domain.PriceListing, 0, len(seeds))

	for i, seed := range seeds {
		price := math.Round(seed.basePrice * (0.9 + rand.Float64()*0.2))
		original := math.Round(price * (1.15 + rand.Float64()*0.25))
		rating := 3.8 + rand.Float64()*1.1
		if rating > 5 {
			rating = 5
		}

		sourceURL := fmt.Sprintf("https://www.%s.com/p/%s-%d",
			p, slug(seed.name), i+1)

		l := domain.PriceListing{
			ProductName:   seed.name,
			Price:         price,
			OriginalPrice: original,
			SourceURL:     sourceURL,
			AffiliateURL:  AffiliateURL(p, sourceURL),
			ImageURL:      images[i%len(images)],
			InStock:       true,
			Rating:        math.Round(rating*10) / 10,
			ReviewCount:   120 + rand.Intn(880),
			Platform:      p,
			FetchedAt:     now,
		}
		l.Normalize()
		out = append(out, l)
	}

	return out
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
