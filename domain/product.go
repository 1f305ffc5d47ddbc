package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Product is a catalog item owned by the persistence layer. It carries the
// listing prices observed for it so the recommendation scorer can work
// without re-fetching.
type Product struct {
	ID          uint64                       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string                       `gorm:"column:name;type:text" json:"name"`
	Category    string                       `gorm:"column:category;type:text" json:"category"`
	Subcategory string                       `gorm:"column:subcategory;type:text" json:"subcategory"`
	Prices      datatypes.JSONSlice[float64] `gorm:"column:prices" json:"prices"`
	Images      datatypes.JSONSlice[string]  `gorm:"column:images" json:"images"`
	ImageURL    string                       `gorm:"column:image_url;type:text" json:"image_url"`
	MinPrice    float64                      `gorm:"column:min_price;type:numeric" json:"min_price"`
	MaxPrice    float64                      `gorm:"column:max_price;type:numeric" json:"max_price"`
	InStock     bool                         `gorm:"column:in_stock;default:true" json:"in_stock"`
	CreatedAt   time.Time                    `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// RefreshPriceBounds recomputes the min/max summary columns from Prices.
func (p *Product) RefreshPriceBounds() {
	p.MinPrice, p.MaxPrice = 0, 0
	for i, v := range p.Prices {
		if i == 0 || v < p.MinPrice {
			p.MinPrice = v
		}
		if i == 0 || v > p.MaxPrice {
			p.MaxPrice = v
		}
	}
}

// AveragePrice is (min+max)/2 over the product's listing prices. The second
// return is false when the product has no priced listings.
func (p Product) AveragePrice() (float64, bool) {
	if len(p.Prices) == 0 {
		return 0, false
	}
	min, max := p.Prices[0], p.Prices[0]
	for _, v := range p.Prices[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return (min + max) / 2, true
}

// PreloadImages returns at most the first two image URLs, falling back to
// the legacy single image field.
func (p Product) PreloadImages() []string {
	if len(p.Images) > 0 {
		if len(p.Images) > 2 {
			return p.Images[:2]
		}
		return p.Images
	}
	if p.ImageURL != "" {
		return []string{p.ImageURL}
	}
	return nil
}

// ProductFilter is the query shape the scorer uses to fetch its candidate
// pool. The price band filters on the (min+max)/2 average, not the extremes.
type ProductFilter struct {
	Category    string
	Subcategory string
	MinPrice    float64
	MaxPrice    float64
	Limit       int
	ExcludeID   uint64
}
