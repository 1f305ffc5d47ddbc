package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"priceKart/domain"
	"priceKart/pkg/config"
)

type flipkartClient struct {
	cfg    config.FlipkartConfig
	client *http.Client
}

func newFlipkartClient(cfg config.FlipkartConfig) searcher {
	if cfg.AffiliateID == "" || cfg.Token == "" {
		return nil
	}
	return &flipkartClient{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// Affiliate API reply shape.
type flipkartResponse struct {
	Products []struct {
		ProductBaseInfoV1 struct {
			Title                string `json:"title"`
			ProductURL           string `json:"productUrl"`
			InStock              bool   `json:"inStock"`
			FlipkartSellingPrice struct {
				Amount float64 `json:"amount"`
			} `json:"flipkartSellingPrice"`
			MaximumRetailPrice struct {
				Amount float64 `json:"amount"`
			} `json:"maximumRetailPrice"`
			ImageUrls map[string]string `json:"imageUrls"`
		} `json:"productBaseInfoV1"`
		ProductShippingInfoV1 struct {
			SellerAverageRating float64 `json:"sellerAverageRating"`
			SellerNoOfRatings   int     `json:"sellerNoOfRatings"`
		} `json:"productShippingInfoV1"`
	} `json:"products"`
}

func (c *flipkartClient) search(ctx context.Context, query string, category domain.Category) ([]domain.PriceListing, error) {
	endpoint := fmt.Sprintf("%s/1.0/search.json?query=%s&resultCount=10&category=%s",
		c.cfg.BaseURL, url.QueryEscape(query), url.QueryEscape(string(category)))

	header := http.Header{}
	header.Set("Fk-Affiliate-Id", c.cfg.AffiliateID)
	header.Set("Fk-Affiliate-Token", c.cfg.Token)

	var reply flipkartResponse
	if err := getJSON(ctx, c.client, endpoint, header, &reply); err != nil {
		return nil, fmt.Errorf("flipkart search: %w", err)
	}

	out := make([]domain.PriceListing, 0, len(reply.Products))
	for _, p := range reply.Products {
		info := p.ProductBaseInfoV1
		if info.Title == "" {
			continue
		}

		image := info.ImageUrls["400x400"]
		if image == "" {
			for _, v := range info.ImageUrls {
				image = v
				break
			}
		}

		out = append(out, domain.PriceListing{
			ProductName:   info.Title,
			Price:         info.FlipkartSellingPrice.Amount,
			OriginalPrice: info.MaximumRetailPrice.Amount,
			SourceURL:     info.ProductURL,
			AffiliateURL:  AffiliateURL(domain.PlatformFlipkart, info.ProductURL),
			ImageURL:      image,
			InStock:       info.InStock,
			Rating:        p.ProductShippingInfoV1.SellerAverageRating,
			ReviewCount:   p.ProductShippingInfoV1.SellerNoOfRatings,
			Platform:      domain.PlatformFlipkart,
		})
	}

	return out, nil
}
