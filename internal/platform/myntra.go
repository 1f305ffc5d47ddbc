package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"priceKart/domain"
	"priceKart/pkg/config"
)

type myntraClient struct {
	cfg    config.MyntraConfig
	client *http.Client
}

func newMyntraClient(cfg config.MyntraConfig) searcher {
	if cfg.APIKey == "" {
		return nil
	}
	return &myntraClient{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

type myntraResponse struct {
	Products []struct {
		ProductName    string  `json:"productName"`
		Price          float64 `json:"price"`
		MRP            float64 `json:"mrp"`
		LandingPageURL string  `json:"landingPageUrl"`
		SearchImage    string  `json:"searchImage"`
		Rating         float64 `json:"rating"`
		RatingCount    int     `json:"ratingCount"`
		InventoryInfo  []struct {
			Available bool `json:"available"`
		} `json:"inventoryInfo"`
	} `json:"products"`
}

func (c *myntraClient) search(ctx context.Context, query string, category domain.Category) ([]domain.PriceListing, error) {
	endpoint := fmt.Sprintf("%s/search/%s?gender=%s",
		c.cfg.BaseURL, url.PathEscape(query), url.QueryEscape(string(category)))

	header := http.Header{}
	header.Set("x-api-key", c.cfg.APIKey)

	var reply myntraResponse
	if err := getJSON(ctx, c.client, endpoint, header, &reply); err != nil {
		return nil, fmt.Errorf("myntra search: %w", err)
	}

	out := make([]domain.PriceListing, 0, len(reply.Products))
	for _, p := range reply.Products {
		if p.ProductName == "" {
			continue
		}

		// Myntra serves relative landing page paths.
		sourceURL := p.LandingPageURL
		if sourceURL != "" && sourceURL[0] != 'h' {
			sourceURL = "https://www.myntra.com/" + sourceURL
		}

		inStock := len(p.InventoryInfo) > 0 && p.InventoryInfo[0].Available

		out = append(out, domain.PriceListing{
			ProductName:   p.ProductName,
			Price:         p.Price,
			OriginalPrice: p.MRP,
			SourceURL:     sourceURL,
			AffiliateURL:  AffiliateURL(domain.PlatformMyntra, sourceURL),
			ImageURL:      p.SearchImage,
			InStock:       inStock,
			Rating:        p.Rating,
			ReviewCount:   p.RatingCount,
			Platform:      domain.PlatformMyntra,
		})
	}

	return out, nil
}
