package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"priceKart/domain"
	"priceKart/pkg/config"
)

type nykaaClient struct {
	cfg    config.NykaaConfig
	client *http.Client
}

func newNykaaClient(cfg config.NykaaConfig) searcher {
	if cfg.APIKey == "" {
		return nil
	}
	return &nykaaClient{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

type nykaaResponse struct {
	Response struct {
		Products []struct {
			Name        string  `json:"name"`
			OfferPrice  float64 `json:"offer_price"`
			Price       float64 `json:"price"`
			ProductURL  string  `json:"product_url"`
			ImageURL    string  `json:"image_url"`
			InStock     bool    `json:"in_stock"`
			Rating      float64 `json:"rating"`
			RatingCount int     `json:"rating_count"`
		} `json:"products"`
	} `json:"response"`
}

func (c *nykaaClient) search(ctx context.Context, query string, category domain.Category) ([]domain.PriceListing, error) {
	endpoint := fmt.Sprintf("%s/products/list?q=%s&gender=%s&apikey=%s",
		c.cfg.BaseURL, url.QueryEscape(query), url.QueryEscape(string(category)), url.QueryEscape(c.cfg.APIKey))

	var reply nykaaResponse
	if err := getJSON(ctx, c.client, endpoint, nil, &reply); err != nil {
		return nil, fmt.Errorf("nykaa search: %w", err)
	}

	out := make([]domain.PriceListing, 0, len(reply.Response.Products))
	for _, p := range reply.Response.Products {
		if p.Name == "" {
			continue
		}

		out = append(out, domain.PriceListing{
			ProductName:   p.Name,
			Price:         p.OfferPrice,
			OriginalPrice: p.Price,
			SourceURL:     p.ProductURL,
			AffiliateURL:  AffiliateURL(domain.PlatformNykaa, p.ProductURL),
			ImageURL:      p.ImageURL,
			InStock:       p.InStock,
			Rating:        p.Rating,
			ReviewCount:   p.RatingCount,
			Platform:      domain.PlatformNykaa,
		})
	}

	return out, nil
}
