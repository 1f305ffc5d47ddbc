package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"priceKart/domain"
	"priceKart/pkg/config"
)

type ajioClient struct {
	cfg    config.AjioConfig
	client *http.Client
}

func newAjioClient(cfg config.AjioConfig) searcher {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil
	}
	return &ajioClient{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

type ajioResponse struct {
	Products []struct {
		Name  string `json:"name"`
		URL   string `json:"url"`
		Price struct {
			Value float64 `json:"value"`
		} `json:"price"`
		WasPriceData struct {
			Value float64 `json:"value"`
		} `json:"wasPriceData"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
		AverageRating float64 `json:"averageRating"`
		RatingCount   int     `json:"ratingCount"`
		Stock         struct {
			StockLevelStatus string `json:"stockLevelStatus"`
		} `json:"stock"`
	} `json:"products"`
}

func (c *ajioClient) search(ctx context.Context, query string, category domain.Category) ([]domain.PriceListing, error) {
	endpoint := fmt.Sprintf("%s/search?query=%s&segment=%s&client_id=%s",
		c.cfg.BaseURL, url.QueryEscape(query), url.QueryEscape(string(category)), url.QueryEscape(c.cfg.ClientID))

	header := http.Header{}
	header.Set("X-Client-Secret", c.cfg.ClientSecret)

	var reply ajioResponse
	if err := getJSON(ctx, c.client, endpoint, header, &reply); err != nil {
		return nil, fmt.Errorf("ajio search: %w", err)
	}

	out := make([]domain.PriceListing, 0, len(reply.Products))
	for _, p := range reply.Products {
		if p.Name == "" {
			continue
		}

		sourceURL := p.URL
		if sourceURL != "" && sourceURL[0] == '/' {
			sourceURL = "https://www.ajio.com" + sourceURL
		}

		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0].URL
		}

		out = append(out, domain.PriceListing{
			ProductName:   p.Name,
			Price:         p.Price.Value,
			OriginalPrice: p.WasPriceData.Value,
			SourceURL:     sourceURL,
			AffiliateURL:  AffiliateURL(domain.PlatformAjio, sourceURL),
			ImageURL:      image,
			InStock:       p.Stock.StockLevelStatus == "inStock",
			Rating:        p.AverageRating,
			ReviewCount:   p.RatingCount,
			Platform:      domain.PlatformAjio,
		})
	}

	return out, nil
}
