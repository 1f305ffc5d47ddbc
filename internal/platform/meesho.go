package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"priceKart/domain"
	"priceKart/pkg/config"

	"github.com/pobyzaarif/goshortcute"
)

type meeshoClient struct {
	cfg    config.MeeshoConfig
	client *http.Client
}

func newMeeshoClient(cfg config.MeeshoConfig) searcher {
	if cfg.Username == "" || cfg.Password == "" {
		return nil
	}
	return &meeshoClient{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

type meeshoResponse struct {
	Catalogs []struct {
		Name            string  `json:"name"`
		MinProductPrice float64 `json:"min_product_price"`
		OriginalPrice   float64 `json:"original_price"`
		ShareURL        string  `json:"share_url"`
		Image           string  `json:"image"`
		Available       bool    `json:"available"`
		ReviewsSummary  struct {
			AverageRating float64 `json:"average_rating"`
			ReviewCount   int     `json:"review_count"`
		} `json:"catalog_reviews_summary"`
	} `json:"catalogs"`
}

func (c *meeshoClient) search(ctx context.Context, query string, category domain.Category) ([]domain.PriceListing, error) {
	endpoint := fmt.Sprintf("%s/catalogs/search?q=%s&category=%s",
		c.cfg.BaseURL, url.QueryEscape(query), url.QueryEscape(string(category)))

	basicAuth := goshortcute.StringtoBase64Encode(c.cfg.Username + ":" + c.cfg.Password)
	header := http.Header{}
	header.Set("Authorization", "Basic "+basicAuth)

	var reply meeshoResponse
	if err := getJSON(ctx, c.client, endpoint, header, &reply); err != nil {
		return nil, fmt.Errorf("meesho search: %w", err)
	}

	out := make([]domain.PriceListing, 0, len(reply.Catalogs))
	for _, cat := range reply.Catalogs {
		if cat.Name == "" {
			continue
		}

		out = append(out, domain.PriceListing{
			ProductName:   cat.Name,
			Price:         cat.MinProductPrice,
			OriginalPrice: cat.OriginalPrice,
			SourceURL:     cat.ShareURL,
			AffiliateURL:  AffiliateURL(domain.PlatformMeesho, cat.ShareURL),
			ImageURL:      cat.Image,
			InStock:       cat.Available,
			Rating:        cat.ReviewsSummary.AverageRating,
			ReviewCount:   cat.ReviewsSummary.ReviewCount,
			Platform:      domain.PlatformMeesho,
		})
	}

	return out, nil
}
