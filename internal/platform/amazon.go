package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"priceKart/domain"
	"priceKart/pkg/config"
)

type amazonClient struct {
	cfg    config.AmazonConfig
	client *http.Client
}

func newAmazonClient(cfg config.AmazonConfig) searcher {
	if cfg.AccessKey == "" || cfg.PartnerTag == "" {
		return nil
	}
	return &amazonClient{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// PA-API style reply shape.
type amazonResponse struct {
	SearchResult struct {
		Items []struct {
			DetailPageURL string `json:"DetailPageURL"`
			ItemInfo      struct {
				Title struct {
					DisplayValue string `json:"DisplayValue"`
				} `json:"Title"`
			} `json:"ItemInfo"`
			Images struct {
				Primary struct {
					Large struct {
						URL string `json:"URL"`
					} `json:"Large"`
				} `json:"Primary"`
			} `json:"Images"`
			Offers struct {
				Listings []struct {
					Price struct {
						Amount float64 `json:"Amount"`
					} `json:"Price"`
					SavingBasis struct {
						Amount float64 `json:"Amount"`
					} `json:"SavingBasis"`
					Availability struct {
						Type string `json:"Type"`
					} `json:"Availability"`
				} `json:"Listings"`
			} `json:"Offers"`
			CustomerReviews struct {
				StarRating float64 `json:"StarRating"`
				Count      int     `json:"Count"`
			} `json:"CustomerReviews"`
		} `json:"Items"`
	} `json:"SearchResult"`
}

func (c *amazonClient) search(ctx context.Context, query string, category domain.Category) ([]domain.PriceListing, error) {
	endpoint := fmt.Sprintf("%s/searchitems?Keywords=%s&SearchIndex=Fashion&BrowseNode=%s&PartnerTag=%s",
		c.cfg.BaseURL, url.QueryEscape(query), url.QueryEscape(string(category)), url.QueryEscape(c.cfg.PartnerTag))

	header := http.Header{}
	header.Set("X-Amz-Access-Key", c.cfg.AccessKey)

	var reply amazonResponse
	if err := getJSON(ctx, c.client, endpoint, header, &reply); err != nil {
		return nil, fmt.Errorf("amazon search: %w", err)
	}

	out := make([]domain.PriceListing, 0, len(reply.SearchResult.Items))
	for _, item := range reply.SearchResult.Items {
		if len(item.Offers.Listings) == 0 || item.ItemInfo.Title.DisplayValue == "" {
			continue
		}
		offer := item.Offers.Listings[0]

		out = append(out, domain.PriceListing{
			ProductName:   item.ItemInfo.Title.DisplayValue,
			Price:         offer.Price.Amount,
			OriginalPrice: offer.SavingBasis.Amount,
			SourceURL:     item.DetailPageURL,
			AffiliateURL:  AffiliateURL(domain.PlatformAmazon, item.DetailPageURL),
			ImageURL:      item.Images.Primary.Large.URL,
			InStock:       offer.Availability.Type == "Now",
			Rating:        item.CustomerReviews.StarRating,
			ReviewCount:   item.CustomerReviews.Count,
			Platform:      domain.PlatformAmazon,
		})
	}

	return out, nil
}
