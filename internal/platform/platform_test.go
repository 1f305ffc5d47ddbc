package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"priceKart/domain"
	"priceKart/pkg/config"
)

func TestAffiliateURL(t *testing.T) {
	got := AffiliateURL(domain.PlatformAmazon, "https://www.amazon.in/dp/B0TEST?ref=sr_1")
	if !strings.Contains(got, "tag=pricekart-21") {
		t.Errorf("AffiliateURL: %q missing amazon tracking tag", got)
	}
	if !strings.Contains(got, "ref=sr_1") {
		t.Errorf("AffiliateURL: %q dropped existing query params", got)
	}

	if got := AffiliateURL(domain.PlatformMeesho, ""); got != "" {
		t.Errorf("AffiliateURL empty source: got %q, want empty", got)
	}

	for _, p := range domain.AllPlatforms() {
		got := AffiliateURL(p, "https://example.com/item/1")
		if got == "" {
			t.Errorf("AffiliateURL(%s): empty for non-empty source", p)
		}
		if !strings.Contains(got, "pricekart") {
			t.Errorf("AffiliateURL(%s): %q has no tracking param", p, got)
		}
	}
}

func TestDemoCatalog(t *testing.T) {
	demo := newDemoCatalog()

	for _, cat := range []domain.Category{domain.CategoryMen, domain.CategoryWomen, domain.CategoryKids} {
		listings := demo.listings(domain.PlatformMyntra, cat)
		if len(listings) != 3 {
			t.Fatalf("demo listings(%s): got %d items, want 3", cat, len(listings))
		}

		for _, l := range listings {
			if l.Platform != domain.PlatformMyntra {
				t.Errorf("platform: got %s, want myntra", l.Platform)
			}
			if l.Price <= 0 || l.OriginalPrice < l.Price {
				t.Errorf("%s: bad price pair %v/%v", l.ProductName, l.Price, l.OriginalPrice)
			}
			if want := domain.DiscountPercent(l.OriginalPrice, l.Price); l.DiscountPercent != want {
				t.Errorf("%s: discount got %d, want %d", l.ProductName, l.DiscountPercent, want)
			}
			if l.Rating < 0 || l.Rating > 5 {
				t.Errorf("%s: rating %v out of range", l.ProductName, l.Rating)
			}
			if l.AffiliateURL == "" || !strings.Contains(l.AffiliateURL, "pricekart") {
				t.Errorf("%s: bad affiliate url %q", l.ProductName, l.AffiliateURL)
			}
			if l.ImageURL == "" {
				t.Errorf("%s: missing image url", l.ProductName)
			}
		}
	}
}

func TestRegistryOrderAndDemoMode(t *testing.T) {
	// No credentials anywhere: every adapter runs in demo mode.
	reg := NewRegistry(config.PlatformsConfig{})

	adapters := reg.Adapters()
	wantOrder := domain.AllPlatforms()
	if len(adapters) != len(wantOrder) {
		t.Fatalf("adapters: got %d, want %d", len(adapters), len(wantOrder))
	}
	for i, a := range adapters {
		if a.Platform() != wantOrder[i] {
			t.Errorf("adapter %d: got %s, want %s", i, a.Platform(), wantOrder[i])
		}
	}

	for _, st := range reg.Status() {
		if st.HasCredentials {
			t.Errorf("%s: has_credentials true without config", st.Platform)
		}
		if !st.DemoMode {
			t.Errorf("%s: demo_mode false without credentials", st.Platform)
		}
	}

	listings := adapters[0].Search(context.Background(), "shirt", domain.CategoryMen)
	if len(listings) != 3 {
		t.Errorf("demo search: got %d listings, want 3", len(listings))
	}
}

func TestForceDemoOverridesRealAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"products":[{"name":"Real Dress","offer_price":999,"price":1999,"product_url":"https://www.nykaafashion.com/p/1","image_url":"https://img/1.jpg","in_stock":true,"rating":4.2,"rating_count":10}]}}`))
	}))
	defer srv.Close()

	reg := NewRegistry(config.PlatformsConfig{
		Nykaa: config.NykaaConfig{APIKey: "k", BaseURL: srv.URL},
	})

	nykaa := reg.Adapters()[4]
	real := nykaa.Search(context.Background(), "dress", domain.CategoryWomen)
	if len(real) != 1 || real[0].ProductName != "Real Dress" {
		t.Fatalf("real search: got %+v, want the upstream product", real)
	}

	if err := reg.SetDemoMode(domain.PlatformNykaa, true); err != nil {
		t.Fatalf("SetDemoMode: %v", err)
	}
	demo := nykaa.Search(context.Background(), "dress", domain.CategoryWomen)
	if len(demo) != 3 {
		t.Errorf("forced demo search: got %d listings, want 3", len(demo))
	}

	if err := reg.SetDemoMode("nowhere", true); err == nil {
		t.Error("SetDemoMode with unknown platform: expected error")
	}
}

func TestFlipkartMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Fk-Affiliate-Id") != "aff" || r.Header.Get("Fk-Affiliate-Token") != "tok" {
			t.Errorf("missing affiliate headers: %v", r.Header)
		}
		w.Write([]byte(`{"products":[{
			"productBaseInfoV1":{
				"title":"Denim Jacket",
				"productUrl":"https://www.flipkart.com/p/abc",
				"inStock":true,
				"flipkartSellingPrice":{"amount":750},
				"maximumRetailPrice":{"amount":1000},
				"imageUrls":{"400x400":"https://img/400.jpg"}
			},
			"productShippingInfoV1":{"sellerAverageRating":4.5,"sellerNoOfRatings":321}
		}]}`))
	}))
	defer srv.Close()

	client := newFlipkartClient(config.FlipkartConfig{AffiliateID: "aff", Token: "tok", BaseURL: srv.URL})
	listings, err := client.search(context.Background(), "jacket", domain.CategoryMen)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("listings: got %d, want 1", len(listings))
	}

	l := listings[0]
	l.Normalize()
	if l.ProductName != "Denim Jacket" {
		t.Errorf("name: got %q", l.ProductName)
	}
	if l.Price != 750 || l.OriginalPrice != 1000 {
		t.Errorf("prices: got %v/%v, want 750/1000", l.Price, l.OriginalPrice)
	}
	if l.DiscountPercent != 25 {
		t.Errorf("discount: got %d, want 25", l.DiscountPercent)
	}
	if !strings.Contains(l.AffiliateURL, "affid=pricekart") {
		t.Errorf("affiliate url: got %q", l.AffiliateURL)
	}
	if l.ImageURL != "https://img/400.jpg" {
		t.Errorf("image: got %q", l.ImageURL)
	}
}

func TestMeeshoBasicAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"catalogs":[]}`))
	}))
	defer srv.Close()

	client := newMeeshoClient(config.MeeshoConfig{Username: "user", Password: "pass", BaseURL: srv.URL})
	if _, err := client.search(context.Background(), "saree", domain.CategoryWomen); err != nil {
		t.Fatalf("search: %v", err)
	}

	// base64("user:pass")
	if gotAuth != "Basic dXNlcjpwYXNz" {
		t.Errorf("Authorization: got %q, want basic auth header", gotAuth)
	}
}

func TestFallbackServesDemoOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := NewRegistry(config.PlatformsConfig{
		Myntra: config.MyntraConfig{APIKey: "k", BaseURL: srv.URL},
	})

	myntra := reg.Adapters()[2]
	listings := myntra.Search(context.Background(), "shirt", domain.CategoryMen)
	if len(listings) != 3 {
		t.Errorf("failed upstream should fall back to demo: got %d listings, want 3", len(listings))
	}
}
