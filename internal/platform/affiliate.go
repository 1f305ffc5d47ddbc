package platform

import (
	"net/url"

	"priceKart/domain"
)

// Fixed per-platform tracking parameter appended to every source URL.
var trackingParams = map[domain.Platform][2]string{
	domain.PlatformAmazon:   {"tag", "pricekart-21"},
	domain.PlatformFlipkart: {"affid", "pricekart"},
	domain.PlatformMyntra:   {"utm_source", "pricekart"},
	domain.PlatformAjio:     {"ref", "pricekart"},
	domain.PlatformNykaa:    {"ptype", "pricekart"},
	domain.PlatformMeesho:   {"src", "pricekart"},
}

// AffiliateURL deterministically derives the affiliate link from a source
// URL. Never empty when sourceURL is non-empty: an unparseable URL passes
// through untouched rather than dropping the link.
func AffiliateURL(p domain.Platform, sourceURL string) string {
	if sourceURL == "" {
		return ""
	}

	param, ok := trackingParams[p]
	if !ok {
		return sourceURL
	}

	u, err := url.Parse(sourceURL)
	if err != nil {
		return sourceURL
	}

	q := u.Query()
	q.Set(param[0], param[1])
	u.RawQuery = q.Encode()

	return u.String()
}
