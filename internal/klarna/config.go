// Package klarna implements a client for the Klarna payments, HPP and order
// management APIs: https://docs.klarna.com/api/.
package klarna

import "fmt"

// Region selects which of Klarna's regional API clusters to call.
type Region string

const (
	RegionEurope       Region = "EUROPE"
	RegionNorthAmerica Region = "NORTH_AMERICA"
	RegionOceania      Region = "OCEANIA"
)

// Fixed regional base URLs, live and playground.
const (
	EuLiveAPIURL = "https://api.klarna.com"
	NaLiveAPIURL = "https://api-na.klarna.com"
	OcLiveAPIURL = "https://api-oc.klarna.com"

	EuPlaygroundAPIURL = "https://api.playground.klarna.com"
	NaPlaygroundAPIURL = "https://api-na.playground.klarna.com"
	OcPlaygroundAPIURL = "https://api-oc.playground.klarna.com"
)

// ParseRegion parses a region name as it appears in provider settings.
func ParseRegion(s string) (Region, error) {
	switch Region(s) {
	case RegionEurope, RegionNorthAmerica, RegionOceania:
		return Region(s), nil
	default:
		return "", fmt.Errorf("unknown Klarna API region: %q", s)
	}
}

// ClientConfig carries the credentials and routing for one Klarna merchant
// account. Username/Password are the region- and mode-specific API pair.
type ClientConfig struct {
	Username string
	Password string
	Region   Region
	Testing  bool

	// OverrideBaseURL replaces the regional base URL when set. Used in
	// tests; leave empty in production.
	OverrideBaseURL string
}

// BaseURL resolves the API base URL for the configured region and mode.
func (c ClientConfig) BaseURL() string {
	if c.OverrideBaseURL != "" {
		return c.OverrideBaseURL
	}

	if c.Testing {
		switch c.Region {
		case RegionNorthAmerica:
			return NaPlaygroundAPIURL
		case RegionOceania:
			return OcPlaygroundAPIURL
		default:
			return EuPlaygroundAPIURL
		}
	}

	switch c.Region {
	case RegionNorthAmerica:
		return NaLiveAPIURL
	case RegionOceania:
		return OcLiveAPIURL
	default:
		return EuLiveAPIURL
	}
}

// SessionURL returns the absolute payments-API URL of a merchant session,
// used as the payment_session_url of an HPP session request.
func (c ClientConfig) SessionURL(sessionID string) string {
	return c.BaseURL() + "/payments/v1/sessions/" + sessionID
}
