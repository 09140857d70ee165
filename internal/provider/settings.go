// Package provider implements the Klarna HPP payment provider: building
// merchant and hosted-payment-page sessions from a host order, validating the
// asynchronous status callback, and translating Klarna order states into the
// host's payment-status vocabulary.
package provider

import (
	"fmt"
	"strings"

	"github.com/vendrhub/klarna-hpp/internal/klarna"
)

// Keys under which the provider stores correlation metadata in the order's
// property bag.
const (
	MetaSessionID   = "klarnaSessionId"
	MetaSecretToken = "klarnaSecretToken"
	MetaOrderID     = "klarnaOrderId"
	MetaReference   = "klarnaReference"
)

// Settings shared by all Klarna payment methods.
type Settings struct {
	ContinueURL string
	CancelURL   string
	ErrorURL    string

	// Billing address fields are read from order custom properties through
	// these aliases. Every alias is optional; an absent alias or property
	// leaves the field unset.
	BillingAddressLine1PropertyAlias   string
	BillingAddressLine2PropertyAlias   string
	BillingAddressCityPropertyAlias    string
	BillingAddressStatePropertyAlias   string
	BillingAddressZipCodePropertyAlias string

	// ProductTypePropertyAlias names the order-line property holding the
	// Klarna line type ("physical" or "digital").
	ProductTypePropertyAlias string

	APIRegion       string
	TestAPIUsername string
	TestAPIPassword string
	LiveAPIUsername string
	LiveAPIPassword string

	// Capture places the order in immediate-capture mode instead of
	// authorize-only.
	Capture  bool
	TestMode bool

	// Advanced payment page options.
	PaymentPageLogoURL      string
	PaymentPagePageTitle    string
	PaymentMethodCategories string // comma separated
	PaymentMethodCategory   string
	EnableFallbacks         bool
}

// HppSettings extends the shared settings with HPP-specific labels for the
// synthetic order lines.
type HppSettings struct {
	Settings

	FeeLabelTemplate    string // defaults to "%s Fee"
	DiscountsLabel      string // defaults to "Discounts"
	AdditionalFeesLabel string // defaults to "Additional Fees"
}

// ClientConfig resolves the Klarna client configuration for the settings'
// region, mode and credential pair.
func (s Settings) ClientConfig() (klarna.ClientConfig, error) {
	region, err := klarna.ParseRegion(s.APIRegion)
	if err != nil {
		return klarna.ClientConfig{}, err
	}

	cfg := klarna.ClientConfig{Region: region, Testing: s.TestMode}
	if s.TestMode {
		cfg.Username = s.TestAPIUsername
		cfg.Password = s.TestAPIPassword
	} else {
		cfg.Username = s.LiveAPIUsername
		cfg.Password = s.LiveAPIPassword
	}

	if cfg.Username == "" || cfg.Password == "" {
		return klarna.ClientConfig{}, fmt.Errorf("missing Klarna API credentials for %s mode", modeName(s.TestMode))
	}

	return cfg, nil
}

func modeName(testMode bool) string {
	if testMode {
		return "test"
	}
	return "live"
}

func (s Settings) paymentMethodCategories() []string {
	if s.PaymentMethodCategories == "" {
		return nil
	}
	var categories []string
	for _, c := range strings.Split(s.PaymentMethodCategories, ",") {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	return categories
}

func (s HppSettings) feeLabel(name string) string {
	template := s.FeeLabelTemplate
	if template == "" {
		template = "%s Fee"
	}
	return fmt.Sprintf(template, name)
}

func (s HppSettings) discountsLabel() string {
	if s.DiscountsLabel == "" {
		return "Discounts"
	}
	return s.DiscountsLabel
}

func (s HppSettings) additionalFeesLabel() string {
	if s.AdditionalFeesLabel == "" {
		return "Additional Fees"
	}
	return s.AdditionalFeesLabel
}
