package provider

import (
	"net/url"
	"testing"

	"github.com/vendrhub/klarna-hpp/internal/klarna"
)

func TestResolveContinueURL(t *testing.T) {
	settings := HppSettings{Settings: Settings{ContinueURL: "https://shop.example/continue"}}

	got, err := settings.ResolveContinueURL(url.Values{"sid": {"hpp-1"}, "token": {"abc"}})
	if err != nil {
		t.Fatalf("ResolveContinueURL failed: %v", err)
	}
	if got != "https://shop.example/continue?sid=hpp-1&token=abc" {
		t.Errorf("got %q", got)
	}

	if _, err := (HppSettings{}).ResolveContinueURL(nil); err == nil {
		t.Error("expected error when continue URL is not configured")
	}
}

func TestResolveCancelURL(t *testing.T) {
	settings := HppSettings{Settings: Settings{
		CancelURL: "https://shop.example/cancel",
		ErrorURL:  "https://shop.example/error",
	}}

	got, err := settings.ResolveCancelURL(url.Values{"sid": {"hpp-1"}, "reason": {"cancel"}})
	if err != nil {
		t.Fatalf("ResolveCancelURL failed: %v", err)
	}
	if got != "https://shop.example/cancel?sid=hpp-1&reason=cancel" {
		t.Errorf("got %q", got)
	}

	// A failure routes to the error URL when one is configured.
	got, err = settings.ResolveCancelURL(url.Values{"sid": {"hpp-1"}, "reason": {"failure"}})
	if err != nil {
		t.Fatalf("ResolveCancelURL failed: %v", err)
	}
	if got != "https://shop.example/error?sid=hpp-1" {
		t.Errorf("got %q", got)
	}

	// Without an error URL the failure reason stays on the cancel URL.
	noError := HppSettings{Settings: Settings{CancelURL: "https://shop.example/cancel"}}
	got, err = noError.ResolveCancelURL(url.Values{"reason": {"failure"}})
	if err != nil {
		t.Fatalf("ResolveCancelURL failed: %v", err)
	}
	if got != "https://shop.example/cancel?reason=failure" {
		t.Errorf("got %q", got)
	}
}

func TestSettingsClientConfig(t *testing.T) {
	settings := Settings{
		APIRegion:       "NORTH_AMERICA",
		TestMode:        true,
		TestAPIUsername: "test-user",
		TestAPIPassword: "test-pass",
		LiveAPIUsername: "live-user",
		LiveAPIPassword: "live-pass",
	}

	cfg, err := settings.ClientConfig()
	if err != nil {
		t.Fatalf("ClientConfig failed: %v", err)
	}
	if cfg.Username != "test-user" || cfg.Password != "test-pass" {
		t.Errorf("test mode must use test credentials, got %s/%s", cfg.Username, cfg.Password)
	}
	if cfg.BaseURL() != klarna.NaPlaygroundAPIURL {
		t.Errorf("BaseURL = %q, want NA playground", cfg.BaseURL())
	}

	settings.TestMode = false
	cfg, err = settings.ClientConfig()
	if err != nil {
		t.Fatalf("ClientConfig failed: %v", err)
	}
	if cfg.Username != "live-user" {
		t.Errorf("live mode must use live credentials, got %s", cfg.Username)
	}
	if cfg.BaseURL() != klarna.NaLiveAPIURL {
		t.Errorf("BaseURL = %q, want NA live", cfg.BaseURL())
	}

	settings.APIRegion = "MOON"
	if _, err := settings.ClientConfig(); err == nil {
		t.Error("expected error for unknown region")
	}

	missing := Settings{APIRegion: "EUROPE", TestMode: true}
	if _, err := missing.ClientConfig(); err == nil {
		t.Error("expected error for missing credentials")
	}
}

func TestPaymentMethodCategories(t *testing.T) {
	s := Settings{PaymentMethodCategories: "PAY_NOW, PAY_LATER,,PAY_OVER_TIME "}
	got := s.paymentMethodCategories()
	want := []string{"PAY_NOW", "PAY_LATER", "PAY_OVER_TIME"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if (Settings{}).paymentMethodCategories() != nil {
		t.Error("empty setting should yield nil categories")
	}
}

func TestSettingDefinitionsCoverMetadataKeys(t *testing.T) {
	if len(SettingDefinitions()) == 0 {
		t.Fatal("no setting definitions")
	}

	keys := map[string]bool{}
	for _, d := range TransactionMetadataDefinitions() {
		keys[d.Key] = true
	}
	for _, key := range []string{MetaSessionID, MetaSecretToken, MetaOrderID, MetaReference} {
		if !keys[key] {
			t.Errorf("metadata definitions missing %s", key)
		}
	}
}
