package config

import (
	"fmt"
	"net/url"

	"github.com/vendrhub/klarna-hpp/internal/klarna"
)

type Validator interface {
	Validate(cfg *Config) error
}

type validator struct{}

func NewValidator() Validator {
	return &validator{}
}

func (va *validator) Validate(cfg *Config) error {
	if err := va.validateServer(cfg.Server); err != nil {
		return err
	}
	if err := va.validateLogger(cfg.Logger); err != nil {
		return err
	}
	return va.validateKlarna(cfg.Klarna)
}

func (va *validator) validateServer(s ServerConfig) error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", s.Port)
	}
	if s.PublicBaseURL != "" {
		u, err := url.Parse(s.PublicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("server.public_base_url must be an absolute URL: %q", s.PublicBaseURL)
		}
	}
	return nil
}

func (va *validator) validateLogger(l LoggerConfig) error {
	switch l.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("logger.level unknown: %q", l.Level)
	}
	switch l.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format unknown: %q", l.Format)
	}
	switch l.Output {
	case "stdout", "stderr":
	case "file":
		if l.FilePath == "" {
			return fmt.Errorf("logger.file_path is required when output is 'file'")
		}
	default:
		return fmt.Errorf("logger.output unknown: %q", l.Output)
	}
	return nil
}

func (va *validator) validateKlarna(k KlarnaConfig) error {
	if _, err := klarna.ParseRegion(k.APIRegion); err != nil {
		return fmt.Errorf("klarna.api_region: %w", err)
	}
	if k.ContinueURL == "" {
		return fmt.Errorf("klarna.continue_url is required")
	}
	if k.CancelURL == "" {
		return fmt.Errorf("klarna.cancel_url is required")
	}
	if k.TestMode {
		if k.TestAPIUsername == "" || k.TestAPIPassword == "" {
			return fmt.Errorf("klarna test credentials are required in test mode")
		}
		return nil
	}
	if k.LiveAPIUsername == "" || k.LiveAPIPassword == "" {
		return fmt.Errorf("klarna live credentials are required in live mode")
	}
	return nil
}
