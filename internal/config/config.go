// Package config loads the service configuration from config.yaml, .env and
// the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string `yaml:"env"`
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Klarna   KlarnaConfig
}

type ServerConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Name              string        `mapstructure:"name"`
	SSLMode           string        `mapstructure:"sslmode"`
	MaxOpenConns      int           `mapstructure:"max_open_conns"`
	MaxIdleConns      int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime   time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime   time.Duration `mapstructure:"conn_max_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

type LoggerConfig struct {
	Level        string `mapstructure:"level"`
	Format       string `mapstructure:"format"`
	Output       string `mapstructure:"output"`
	EnableColors bool   `mapstructure:"enable_colors"`
	FilePath     string `mapstructure:"file_path"`
	MaxSize      int    `mapstructure:"max_size"`
	MaxBackups   int    `mapstructure:"max_backups"`
	MaxAge       int    `mapstructure:"max_age"`
	Compress     bool   `mapstructure:"compress"`
}

// KlarnaConfig mirrors the payment provider settings catalogue.
type KlarnaConfig struct {
	ContinueURL string `mapstructure:"continue_url"`
	CancelURL   string `mapstructure:"cancel_url"`
	ErrorURL    string `mapstructure:"error_url"`

	BillingAddressLine1PropertyAlias   string `mapstructure:"billing_address_line1_property_alias"`
	BillingAddressLine2PropertyAlias   string `mapstructure:"billing_address_line2_property_alias"`
	BillingAddressCityPropertyAlias    string `mapstructure:"billing_address_city_property_alias"`
	BillingAddressStatePropertyAlias   string `mapstructure:"billing_address_state_property_alias"`
	BillingAddressZipCodePropertyAlias string `mapstructure:"billing_address_zipcode_property_alias"`
	ProductTypePropertyAlias           string `mapstructure:"product_type_property_alias"`

	APIRegion       string `mapstructure:"api_region"`
	TestAPIUsername string `mapstructure:"test_api_username"`
	TestAPIPassword string `mapstructure:"test_api_password"`
	LiveAPIUsername string `mapstructure:"live_api_username"`
	LiveAPIPassword string `mapstructure:"live_api_password"`
	Capture         bool   `mapstructure:"capture"`
	TestMode        bool   `mapstructure:"test_mode"`

	PaymentPageLogoURL      string `mapstructure:"payment_page_logo_url"`
	PaymentPagePageTitle    string `mapstructure:"payment_page_page_title"`
	PaymentMethodCategories string `mapstructure:"payment_method_categories"`
	PaymentMethodCategory   string `mapstructure:"payment_method_category"`
	EnableFallbacks         bool   `mapstructure:"enable_fallbacks"`

	FeeLabelTemplate    string `mapstructure:"fee_label_template"`
	DiscountsLabel      string `mapstructure:"discounts_label"`
	AdditionalFeesLabel string `mapstructure:"additional_fees_label"`
}

type Loader interface {
	Load() (*Config, error)
}

type viperLoader struct {
	configPath string
	validator  Validator
}

func NewViperLoader(configPath string, validator Validator) Loader {
	if configPath == "" {
		configPath = "."
	}
	return &viperLoader{
		configPath: configPath,
		validator:  validator,
	}
}

func (l *viperLoader) Load() (*Config, error) {
	cfg := SetDefaultConfig()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// env config
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(l.configPath)
	v.AddConfigPath(".")
	if err := v.MergeInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("KLARNA_HPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.BindEnvVariables(v)

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config failed validation: %w", err)
	}

	return cfg, nil
}

func (l *viperLoader) BindEnvVariables(v *viper.Viper) {
	// Server
	_ = v.BindEnv("server.host")
	_ = v.BindEnv("server.port")
	_ = v.BindEnv("server.public_base_url")
	_ = v.BindEnv("server.read_timeout")
	_ = v.BindEnv("server.write_timeout")
	_ = v.BindEnv("server.idle_timeout")
	// Database
	_ = v.BindEnv("database.host")
	_ = v.BindEnv("database.port")
	_ = v.BindEnv("database.user")
	_ = v.BindEnv("database.password")
	_ = v.BindEnv("database.name")
	_ = v.BindEnv("database.sslmode")
	_ = v.BindEnv("database.max_open_conns")
	_ = v.BindEnv("database.max_idle_conns")
	// Logger
	_ = v.BindEnv("logger.level")
	_ = v.BindEnv("logger.format")
	_ = v.BindEnv("logger.output")
	_ = v.BindEnv("logger.enable_colors")
	_ = v.BindEnv("logger.file_path")
	_ = v.BindEnv("logger.max_size")
	_ = v.BindEnv("logger.max_backups")
	_ = v.BindEnv("logger.max_age")
	_ = v.BindEnv("logger.compress")
	// Klarna
	_ = v.BindEnv("klarna.continue_url")
	_ = v.BindEnv("klarna.cancel_url")
	_ = v.BindEnv("klarna.error_url")
	_ = v.BindEnv("klarna.billing_address_line1_property_alias")
	_ = v.BindEnv("klarna.billing_address_line2_property_alias")
	_ = v.BindEnv("klarna.billing_address_city_property_alias")
	_ = v.BindEnv("klarna.billing_address_state_property_alias")
	_ = v.BindEnv("klarna.billing_address_zipcode_property_alias")
	_ = v.BindEnv("klarna.product_type_property_alias")
	_ = v.BindEnv("klarna.api_region")
	_ = v.BindEnv("klarna.test_api_username")
	_ = v.BindEnv("klarna.test_api_password")
	_ = v.BindEnv("klarna.live_api_username")
	_ = v.BindEnv("klarna.live_api_password")
	_ = v.BindEnv("klarna.capture")
	_ = v.BindEnv("klarna.test_mode")
	_ = v.BindEnv("klarna.payment_page_logo_url")
	_ = v.BindEnv("klarna.payment_page_page_title")
	_ = v.BindEnv("klarna.payment_method_categories")
	_ = v.BindEnv("klarna.payment_method_category")
	_ = v.BindEnv("klarna.enable_fallbacks")
	_ = v.BindEnv("klarna.fee_label_template")
	_ = v.BindEnv("klarna.discounts_label")
	_ = v.BindEnv("klarna.additional_fees_label")
}

func Load(configPath string) (*Config, error) {
	loader := NewViperLoader(configPath, NewValidator())
	return loader.Load()
}

func (c *DatabaseConfig) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	)
}
