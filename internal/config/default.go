package config

import "time"

func SetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  2 * time.Minute,
		},
		Database: DatabaseConfig{
			Host:              "localhost",
			Port:              5432,
			User:              "postgres",
			Password:          "",
			Name:              "klarna-hpp",
			SSLMode:           "require",
			MaxOpenConns:      10,
			MaxIdleConns:      5,
			ConnMaxLifetime:   1 * time.Hour,
			ConnMaxIdleTime:   15 * time.Minute,
			HealthCheckPeriod: 1 * time.Minute,
		},
		Logger: LoggerConfig{
			Level:        "info",
			Format:       "json",
			Output:       "stdout",
			EnableColors: false,
			FilePath:     "",
			MaxSize:      0,
			MaxBackups:   0,
			MaxAge:       0,
			Compress:     false,
		},
		Klarna: KlarnaConfig{
			APIRegion: "EUROPE",
			Capture:   false,
			TestMode:  true,
		},
	}
}
