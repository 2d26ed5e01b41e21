package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Documents  DocumentsConfig  `mapstructure:"documents"`
	Audit      AuditConfig      `mapstructure:"audit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	HTTPPort int    `mapstructure:"http_port"`
	Host     string `mapstructure:"host"`
	Timeout  int    `mapstructure:"timeout"`
	Debug    bool   `mapstructure:"debug"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// DocumentsConfig contains document generation settings
type DocumentsConfig struct {
	// Base URL used to build the verification link embedded in the QR code,
	// e.g. https://denuncias.example.gov.py
	VerificationBaseURL string `mapstructure:"verification_base_url"`
	// Default paper size when the request does not specify one: oficio | a4
	DefaultPaperSize string           `mapstructure:"default_paper_size"`
	Letterhead       LetterheadConfig `mapstructure:"letterhead"`
	Office           OfficeConfig     `mapstructure:"office"`
}

// LetterheadConfig points to the institutional logo assets. Missing files are
// tolerated at render time; the document is produced without them.
type LetterheadConfig struct {
	LeftLogoPath   string `mapstructure:"left_logo_path"`
	CenterLogoPath string `mapstructure:"center_logo_path"`
	RightLogoPath  string `mapstructure:"right_logo_path"`
}

// OfficeConfig holds the contact block printed under the institutional header
type OfficeConfig struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
	Phone   string `mapstructure:"phone"`
	Fax     string `mapstructure:"fax"`
	Email   string `mapstructure:"email"`
}

// AuditConfig contains audit trail settings
type AuditConfig struct {
	BufferSize    int           `mapstructure:"buffer_size"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// MonitoringConfig contains metrics exposure settings
type MonitoringConfig struct {
	EnableMetrics bool   `mapstructure:"enable_metrics"`
	MetricsPath   string `mapstructure:"metrics_path"`
}

// LoadConfig loads the configuration from the given file path, applying
// defaults and environment variable overrides
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetEnvPrefix("ACTA")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is acceptable; defaults and env vars apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.http_port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.timeout", 30)
	viper.SetDefault("server.debug", false)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "30m")
	viper.SetDefault("database.migrations_path", "file://internal/storage/migrations")

	// Document defaults
	viper.SetDefault("documents.verification_base_url", "https://denuncias.delitoseconomicos.gov.py")
	viper.SetDefault("documents.default_paper_size", "oficio")
	viper.SetDefault("documents.office.name", "ASUNCIÓN")
	viper.SetDefault("documents.office.address", "E. V. Haedo 725 casi O'Leary")
	viper.SetDefault("documents.office.phone", "(021) 443-159")
	viper.SetDefault("documents.office.fax", "(021) 443-126 (021) 441-111")
	viper.SetDefault("documents.office.email", "ayudantia@delitoseconomicos.gov.py")

	// Audit defaults
	viper.SetDefault("audit.buffer_size", 1000)
	viper.SetDefault("audit.batch_size", 100)
	viper.SetDefault("audit.flush_interval", "10s")

	// Monitoring defaults
	viper.SetDefault("monitoring.enable_metrics", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Documents.VerificationBaseURL == "" {
		return fmt.Errorf("verification base URL is required")
	}

	switch c.Documents.DefaultPaperSize {
	case "oficio", "a4":
	default:
		return fmt.Errorf("invalid default paper size: %s", c.Documents.DefaultPaperSize)
	}

	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Username,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// InitLogger initializes the logger based on configuration
func (c *Config) InitLogger() (*zap.Logger, error) {
	var config zap.Config

	if c.Server.Debug {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}
