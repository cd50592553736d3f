// Package common provides configuration management, error helpers and HTTP
// endpoint utilities for the AAS data plane. It includes support for YAML
// configuration files, environment variable overrides, CORS setup and health
// endpoints.
// nolint:all
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// PrintSplash displays the service banner to the console.
// This function is typically called during application startup to confirm
// the service is starting.
func PrintSplash() {
	log.Printf(`
	   ___   ___   ____    ___       __         ___  __
	  / _ | / _ | / __/   / _ \___ _/ /____ _  / _ \/ /__ ____  ___
	 / __ |/ __ |_\ \    / // / _ '/ __/ _ '/ / ___/ / _ '/ _ \/ -_)
	/_/ |_/_/ |_/___/   /____/\_,_/\__/\_,_/ /_/  /_/\_,_/_//_/\__/
	`)
}

// Config represents the complete configuration structure of the AAS data plane.
// It combines server settings, CORS policy, data plane behaviour, the outgoing
// HTTP client, OIDC protection of the flow API and the list of known AAS providers.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" json:"server"`         // HTTP server configuration
	CorsConfig CorsConfig       `mapstructure:"cors" json:"cors"`             // CORS policy configuration
	DataPlane  DataPlaneConfig  `mapstructure:"dataplane" json:"dataplane"`   // Transfer behaviour
	HTTPClient HTTPClientConfig `mapstructure:"httpclient" json:"httpclient"` // Outgoing requests to AAS services
	OIDC       OIDCConfig       `mapstructure:"oidc" json:"oidc"`             // OpenID Connect authentication of the flow API

	Providers []ProviderConfig `mapstructure:"providers" json:"providers" validate:"dive"` // Registered AAS services
}

// ServerConfig contains HTTP server configuration parameters.
type ServerConfig struct {
	Host        string `mapstructure:"host" json:"host"`                                   // Listen address
	Port        int    `mapstructure:"port" json:"port" validate:"min=1,max=65535"`        // HTTP server port (default: 8282)
	ContextPath string `mapstructure:"contextPath" json:"contextPath"`                     // Base path for all endpoints
	PublicURL   string `mapstructure:"publicUrl" json:"publicUrl" validate:"omitempty,url"` // URL consumers use to reach the public proxy
}

// CorsConfig contains Cross-Origin Resource Sharing (CORS) policy settings.
type CorsConfig struct {
	AllowedOrigins   []string `mapstructure:"allowedOrigins" json:"allowedOrigins"`     // Allowed origin domains
	AllowedMethods   []string `mapstructure:"allowedMethods" json:"allowedMethods"`     // Allowed HTTP methods
	AllowedHeaders   []string `mapstructure:"allowedHeaders" json:"allowedHeaders"`     // Allowed request headers
	AllowCredentials bool     `mapstructure:"allowCredentials" json:"allowCredentials"` // Allow credentials in requests
}

// DataPlaneConfig controls how transfers are executed.
type DataPlaneConfig struct {
	// AasEnabled selects AAS semantics for flows. When false, flows expose
	// plain HTTP addresses without proxy overrides.
	AasEnabled bool `mapstructure:"aasEnabled" json:"aasEnabled"`
	// AllowAll disables the registered-service check of the processor factory.
	AllowAll bool `mapstructure:"allowAll" json:"allowAll"`
}

// HTTPClientConfig tunes the client shared by all requests to AAS services.
type HTTPClientConfig struct {
	TimeoutSeconds      int     `mapstructure:"timeoutSeconds" json:"timeoutSeconds" validate:"min=1"`
	MaxRetries          int     `mapstructure:"maxRetries" json:"maxRetries" validate:"min=0,max=10"`
	RetryInitialMillis  int     `mapstructure:"retryInitialMillis" json:"retryInitialMillis" validate:"min=1"`
	RequestsPerSecond   float64 `mapstructure:"requestsPerSecond" json:"requestsPerSecond" validate:"min=0"` // 0 disables rate limiting
	Burst               int     `mapstructure:"burst" json:"burst" validate:"min=1"`
	BreakerFailures     int     `mapstructure:"breakerFailures" json:"breakerFailures" validate:"min=1"`
	BreakerOpenSeconds  int     `mapstructure:"breakerOpenSeconds" json:"breakerOpenSeconds" validate:"min=1"`
	MaxIdleConnsPerHost int     `mapstructure:"maxIdleConnsPerHost" json:"maxIdleConnsPerHost" validate:"min=1"`
	InsecureSkipVerify  bool    `mapstructure:"insecureSkipVerify" json:"insecureSkipVerify"`
}

// OIDCConfig contains OpenID Connect authentication provider settings.
type OIDCConfig struct {
	Enabled  bool     `mapstructure:"enabled" json:"enabled"`                                                 // Require bearer tokens on the flow API
	Issuer   string   `mapstructure:"issuer" json:"issuer" validate:"required_if=Enabled true,omitempty,url"` // OIDC issuer URL
	Audience string   `mapstructure:"audience" json:"audience" validate:"required_if=Enabled true"`           // Expected token audience
	Scopes   []string `mapstructure:"scopes" json:"scopes"`                                                   // Scopes every token must carry
}

// ProviderConfig registers an AAS service together with its credentials.
type ProviderConfig struct {
	URL  string             `mapstructure:"url" json:"url" validate:"required,url"`
	Auth ProviderAuthConfig `mapstructure:"auth" json:"auth"`
}

// ProviderAuthConfig selects the authentication method of a provider.
type ProviderAuthConfig struct {
	Type     string `mapstructure:"type" json:"type" validate:"omitempty,oneof=none basic apikey"`
	Username string `mapstructure:"username" json:"username,omitempty" validate:"required_if=Type basic"`
	Password string `mapstructure:"password" json:"password,omitempty"`
	KeyName  string `mapstructure:"keyName" json:"keyName,omitempty" validate:"required_if=Type apikey"`
	KeyValue string `mapstructure:"keyValue" json:"keyValue,omitempty"`
}

// LoadConfig loads the configuration from YAML files and environment variables.
//
// The function supports multiple configuration sources with the following precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file (if provided)
// 3. Default values (lowest priority)
//
// Environment variables should use underscore notation (e.g., SERVER_PORT for server.port).
//
// Parameters:
//   - configPath: Path to the YAML configuration file. If empty, only environment
//     variables and defaults will be used.
//
// Returns:
//   - *Config: Loaded and validated configuration structure
//   - error: Error if configuration loading or validation fails
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		log.Printf("📁 Loading config from file: %s", configPath)
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		log.Println("📁 No config file provided — loading from environment variables only")
	}

	// Override config with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	PrintConfiguration(cfg)
	return cfg, nil
}

// ValidateConfig checks the struct constraints of cfg and reports every
// violated field in one error.
func ValidateConfig(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("CONFIG-VALIDATE-FAILED %w", err)
	}
	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Namespace(), fieldErr.Tag()))
	}
	return errors.New("CONFIG-VALIDATE-INVALIDFIELDS " + strings.Join(fields, ", "))
}

// setDefaults configures sensible default values for all configuration options.
//
// Default values include:
//   - Server: Port 8282 on all interfaces, no context path
//   - CORS: Permissive policy allowing all origins and common methods
//   - Data plane: AAS semantics enabled, only registered providers allowed
//   - HTTP client: 30s timeout, 3 retries, no rate limit, breaker after 5 failures
//   - OIDC: Disabled, local Keycloak realm as issuer
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8282)
	v.SetDefault("server.contextPath", "")
	v.SetDefault("server.publicUrl", "")

	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"*"})
	v.SetDefault("cors.allowCredentials", true)

	v.SetDefault("dataplane.aasEnabled", true)
	v.SetDefault("dataplane.allowAll", false)

	v.SetDefault("httpclient.timeoutSeconds", 30)
	v.SetDefault("httpclient.maxRetries", 3)
	v.SetDefault("httpclient.retryInitialMillis", 200)
	v.SetDefault("httpclient.requestsPerSecond", 0)
	v.SetDefault("httpclient.burst", 10)
	v.SetDefault("httpclient.breakerFailures", 5)
	v.SetDefault("httpclient.breakerOpenSeconds", 30)
	v.SetDefault("httpclient.maxIdleConnsPerHost", 16)
	v.SetDefault("httpclient.insecureSkipVerify", false)

	v.SetDefault("oidc.enabled", false)
	v.SetDefault("oidc.issuer", "http://localhost:8080/realms/basyx")
	v.SetDefault("oidc.audience", "aas-dataplane")
	v.SetDefault("oidc.scopes", []string{})
}

// PrintConfiguration prints the current configuration to the console with
// provider credentials redacted.
func PrintConfiguration(cfg *Config) {
	cfgCopy := *cfg

	cfgCopy.Providers = make([]ProviderConfig, len(cfg.Providers))
	for i, p := range cfg.Providers {
		if p.Auth.Password != "" {
			p.Auth.Password = "****"
		}
		if p.Auth.KeyValue != "" {
			p.Auth.KeyValue = "****"
		}
		cfgCopy.Providers[i] = p
	}

	configJSON, err := json.MarshalIndent(cfgCopy, "", "  ")
	if err != nil {
		log.Printf("Unable to marshal configuration to JSON: %v", err)
		return
	}

	log.Printf("📜 Loaded configuration:\n%s", string(configJSON))
}

// AddCors configures Cross-Origin Resource Sharing (CORS) middleware for the router.
//
// Parameters:
//   - r: Chi router to configure with CORS middleware
//   - config: Configuration containing CORS policy settings
func AddCors(r *chi.Mux, config *Config) {
	c := cors.New(cors.Options{
		AllowedOrigins:   config.CorsConfig.AllowedOrigins,
		AllowedMethods:   config.CorsConfig.AllowedMethods,
		AllowedHeaders:   config.CorsConfig.AllowedHeaders,
		AllowCredentials: config.CorsConfig.AllowCredentials,
	})
	r.Use(c.Handler)
}
