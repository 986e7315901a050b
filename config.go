package zuora

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds client settings.
//
// Username, Password and WSDLEndpointPath are required. GatewayName
// selects a named payment gateway for created accounts; TestUsers flags
// every created account as a test account.
type Config struct {
	Username         string
	Password         string
	WSDLEndpointPath string

	RESTBaseURL string

	GatewayName string
	TestUsers   bool

	Currency string
}

// LoadConfig reads settings from a zuora.yml config file when present and
// from ZUORA_* environment variables, .env included.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("zuora")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/zuora")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ZUORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("currency", "USD")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	cfg := Config{
		Username:         strings.TrimSpace(v.GetString("username")),
		Password:         v.GetString("password"),
		WSDLEndpointPath: strings.TrimSpace(v.GetString("wsdl_endpoint_path")),
		RESTBaseURL:      strings.TrimSpace(v.GetString("rest_base_url")),
		GatewayName:      strings.TrimSpace(v.GetString("gateway_name")),
		TestUsers:        v.GetBool("test_users"),
		Currency:         strings.TrimSpace(v.GetString("currency")),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the required settings.
func (c Config) Validate() error {
	var missing []string
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.WSDLEndpointPath == "" {
		missing = append(missing, "wsdl_endpoint_path")
	}
	if len(missing) > 0 {
		return fmt.Errorf("zuora: config missing %s: %w", strings.Join(missing, ", "), ErrMissingRequired)
	}
	return nil
}
