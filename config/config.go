package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	apiURLEnvName     = "STOREFRONT_API_URL"
	envPrefix         = "STOREFRONT"
)

type api struct {
	BaseURL           string        `mapstructure:"base_url"`
	Prefix            string        `mapstructure:"prefix"`
	ShippingPrefix    string        `mapstructure:"shipping_prefix"`
	Timeout           time.Duration `mapstructure:"timeout"`
	LoginPath         string        `mapstructure:"login_path"`
	SessionCookieName string        `mapstructure:"session_cookie_name"`
	SessionToken      string        `mapstructure:"session_token"`
}

type query struct {
	StaleTime     time.Duration `mapstructure:"stale_time"`
	GCTime        time.Duration `mapstructure:"gc_time"`
	Retry         int           `mapstructure:"retry"`
	MutationRetry int           `mapstructure:"mutation_retry"`
}

type topics struct {
	ClientEvents string `mapstructure:"client_events"`
	CartEvents   string `mapstructure:"cart_events"`
}

type brokerTLS struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type brokerSASL struct {
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
}

type broker struct {
	SeedBrokers        []string   `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string   `mapstructure:"schema_registry_urls"`
	Topics             topics     `mapstructure:"topics"`
	TLS                brokerTLS  `mapstructure:"tls"`
	SASL               brokerSASL `mapstructure:"sasl"`
}

type Config struct {
	LogLevel slog.Level `mapstructure:"log_level"`
	API      api        `mapstructure:"api"`
	Query    query      `mapstructure:"query"`
	Broker   broker     `mapstructure:"broker"`
}

// EventsEnabled reports whether client events go to a broker.
func (c Config) EventsEnabled() bool {
	return len(c.Broker.SeedBrokers) != 0
}

var defaults = map[string]any{
	"log_level":                   "info",
	"api.base_url":                "http://localhost:5000",
	"api.prefix":                  "/api",
	"api.shipping_prefix":         "",
	"api.timeout":                 "10s",
	"api.login_path":              "/login",
	"api.session_cookie_name":     "token",
	"api.session_token":           "",
	"query.stale_time":            "5m",
	"query.gc_time":               "10m",
	"query.retry":                 3,
	"query.mutation_retry":        1,
	"broker.seed_brokers":         []string{},
	"broker.schema_registry_urls": []string{},
	"broker.topics.client_events": "storefront-client-events",
	"broker.topics.cart_events":   "storefront-cart-events",
	"broker.tls.ca_file":          "",
	"broker.tls.cert_file":        "",
	"broker.tls.key_file":         "",
	"broker.sasl.user":            "",
	"broker.sasl.pass":            "",
}

// Load reads .env, the optional config file and STOREFRONT_* environment
// variables. It exits the process on failure.
func Load() Config {
	cfg, err := LoadArgs(os.Args[1:])
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadArgs is [Load] over explicit command line arguments.
// Flags it does not know are left for the caller.
func LoadArgs(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cmdLine := pflag.NewFlagSet("config", pflag.ContinueOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	cmdLine.Usage = func() {}
	filepath := cmdLine.String("config", "", "config file")
	cmdLine.String("api-url", "", "backend base URL")
	if err := cmdLine.Parse(args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return Config{}, err
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.base_url", apiURLEnvName); err != nil {
		return Config{}, err
	}
	if err := v.BindPFlag("api.base_url", cmdLine.Lookup("api-url")); err != nil {
		return Config{}, err
	}

	if path := configFilepath(*filepath); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configFilepath(arg string) string {
	if arg != "" {
		return arg
	}
	return os.Getenv(configFileEnvName)
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q

	API:
	BaseURL=%q
	Prefix=%q
	ShippingPrefix=%q
	Timeout=%s
	LoginPath=%q
	SessionCookieName=%q
	SessionToken=%s

	Query:
	StaleTime=%s
	GCTime=%s
	Retry=%d
	MutationRetry=%d

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		ClientEvents=%q
		CartEvents=%q
	TLS:
		CAFile=%q
	SASL:
		User=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.API.BaseURL,
		c.API.Prefix,
		c.API.ShippingPrefix,
		c.API.Timeout,
		c.API.LoginPath,
		c.API.SessionCookieName,
		mask(c.API.SessionToken),
		c.Query.StaleTime,
		c.Query.GCTime,
		c.Query.Retry,
		c.Query.MutationRetry,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.ClientEvents,
		c.Broker.Topics.CartEvents,
		c.Broker.TLS.CAFile,
		c.Broker.SASL.User,
	)
}

func mask(secret string) string {
	if secret == "" {
		return `""`
	}
	return "***"
}
