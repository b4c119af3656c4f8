package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/spf13/viper"

	e "github.com/dhis2/d2-data-apis/errors"
	"github.com/dhis2/d2-data-apis/log"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second

	// EnvPrefix prefixes the environment variables read by NewConfigFromEnv,
	// e.g. "D2_BASE_URL"
	EnvPrefix = "d2"

	apiPath = "api/"
)

var (
	configValidator *validator.Validate
	trans           ut.Translator
)

func init() {
	configValidator = validator.New()

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(configValidator, trans)
}

type Config interface {
	APIURL() *url.URL
	Username() string
	Password() string
	Timeout() time.Duration
	RequestLogging() bool
	Naming() NamingConvention
	Logger() log.Logger
}

// ClientConfig holds the settings used to talk to a server instance.
type ClientConfig struct {
	BaseURL        string        `validate:"required,url"`
	User           string        `validate:"required_with=Pass"`
	Pass           string        `validate:"required_with=User"`
	RequestTimeout time.Duration `validate:"gte=0"`

	requestLogging bool
	naming         NamingConvention
	logger         log.Logger
}

func NewConfig(baseURL string) *ClientConfig {
	return NewConfigWithLogger(log.NewProductionLogger(), baseURL)
}

func NewConfigWithLogger(logger log.Logger, baseURL string) *ClientConfig {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ClientConfig{
		BaseURL:        baseURL,
		RequestTimeout: DefaultTimeout,
		naming:         NewDefaultNaming(),
		logger:         logger,
	}
}

// NewConfigFromEnv reads D2_BASE_URL, D2_USERNAME, D2_PASSWORD, D2_TIMEOUT and
// D2_REQUEST_LOGGING. Unset variables keep their defaults.
func NewConfigFromEnv(logger log.Logger) *ClientConfig {
	env := viper.New()
	env.SetEnvPrefix(EnvPrefix)
	env.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	env.AutomaticEnv()
	env.SetDefault("timeout", DefaultTimeout)

	return NewConfigWithLogger(logger, env.GetString("base-url")).
		WithUsername(env.GetString("username")).
		WithPassword(env.GetString("password")).
		WithTimeout(env.GetDuration("timeout")).
		WithRequestLogging(env.GetBool("request-logging"))
}

func (cfg *ClientConfig) WithUsername(username string) *ClientConfig {
	cfg.User = username
	return cfg
}

func (cfg *ClientConfig) WithPassword(password string) *ClientConfig {
	cfg.Pass = password
	return cfg
}

func (cfg *ClientConfig) WithTimeout(timeout time.Duration) *ClientConfig {
	cfg.RequestTimeout = timeout
	return cfg
}

func (cfg *ClientConfig) WithRequestLogging(enabled bool) *ClientConfig {
	cfg.requestLogging = enabled
	return cfg
}

func (cfg *ClientConfig) WithNaming(naming NamingConvention) *ClientConfig {
	cfg.naming = naming
	return cfg
}

func (cfg *ClientConfig) WithLogger(logger log.Logger) *ClientConfig {
	cfg.logger = logger
	return cfg
}

// Validate checks the configuration and returns a single readable error.
func (cfg *ClientConfig) Validate() error {
	if err := configValidator.Struct(cfg); err != nil {
		return e.TranslateValidatorError(err, trans)
	}
	return nil
}

// APIURL returns the base URL with the "api/" path appended. The base URL is
// expected to have passed Validate.
func (cfg *ClientConfig) APIURL() *url.URL {
	u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
	if err != nil {
		return &url.URL{Path: "/" + apiPath}
	}
	if strings.HasSuffix(u.Path, "/"+apiPath) {
		return u
	}
	return u.ResolveReference(&url.URL{Path: apiPath})
}

func (cfg *ClientConfig) Username() string {
	return cfg.User
}

func (cfg *ClientConfig) Password() string {
	return cfg.Pass
}

func (cfg *ClientConfig) Timeout() time.Duration {
	return cfg.RequestTimeout
}

func (cfg *ClientConfig) RequestLogging() bool {
	return cfg.requestLogging
}

func (cfg *ClientConfig) Naming() NamingConvention {
	return cfg.naming
}

func (cfg *ClientConfig) Logger() log.Logger {
	return cfg.logger
}
