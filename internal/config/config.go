// Package config assembles the service configuration from defaults,
// command-line flags, a .env file and environment variables, in that
// order of precedence, and validates the result.
package config

import (
	"errors"
	"flag"
	"log"
	"os"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	// RunAddr is the listen address. It has no default: the service
	// refuses to start without an explicit address.
	RunAddr string `env:"SERVER_ADDRESS" validate:"required,hostname_port"`

	LogLevel string `env:"LOG_LEVEL" validate:"loglevel"`

	// UsersFileName and ProductsFileName point at the JSON files
	// backing the collections. An empty value selects the in-memory
	// store.
	UsersFileName    string `env:"USERS_FILE_STORAGE_PATH" validate:"omitempty,storagepath"`
	ProductsFileName string `env:"PRODUCTS_FILE_STORAGE_PATH" validate:"omitempty,storagepath"`

	AuthCookieName string `env:"AUTH_COOKIE_NAME" validate:"required"`

	// AuthCookieSigningSecretKey is the base64url-encoded HMAC key
	// used to sign session cookies.
	AuthCookieSigningSecretKey string `env:"AUTH_COOKIE_SIGNING_SECRET_KEY" validate:"required,base64url"`
}

// ErrEmptyRunAddr is returned when no listen address was supplied via
// flags or environment.
var ErrEmptyRunAddr = errors.New("no listen address configured: pass -a or set SERVER_ADDRESS")

func validateStoragePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	if c.RunAddr == "" {
		return ErrEmptyRunAddr
	}

	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("storagepath", validateStoragePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

// InitOption customizes config assembly.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips command-line flag registration, which
// tests need when constructing the config repeatedly.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds and validates the configuration.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	values := &Config{
		LogLevel:                   "info",
		AuthCookieName:             "storeapi_session",
		AuthCookieSigningSecretKey: "c2Vzc2lvbi1zaWduaW5nLWtleQ==",
	}
	if !options.disableFlagsParsing {
		flag.StringVar(&values.RunAddr, "a", values.RunAddr, "address and port to run server")
		flag.StringVar(&values.LogLevel, "l", values.LogLevel, "logger level")
		flag.StringVar(&values.UsersFileName, "u", values.UsersFileName, "JSON file name with the users collection")
		flag.StringVar(&values.ProductsFileName, "p", values.ProductsFileName, "JSON file name with the products collection")
		flag.Parse()
	}

	var valuesFromEnv Config
	err = env.Parse(&valuesFromEnv)
	if err != nil {
		return nil, err
	}

	if valuesFromEnv.RunAddr != "" {
		values.RunAddr = valuesFromEnv.RunAddr
	}

	if valuesFromEnv.LogLevel != "" {
		values.LogLevel = valuesFromEnv.LogLevel
	}

	if valuesFromEnv.UsersFileName != "" {
		values.UsersFileName = valuesFromEnv.UsersFileName
	}

	if valuesFromEnv.ProductsFileName != "" {
		values.ProductsFileName = valuesFromEnv.ProductsFileName
	}

	if valuesFromEnv.AuthCookieName != "" {
		values.AuthCookieName = valuesFromEnv.AuthCookieName
	}

	if valuesFromEnv.AuthCookieSigningSecretKey != "" {
		values.AuthCookieSigningSecretKey = valuesFromEnv.AuthCookieSigningSecretKey
	}

	if err := values.validate(); err != nil {
		return nil, err
	}

	return values, nil
}
