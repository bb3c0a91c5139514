// Package config contains utilities for loading configs
package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/matt-dz/foodgram/internal/password"
)

const (
	configFilePath     = "/data/foodgram.yaml"
	appSecretBytes     = 32
	appSecretFilePerms = 0o600
)

const (
	EnvProd = "PROD"
	EnvDev  = "DEV"
)

type ImageDriver string

const (
	ImageDriverLocal ImageDriver = "local"
	ImageDriverMinio ImageDriver = "minio"
	ImageDriverS3    ImageDriver = "s3"
)

func (d ImageDriver) Validate() error {
	switch d {
	case ImageDriverLocal, ImageDriverMinio, ImageDriverS3:
		return nil
	}
	return fmt.Errorf("unknown image driver: %q", d)
}

type AdminPassword string

func (a AdminPassword) Validate() error {
	return password.ValidatePassword(string(a))
}

type AppSecretValue string

func (a *AppSecretValue) Validate() error {
	if a == nil {
		return errors.New("secret should not be nil")
	}
	if len([]byte(*a)) < appSecretBytes {
		return errors.New("secret should be at least 32 bytes")
	}
	return nil
}

func splitFieldList(param string) []string {
	// "A,B,C" or "A B C"
	param = strings.ReplaceAll(param, " ", ",")
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// allOrNothing is a cross-field validator attached to a placeholder
// field. The fields named in the tag parameter must either all be zero
// or all be set. Nil pointers and interfaces count as zero. A missing
// field name or a non-struct parent fails validation.
func allOrNothing(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	if parent.Kind() == reflect.Pointer {
		if parent.IsNil() {
			return true
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return false
	}

	names := splitFieldList(fl.Param())
	if len(names) == 0 {
		return false
	}

	hasZero := false
	hasNonZero := false

	for _, name := range names {
		f := parent.FieldByName(name)
		if !f.IsValid() {
			return false
		}

		for (f.Kind() == reflect.Pointer || f.Kind() == reflect.Interface) && !f.IsNil() {
			f = f.Elem()
		}

		if f.IsZero() {
			hasZero = true
		} else {
			hasNonZero = true
		}

		if hasZero && hasNonZero {
			return false
		}
	}

	return true
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("allOrNothing", allOrNothing)
	return v
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		if e.Tag() != "allOrNothing" {
			continue
		}

		// "Config.Admin.Validate" -> "Admin"
		parts := strings.Split(e.Namespace(), ".")
		var structName string
		//nolint:mnd
		if len(parts) >= 2 {
			structName = parts[len(parts)-2]
		}

		var fields string
		switch structName {
		case "Database":
			fields = "Port, Host, Database, User, and Password"
		case "Admin":
			fields = "Email, Username, FirstName, LastName, and Password"
		case "Garage":
			fields = "AdminHost and AdminToken"
		default:
			fields = "all related fields"
		}

		return fmt.Errorf(
			"%s configuration is incomplete: either all fields must be set (%s) or all must be empty",
			structName, fields)
	}

	return err
}

type AppSecret struct {
	Value   *AppSecretValue `yaml:"value" validate:"omitempty,validateFn"`
	Path    string          `yaml:"path" validate:"omitempty,filepath"`
	Version string          `yaml:"version"`
}

type Database struct {
	Port     uint16 `yaml:"port"`
	Host     string `yaml:"host" validate:"omitempty,hostname_rfc1123"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Port Host Database User Password"`
}

// Images selects where recipe images are stored. Volume and KeyPrefix
// apply to the local driver; the rest to minio and s3.
type Images struct {
	Driver    ImageDriver `yaml:"driver" validate:"validateFn"`
	Volume    string      `yaml:"volume" validate:"required_if=Driver local"`
	KeyPrefix string      `yaml:"key_prefix"`
	Endpoint  string      `yaml:"endpoint" validate:"required_if=Driver minio"`
	Bucket    string      `yaml:"bucket" validate:"required_unless=Driver local"`
	Region    string      `yaml:"region"`
	AccessKey string      `yaml:"access_key" validate:"required_unless=Driver local"`
	SecretKey string      `yaml:"secret_key" validate:"required_unless=Driver local"`
	PublicURL string      `yaml:"public_url" validate:"omitempty,url"`
	Secure    bool        `yaml:"secure"`
}

type Garage struct {
	AdminHost  string `yaml:"admin_host"`
	AdminToken string `yaml:"admin_token"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=AdminHost AdminToken"`
}

func (g Garage) Enabled() bool {
	return g.AdminHost != ""
}

type Admin struct {
	Email     string        `yaml:"email" validate:"omitempty,email,max=254"`
	Username  string        `yaml:"username" validate:"omitempty,max=150"`
	FirstName string        `yaml:"first_name" validate:"omitempty,max=150"`
	LastName  string        `yaml:"last_name" validate:"omitempty,max=150"`
	Password  AdminPassword `yaml:"password" validate:"omitempty,validateFn"`

	Validate struct{} `yaml:"-" validate:"allOrNothing=Email Username FirstName LastName Password"`
}

type RateLimit struct {
	Requests int           `yaml:"requests" validate:"gte=0"`
	Window   time.Duration `yaml:"window" validate:"gte=0"`
}

func (r RateLimit) Enabled() bool {
	return r.Requests > 0 && r.Window > 0
}

type Config struct {
	AppSecret  AppSecret `yaml:"app_secret"`
	Admin      Admin     `yaml:"admin"`
	Images     Images    `yaml:"images"`
	Garage     Garage    `yaml:"garage"`
	Database   Database  `yaml:"database"`
	RateLimit  RateLimit `yaml:"rate_limit"`
	HostOrigin string    `yaml:"host_origin" validate:"url"`
	Env        string    `yaml:"env" validate:"omitempty,oneof=DEV PROD"`
}

func newAppSecret() (string, error) {
	token := make([]byte, appSecretBytes)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("creating app secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(token), nil
}

func loadAppSecret(config *Config) error {
	if config.AppSecret.Value != nil {
		return nil
	}

	var secret string
	if f1, err := os.Lstat(config.AppSecret.Path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking secret path: %w", err)
		}

		file, err := os.OpenFile(config.AppSecret.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, appSecretFilePerms)
		if err != nil {
			return fmt.Errorf("creating secret file: %w", err)
		}
		defer func() { _ = file.Close() }()

		secret, err = newAppSecret()
		if err != nil {
			return fmt.Errorf("generating new app secret: %w", err)
		}

		if _, err := file.WriteString(secret); err != nil {
			return fmt.Errorf("writing secret file: %w", err)
		}
	} else {
		if f1.IsDir() {
			return fmt.Errorf("expected file, got directory at %q", config.AppSecret.Path)
		}
		data, err := os.ReadFile(config.AppSecret.Path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		secret = strings.TrimSpace(string(data))
	}
	val := AppSecretValue(secret)
	config.AppSecret.Value = &val
	return nil
}

func loadWithDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func applyDefaults(config *Config) {
	if config.AppSecret.Path == "" {
		config.AppSecret.Path = "/data/secret"
	}
	if config.AppSecret.Version == "" {
		config.AppSecret.Version = "1"
	}
	if config.Env == "" {
		config.Env = EnvDev
	}
	if config.HostOrigin == "" {
		config.HostOrigin = "http://localhost:8080"
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		config.Database.Port = 5432
	}
	if config.Images.Driver == "" {
		config.Images.Driver = ImageDriverLocal
	}
	if config.Images.Driver == ImageDriverLocal && config.Images.Volume == "" {
		config.Images.Volume = "/data/media"
	}
	if config.Images.KeyPrefix == "" {
		config.Images.KeyPrefix = "/media"
	}
	if config.Images.Region == "" {
		config.Images.Region = "us-east-1"
	}
}

func validate(config *Config) error {
	if err := newValidator().Struct(config); err != nil {
		return formatValidationError(err)
	}
	if err := loadAppSecret(config); err != nil {
		return fmt.Errorf("loading app secret: %w", err)
	}
	return nil
}

func loadConfigFromEnv() (Config, error) {
	conf := Config{
		HostOrigin: os.Getenv("HOST_ORIGIN"),
		Env:        os.Getenv("ENV"),
		AppSecret: AppSecret{
			Path:    os.Getenv("APP_SECRET_PATH"),
			Version: os.Getenv("APP_SECRET_VERSION"),
		},
		Database: Database{
			Host:     os.Getenv("DATABASE_HOST"),
			Database: os.Getenv("DATABASE"),
			User:     os.Getenv("DATABASE_USER"),
			Password: os.Getenv("DATABASE_PASSWORD"),
		},
		Images: Images{
			Driver:    ImageDriver(os.Getenv("IMAGES_DRIVER")),
			Volume:    os.Getenv("IMAGES_VOLUME"),
			KeyPrefix: os.Getenv("IMAGES_KEY_PREFIX"),
			Endpoint:  os.Getenv("IMAGES_ENDPOINT"),
			Bucket:    os.Getenv("IMAGES_BUCKET"),
			Region:    os.Getenv("IMAGES_REGION"),
			AccessKey: os.Getenv("IMAGES_ACCESS_KEY"),
			SecretKey: os.Getenv("IMAGES_SECRET_KEY"),
			PublicURL: os.Getenv("IMAGES_PUBLIC_URL"),
		},
		Garage: Garage{
			AdminHost:  os.Getenv("GARAGE_ADMIN_HOST"),
			AdminToken: os.Getenv("GARAGE_ADMIN_TOKEN"),
		},
		Admin: Admin{
			Email:     os.Getenv("ADMIN_EMAIL"),
			Username:  os.Getenv("ADMIN_USERNAME"),
			FirstName: os.Getenv("ADMIN_FIRST_NAME"),
			LastName:  os.Getenv("ADMIN_LAST_NAME"),
			Password:  AdminPassword(os.Getenv("ADMIN_PASSWORD")),
		},
	}

	if v := os.Getenv("APP_SECRET"); v != "" {
		secret := AppSecretValue(v)
		conf.AppSecret.Value = &secret
	}

	databasePort := loadWithDefault("DATABASE_PORT", "5432")
	port, err := strconv.ParseUint(databasePort, 10, 16)
	if err != nil {
		return conf, fmt.Errorf("invalid DATABASE_PORT (%q): %w", databasePort, err)
	}
	conf.Database.Port = uint16(port)

	secure := loadWithDefault("IMAGES_SECURE", "false")
	if conf.Images.Secure, err = strconv.ParseBool(secure); err != nil {
		return conf, fmt.Errorf("invalid IMAGES_SECURE (%q): %w", secure, err)
	}

	requests := loadWithDefault("RATE_LIMIT_REQUESTS", "0")
	if conf.RateLimit.Requests, err = strconv.Atoi(requests); err != nil {
		return conf, fmt.Errorf("invalid RATE_LIMIT_REQUESTS (%q): %w", requests, err)
	}
	window := loadWithDefault("RATE_LIMIT_WINDOW", "1m")
	if conf.RateLimit.Window, err = time.ParseDuration(window); err != nil {
		return conf, fmt.Errorf("invalid RATE_LIMIT_WINDOW (%q): %w", window, err)
	}

	applyDefaults(&conf)
	if err := validate(&conf); err != nil {
		return conf, err
	}
	return conf, nil
}

func loadConfigFromFile(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(contents, &config); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyDefaults(&config)
	if err := validate(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

func configFileExists(path string) bool {
	f, err := os.Lstat(path)
	if err != nil {
		return false
	}

	return !f.IsDir()
}

// LoadConfig reads /data/foodgram.yaml when present and the
// environment otherwise. CONFIG_FILE overrides the file location.
func LoadConfig() (Config, error) {
	path := loadWithDefault("CONFIG_FILE", configFilePath)
	if configFileExists(path) {
		return loadConfigFromFile(path)
	}

	return loadConfigFromEnv()
}
