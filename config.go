package baserowgen

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/shibukawa/baserowgen/langs/gogen"
	"github.com/shibukawa/baserowgen/pull"
)

// Environment variables consulted when the config leaves a value empty.
const (
	EnvToken   = "BASEROW_TOKEN"
	EnvBaseURL = "BASEROW_BASE_URL"
)

// Config represents the baserowgen configuration
type Config struct {
	Token      string           `yaml:"token"` // only needed when talking to Baserow, see RequireToken
	BaseURL    string           `yaml:"base_url" validate:"omitempty,url"`
	Output     string           `yaml:"output" validate:"required"`
	Package    string           `yaml:"package" validate:"required,goident"`
	ImportBase string           `yaml:"import_base"` // import path of Output; inferred from go.mod when empty
	Databases  []DatabaseConfig `yaml:"databases" validate:"required,min=1,unique=ID,dive"`
	Schema     SchemaConfig     `yaml:"schema"`
	Generation GenerationConfig `yaml:"generation"`
}

// DatabaseConfig scopes generation to one Baserow database
type DatabaseConfig struct {
	Name    string `yaml:"name" validate:"required"`
	ID      uint64 `yaml:"id" validate:"required"`
	Package string `yaml:"package" validate:"omitempty,goident"` // defaults to the snake_case database name
}

// SchemaConfig controls how the schema is pulled
type SchemaConfig struct {
	Concurrency  int    `yaml:"concurrency" validate:"gte=0,lte=64"`
	OnFetchError string `yaml:"on_fetch_error" validate:"omitempty,oneof=skip abort"`
}

// GenerationConfig represents code generation settings
type GenerationConfig struct {
	SchemaSnapshot bool `yaml:"schema_snapshot"`
}

// PullDatabases converts the configured databases for the schema pass.
func (c *Config) PullDatabases() []pull.Database {
	dbs := make([]pull.Database, 0, len(c.Databases))
	for _, db := range c.Databases {
		dbs = append(dbs, pull.Database{Name: db.Name, ID: db.ID})
	}
	return dbs
}

// FetchErrorPolicy returns the configured policy for failed field fetches.
func (c *Config) FetchErrorPolicy() pull.FetchErrorPolicy {
	policy, err := pull.ParseFetchErrorPolicy(c.Schema.OnFetchError)
	if err != nil {
		return pull.FetchErrorSkip
	}
	return policy
}

// RequireToken reports a missing API token. Offline generation from a schema
// snapshot does not need one.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return fmt.Errorf("%w: token is required (set it in the config or via %s)", ErrConfigValidation, EnvToken)
	}
	return nil
}

// GeneratorDatabases converts the configured databases for the generator.
func (c *Config) GeneratorDatabases() []gogen.Database {
	dbs := make([]gogen.Database, 0, len(c.Databases))
	for _, db := range c.Databases {
		dbs = append(dbs, gogen.Database{ID: db.ID, Name: db.Name, Package: db.Package})
	}
	return dbs
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	if err := loadEnvFiles(filepath.Dir(configPath)); err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	config := getDefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults plus environment; validation reports what is missing
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// Parse YAML with strict mode to detect unknown fields
		if err := yaml.UnmarshalWithOptions(data, config, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	expandConfigEnvVars(config)
	applyDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

var validate = newValidator()

var goIdentPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Package names must be lower case Go identifiers other than keywords
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return goIdentPattern.MatchString(name) && !token.IsKeyword(name)
	})
	return v
}

// validateConfig validates the configuration and reports the first problems
// by their YAML path
func validateConfig(config *Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, describeFieldError(fe))
	}

	return fmt.Errorf("%w: %s", ErrConfigValidation, strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}
	switch fe.Tag() {
	case "required":
		return path + " is required"
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", path, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not repeat a database %s", path, strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %q", path, fe.Param(), fe.Value())
	case "goident":
		return fmt.Sprintf("%s must be a lower case Go package name, got %q", path, fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", path, fe.Value())
	default:
		return fmt.Sprintf("%s failed the %q check", path, fe.Tag())
	}
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Output:  "./baserow_gen",
		Package: "",
		Schema: SchemaConfig{
			Concurrency:  pull.DefaultConcurrency,
			OnFetchError: string(pull.FetchErrorSkip),
		},
		Generation: GenerationConfig{
			SchemaSnapshot: true,
		},
	}
}

// applyDefaults fills values that depend on other settings
func applyDefaults(config *Config) {
	if config.Token == "" {
		config.Token = os.Getenv(EnvToken)
	}
	if config.BaseURL == "" {
		config.BaseURL = os.Getenv(EnvBaseURL)
	}
	if config.Package == "" {
		config.Package = InferPackageName(config.Output)
	}
	if config.Schema.Concurrency == 0 {
		config.Schema.Concurrency = pull.DefaultConcurrency
	}
	if config.Schema.OnFetchError == "" {
		config.Schema.OnFetchError = string(pull.FetchErrorSkip)
	}
}

// InferPackageName derives a package name from the last path element:
// "./internal/baserow-gen" becomes "baserow_gen".
func InferPackageName(outputPath string) string {
	dir := filepath.Base(filepath.Clean(outputPath))
	if dir == "." || dir == string(filepath.Separator) || dir == "" {
		return "bindings"
	}

	var b strings.Builder
	for _, r := range strings.ToLower(dir) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	name := b.String()
	switch {
	case name[0] >= '0' && name[0] <= '9':
		name = "pkg_" + name
	case token.IsKeyword(name):
		name += "_pkg"
	}
	return name
}

// loadEnvFiles loads .env from the current directory and from the config
// directory when they exist. Variables already set are not overridden.
func loadEnvFiles(configDir string) error {
	candidates := []string{".env"}
	if configDir != "" && configDir != "." {
		candidates = append(candidates, filepath.Join(configDir, ".env"))
	}

	for _, path := range candidates {
		if !fileExists(path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return nil
}

var (
	bracedEnvPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvPattern   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in string settings
func expandConfigEnvVars(config *Config) {
	config.Token = expandEnvVars(config.Token)
	config.BaseURL = expandEnvVars(config.BaseURL)
	config.Output = expandEnvVars(config.Output)
	config.ImportBase = expandEnvVars(config.ImportBase)
	for i := range config.Databases {
		config.Databases[i].Name = expandEnvVars(config.Databases[i].Name)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
