package provider

import (
	"io"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/ka2n/oembed/api/format"
	"github.com/morikuni/failure/v2"
	"gopkg.in/yaml.v3"
)

// Config is the layout of a provider list file
type Config struct {
	Providers []Entry `yaml:"providers" validate:"dive"`
}

// Entry describes one provider in a provider list file
type Entry struct {
	Name     string            `yaml:"name" validate:"required"`
	Endpoint string            `yaml:"endpoint" validate:"required,url"`
	Format   string            `yaml:"format" validate:"omitempty,oneof=json xml none"`
	Patterns []string          `yaml:"patterns" validate:"min=1,dive,required"`
	Params   map[string]string `yaml:"params"`
}

var (
	validate = validator.New()

	// ${VAR} or ${VAR:-default}
	envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)
)

// LoadFile reads a provider list file.
func LoadFile(path string) ([]*Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, failure.Wrap(err, failure.WithCode(ErrInvalidConfig),
			failure.Message("Failed to open provider list"),
			failure.Context{"path": path},
		)
	}
	defer f.Close()

	return Load(f)
}

// Load parses a provider list, expanding ${VAR:-default} references first.
func Load(r io.Reader) ([]*Provider, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, failure.Wrap(err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), &cfg); err != nil {
		return nil, failure.Wrap(err, failure.WithCode(ErrInvalidConfig),
			failure.Message("Provider list is not valid YAML"),
		)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, failure.Wrap(err, failure.WithCode(ErrInvalidConfig),
			failure.Message("Provider list failed validation"),
		)
	}

	providers := make([]*Provider, 0, len(cfg.Providers))
	for _, e := range cfg.Providers {
		f := format.Format(e.Format)
		if f == "none" {
			f = format.None
		}
		p := New(e.Endpoint, f)
		p.Name = e.Name
		p.RequiredParams = e.Params
		for _, s := range e.Patterns {
			p.AddPattern(s)
		}
		providers = append(providers, p)
	}
	return providers, nil
}

func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		if v := os.Getenv(parts[1]); v != "" {
			return v
		}
		return parts[2]
	})
}
