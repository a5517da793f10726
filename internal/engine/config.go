// Package engine wires the scoring components behind a single facade that
// implements the engine's operation surface: score submission, judge
// removal, aggregate breakdowns, rankings, popularity rankings, and award
// filtering.
package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/compscore/compscore/infrastructure/scoring"
	"github.com/compscore/compscore/internal/domain"
)

// validator instance for configuration validation.
var validate = validator.New()

// Config is the engine configuration. The zero value is not usable; start
// from DefaultConfig or load from YAML.
type Config struct {
	// Categories defines the judging rubrics per judged item kind.
	Categories CategoryConfig `yaml:"categories" validate:"required"`

	// Awards configures the award filter.
	Awards scoring.AwardFilterConfig `yaml:"awards"`
}

// CategoryConfig lists the judging category names for each judged kind.
// Order is significant: breakdowns report categories in rubric order.
type CategoryConfig struct {
	// Application is the rubric for individually-submitted applications.
	Application []string `yaml:"application" validate:"required,min=1,dive,min=1"`

	// Proposal is the rubric for written proposals.
	Proposal []string `yaml:"proposal" validate:"required,min=1,dive,min=1"`
}

// DefaultConfig returns a configuration carrying the standard application
// and proposal rubrics and default award filter settings.
func DefaultConfig() Config {
	return Config{
		Categories: CategoryConfig{
			Application: append([]string(nil), domain.ApplicationCategories...),
			Proposal:    append([]string(nil), domain.ProposalCategories...),
		},
	}
}

// Rubrics converts the category configuration into the per-kind category
// sets consumed by the store, aggregator, and ranker.
func (c Config) Rubrics() map[domain.ItemKind]domain.CategorySet {
	return map[domain.ItemKind]domain.CategorySet{
		domain.KindApplication: domain.CategorySet(c.Categories.Application),
		domain.KindProposal:    domain.CategorySet(c.Categories.Proposal),
	}
}

// Validate checks the configuration for structural problems and duplicate
// category names within a rubric.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfiguration, err)
	}
	for kind, rubric := range c.Rubrics() {
		seen := make(map[string]struct{}, len(rubric))
		for _, name := range rubric {
			if _, dup := seen[name]; dup {
				return fmt.Errorf("%w: duplicate category %q in %s rubric",
					domain.ErrInvalidConfiguration, name, kind)
			}
			seen[name] = struct{}{}
		}
	}
	return nil
}

// LoadConfig reads and validates a YAML engine configuration from a file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	return ReadConfig(f)
}

// ReadConfig reads and validates a YAML engine configuration from r.
func ReadConfig(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
