package extractor

import (
	"fmt"

	"propintel/internal/config"
	"propintel/internal/port"
)

// ProviderFactory is a function that creates a FieldExtractor from a provider config.
type ProviderFactory func(cfg *config.ExtractorProviderConfig) (port.FieldExtractor, error)

// registry of extraction provider factories, populated by init() in each
// provider package or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewProvider creates a FieldExtractor from a provider config using the registered factory.
func NewProvider(cfg *config.ExtractorProviderConfig) (port.FieldExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extraction provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewFromConfig assembles the full extraction front from configuration: the
// primary provider plus any secondary/tertiary fallbacks behind a circuit
// chain, wrapped in the minimum-text guard. Provider packages must be
// imported (blank imports in the binaries) so their factories are registered.
func NewFromConfig(extractorCfg *config.ExtractorConfig, pipelineCfg *config.PipelineConfig) (port.FieldExtractor, error) {
	chain := []*config.ExtractorProviderConfig{extractorCfg.PrimaryConfig()}
	if c := extractorCfg.SecondaryConfig(); c != nil {
		chain = append(chain, c)
	}
	if c := extractorCfg.TertiaryConfig(); c != nil {
		chain = append(chain, c)
	}

	extractors := make([]port.FieldExtractor, 0, len(chain))
	names := make([]string, 0, len(chain))
	for _, c := range chain {
		e, err := NewProvider(c)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, e)
		names = append(names, c.Provider)
	}

	var provider port.FieldExtractor = extractors[0]
	if len(extractors) > 1 {
		provider = NewFallbackExtractor(extractors, names)
	}
	return New(provider, pipelineCfg.MinTextLength), nil
}
