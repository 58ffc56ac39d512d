// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litsearch/internal/search"
	"github.com/pdiddy/litsearch/pkg/types"
)

// setDefaults registers every field of cfg as a viper default so that the
// config file and LITSEARCH_* environment variables can override any of them.
func setDefaults(v *viper.Viper, cfg types.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling defaults: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("unmarshaling defaults: %w", err)
	}
	setDefaultsFrom(v, "", m)
	return nil
}

func setDefaultsFrom(v *viper.Viper, prefix string, m map[string]any) {
	for k, val := range m {
		key := prefix + k
		if sub, ok := val.(map[string]any); ok {
			setDefaultsFrom(v, key+".", sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// bindEnv maps nested keys to LITSEARCH_SECTION_KEY environment variables.
// Secret keys have no default and are bound explicitly.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("LITSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"search.semantic_scholar_api_key",
		"search.openalex_email",
		"summary.api_key",
	} {
		_ = v.BindEnv(key)
	}
}

// loadConfig decodes v on top of the built-in defaults.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// buildAdapters registers the enabled sources in a fixed order: Semantic
// Scholar, arXiv, Google Scholar, OpenAlex. Ties in relevance keep this order.
func buildAdapters(cfg types.SearchConfig, client *http.Client, logger *zap.Logger) []*search.Adapter {
	var adapters []*search.Adapter
	add := func(sc types.SourceConfig, b search.Backend) {
		if !sc.Enabled {
			return
		}
		adapters = append(adapters, &search.Adapter{
			Backend:    b,
			MaxResults: sc.MaxResults,
			Timeout:    sc.Timeout,
			Logger:     logger,
		})
	}

	add(cfg.SemanticScholar, &search.SemanticScholarBackend{
		Client:    client,
		UserAgent: cfg.UserAgent,
		APIKey:    cfg.SemanticScholarAPIKey,
		Logger:    logger,
	})
	add(cfg.Arxiv, &search.ArxivBackend{
		Client:    client,
		UserAgent: cfg.UserAgent,
	})
	add(cfg.GoogleScholar, &search.GoogleScholarBackend{
		Client:    client,
		UserAgent: cfg.UserAgent,
		Interval:  cfg.ScholarInterval,
		Logger:    logger,
	})
	add(cfg.OpenAlex, &search.OpenAlexBackend{
		Client:    client,
		UserAgent: cfg.UserAgent,
		Email:     cfg.OpenAlexEmail,
		Logger:    logger,
	})
	return adapters
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
