// Copyright (c) 2026 gocontext contributors.
// Licensed under the GNU Affero General Public License v3.0.
// See LICENSE for details.

package engine

import (
	"github.com/BurntSushi/toml"

	"github.com/fyrsmithlabs/gocontext"
	"github.com/fyrsmithlabs/gocontext/gocontexterr"
)

// tomlConfig mirrors Options' fields in a TOML-decodable shape. This is
// additive convenience on top of the required Option API (SPEC_FULL.md
// DOMAIN STACK, "github.com/BurntSushi/toml"), not a replacement for it.
type tomlConfig struct {
	AllowedTypes               []string            `toml:"allowed_types"`
	ExcludedTypes              []string            `toml:"excluded_types"`
	MaxScope                   *int                `toml:"max_scope"`
	MaxTargets                 *int                `toml:"max_targets"`
	UseContextWindow           bool                `toml:"use_context_window"`
	Terminations               map[string][]string `toml:"terminations"`
	Prune                      *bool               `toml:"prune"`
	RemoveOverlappingModifiers bool                `toml:"remove_overlapping_modifiers"`
	PhraseMatcherAttr          string              `toml:"phrase_matcher_attr"`
	TargetSource               string              `toml:"targets"`
}

// LoadConfigTOML parses a TOML engine-config file at path and returns an
// Option applying its values. Fields absent from the file leave the
// existing Options (including DefaultOptions' values) untouched.
func LoadConfigTOML(path string) (Option, error) {
	var cfg tomlConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, gocontexterr.NewConfigurationError("config_toml", err.Error())
	}

	return func(o *Options) {
		if len(cfg.AllowedTypes) > 0 {
			o.AllowedTypes = cfg.AllowedTypes
		}
		if len(cfg.ExcludedTypes) > 0 {
			o.ExcludedTypes = cfg.ExcludedTypes
		}
		if cfg.MaxScope != nil {
			o.MaxScope = cfg.MaxScope
		}
		if cfg.MaxTargets != nil {
			o.MaxTargets = cfg.MaxTargets
		}
		if cfg.UseContextWindow {
			o.UseContextWindow = true
		}
		if len(cfg.Terminations) > 0 {
			o.Terminations = cfg.Terminations
		}
		if cfg.Prune != nil {
			o.Prune = *cfg.Prune
		}
		if cfg.RemoveOverlappingModifiers {
			o.RemoveOverlappingModifiers = true
		}
		if cfg.PhraseMatcherAttr != "" {
			o.PhraseMatcherAttr = cfg.PhraseMatcherAttr
		}
		if cfg.TargetSource != "" {
			o.TargetSource = gocontext.TargetSource(cfg.TargetSource)
		}
	}, nil
}
