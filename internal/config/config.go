// Package config loads command-line defaults from YAML files.
//
// A config file maps flag names to values:
//
//	step: 10
//	parallel: true
//	only: [token_report, vref_stats_report]
//	quote-chars: "\"“”"
//
// Keys may use dashes or underscores. Flags given on the command line
// override the file.
package config

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/JuniperReports/core/errors"
)

// DefaultPaths are read, when present, before any --config file.
var DefaultPaths = []string{
	"~/.config/juniper-report/config.yaml",
	".juniper-report.yaml",
}

// Resolver resolves kong flag values from a YAML document.
type Resolver struct {
	values map[string]any
}

var _ kong.Resolver = (*Resolver)(nil)

// YAML is a kong.ConfigurationLoader.
func YAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes a YAML mapping. An empty document yields an empty resolver.
func Parse(data []byte) (*Resolver, error) {
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, errors.NewParse("yaml", "config", err.Error())
	}

	normalized := make(map[string]any, len(values))
	for k, v := range values {
		normalized[normalizeKey(k)] = v
	}
	return &Resolver{values: normalized}, nil
}

// Keys returns the configured flag names in sorted order.
func (r *Resolver) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Validate rejects keys that name no flag of app.
func (r *Resolver) Validate(app *kong.Application) error {
	known := map[string]bool{}
	err := kong.Visit(app.Node, func(node kong.Visitable, next kong.Next) error {
		if flag, ok := node.(*kong.Flag); ok {
			known[flag.Name] = true
		}
		return next(nil)
	})
	if err != nil {
		return err
	}

	var unknown []string
	for _, k := range r.Keys() {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		return errors.NewParse("yaml", "config", fmt.Sprintf("unknown keys: %s", strings.Join(unknown, ", ")))
	}
	return nil
}

// Resolve implements kong.Resolver.
func (r *Resolver) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	v, ok := r.values[flag.Name]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func normalizeKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "_", "-")
}
