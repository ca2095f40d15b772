// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/kraklabs/blaze/pkg/executor"
)

// configSchemaJSON constrains .blaze/workspace.yaml's references block: a
// url is always required, variant must be one of the closed location
// variants, and version (when present) must be a valid semver string.
const configSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "references": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["url"],
        "properties": {
          "url": {"type": "string", "minLength": 1},
          "variant": {
            "type": "string",
            "enum": ["local_file_system", "git", "git_over_http", "git_over_ssh", "tarball_over_http", "npm", "cargo"]
          },
          "kind": {"type": "string", "enum": ["node", "rust", "kotlin", ""]},
          "checkout": {"type": "string"},
          "path": {"type": "string"},
          "pull": {"type": "boolean"},
          "include_glob": {"type": "string"},
          "exclude_globs": {"type": "array", "items": {"type": "string"}},
          "rebuild_strategy": {"type": "string", "enum": ["none", "on_changes", "always", ""]},
          "headers": {"type": "object", "additionalProperties": {"type": "string"}},
          "token": {"type": "string"},
          "ssh_key_path": {"type": "string"},
          "version": {"type": "string", "format": "semver"}
        }
      }
    }
  }
}`

// Config is the decoded shape of .blaze/workspace.yaml: a named set of
// executor references the orchestrator knows how to resolve.
type Config struct {
	References map[string]ReferenceConfig `yaml:"references"`
}

// ReferenceConfig is the YAML-friendly, flattened form of an
// executor.Reference plus its resolved Location's options. Exactly the
// fields relevant to Variant are meaningful; the rest are ignored.
type ReferenceConfig struct {
	URL             string            `yaml:"url"`
	Variant         string            `yaml:"variant,omitempty"`
	Kind            string            `yaml:"kind,omitempty"`
	Checkout        string            `yaml:"checkout,omitempty"`
	Path            string            `yaml:"path,omitempty"`
	Pull            bool              `yaml:"pull,omitempty"`
	IncludeGlob     string            `yaml:"include_glob,omitempty"`
	ExcludeGlobs    []string          `yaml:"exclude_globs,omitempty"`
	RebuildStrategy string            `yaml:"rebuild_strategy,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty"`
	Token           string            `yaml:"token,omitempty"`
	SSHKeyPath      string            `yaml:"ssh_key_path,omitempty"`
	Version         string            `yaml:"version,omitempty"`
}

// LoadConfig reads, validates, and decodes a workspace configuration file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var instance any
	if err := yaml.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := validateConfig(instance); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &cfg, nil
}

func validateConfig(instance any) error {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if compiler.Formats == nil {
		compiler.Formats = make(map[string]func(interface{}) bool)
	}
	compiler.Formats["semver"] = func(v interface{}) bool {
		s, ok := v.(string)
		if !ok {
			return true
		}
		if !strings.HasPrefix(s, "v") {
			s = "v" + s
		}
		return semver.IsValid(s)
	}
	compiler.AssertFormat = true

	if err := compiler.AddResource("schema://workspace.json", strings.NewReader(configSchemaJSON)); err != nil {
		return err
	}
	schema, err := compiler.Compile("schema://workspace.json")
	if err != nil {
		return err
	}

	normalized, err := normalizeForSchema(instance)
	if err != nil {
		return err
	}
	return schema.Validate(normalized)
}

// normalizeForSchema round-trips a yaml.Unmarshal'ed value through
// encoding/json so map keys and numeric types match what jsonschema/v5
// expects (it is built against encoding/json's decoded shapes).
func normalizeForSchema(instance any) (any, error) {
	raw, err := json.Marshal(instance)
	if err != nil {
		return nil, err
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

// ToReference converts a validated ReferenceConfig into an
// executor.Reference, scheme-inferring the location when Variant is unset.
func (rc ReferenceConfig) ToReference() (executor.Reference, error) {
	if rc.Variant == "" {
		return executor.NewStandardReference(rc.URL), nil
	}

	pin, err := parseCheckout(rc.Checkout)
	if err != nil {
		return executor.Reference{}, err
	}
	kind := executor.Kind(rc.Kind)
	rebuild := parseRebuildStrategy(rc.RebuildStrategy)
	auth := executor.AuthDescriptor{Token: rc.Token, SSHKeyPath: rc.SSHKeyPath}

	var loc executor.Location
	switch rc.Variant {
	case "local_file_system":
		loc = executor.NewLocalFileSystem(executor.FileSystemOptions{
			Kind:            kind,
			RebuildStrategy: rebuild,
			IncludeGlob:     rc.IncludeGlob,
			ExcludeGlobs:    rc.ExcludeGlobs,
		})
	case "git":
		loc = executor.NewGit(executor.GitOptions{Checkout: pin, Kind: kind, Path: rc.Path, Pull: rc.Pull})
	case "git_over_http":
		loc = executor.NewGitOverHTTP(executor.GitHTTPOptions{
			Checkout: pin, Headers: rc.Headers, Auth: auth, Kind: kind, Path: rc.Path, Pull: rc.Pull,
		})
	case "git_over_ssh":
		loc = executor.NewGitOverSSH(executor.GitSSHOptions{Checkout: pin, Auth: auth, Kind: kind, Path: rc.Path, Pull: rc.Pull})
	case "tarball_over_http":
		loc = executor.NewTarballOverHTTP(executor.TarballOptions{Headers: rc.Headers, Auth: auth})
	case "npm":
		loc = executor.NewNpm(executor.PackageOptions{Version: rc.Version, Token: rc.Token})
	case "cargo":
		loc = executor.NewCargo(executor.PackageOptions{Version: rc.Version, Token: rc.Token})
	default:
		return executor.Reference{}, fmt.Errorf("unknown location variant %q", rc.Variant)
	}

	return executor.NewCustomReference(rc.URL, loc), nil
}

func parseCheckout(s string) (executor.CheckoutPin, error) {
	if s == "" {
		return executor.NoPin(), nil
	}
	kind, name, ok := strings.Cut(s, ":")
	if !ok {
		return executor.CheckoutPin{}, fmt.Errorf("checkout %q must be branch:/tag:/revision:<name>", s)
	}
	switch kind {
	case "branch":
		return executor.BranchPin(name), nil
	case "tag":
		return executor.TagPin(name), nil
	case "revision":
		return executor.RevisionPin(name), nil
	default:
		return executor.CheckoutPin{}, fmt.Errorf("unknown checkout kind %q", kind)
	}
}

func parseRebuildStrategy(s string) executor.RebuildStrategy {
	switch s {
	case "always":
		return executor.RebuildAlways
	case "on_changes":
		return executor.RebuildOnChanges
	default:
		return executor.RebuildNone
	}
}
