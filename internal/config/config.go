// Package config resolves the externally supplied settings: the cache root
// directory and CLI defaults. Nothing in the engine core depends on it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CacheRootEnv is the environment variable naming the root directory under
// which named caches live. It takes precedence over every file-based setting.
const CacheRootEnv = "CONTEXT_CACHE_ROOT"

// Settings is the in-memory representation of ~/.context/context.yaml.
type Settings struct {
	CacheRoot     string `yaml:"cache_root,omitempty"`
	DefaultBudget uint64 `yaml:"default_budget,omitempty"`
}

// ContextDir returns the absolute path to ~/.context/.
func ContextDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".context"), nil
}

// SettingsPath returns the absolute path to ~/.context/context.yaml.
func SettingsPath() (string, error) {
	dir, err := ContextDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "context.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// LoadSettings reads and parses ~/.context/context.yaml. A missing file is
// not an error; it yields zero-value settings.
func LoadSettings() (*Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("cannot read settings %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if s.CacheRoot != "" {
		s.CacheRoot, err = ExpandPath(s.CacheRoot)
		if err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// CacheRoot resolves the cache root directory. Precedence: CONTEXT_CACHE_ROOT
// from the process environment, then ~/.context/.env, then context.yaml, then
// the default ~/.context/caches.
func CacheRoot() (string, error) {
	if v, err := GetConfigValue(CacheRootEnv); err != nil {
		return "", err
	} else if v != "" {
		return ExpandPath(v)
	}

	s, err := LoadSettings()
	if err != nil {
		return "", err
	}
	if s.CacheRoot != "" {
		return s.CacheRoot, nil
	}

	dir, err := ContextDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "caches"), nil
}
