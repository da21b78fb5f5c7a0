package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const settingsFile = "settings.yaml"

// Load loads the settings.
// Search order: customPath -> ~/.praetor/settings.yaml -> ./configs/settings.yaml -> embedded default.
// A custom path that does not exist yet yields the defaults and is created on Save.
func Load(customPath string, logger *log.Logger) (*Settings, error) {
	cfg, err := load(customPath)
	if err != nil {
		return nil, err
	}
	cfg.normalize(logger)

	cfg.path = customPath
	if cfg.path == "" {
		cfg.path = UserConfigPath(settingsFile)
	}
	return cfg, nil
}

func load(customPath string) (*Settings, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if errors.Is(err, fs.ErrNotExist) {
			return loadDefault(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg := &Settings{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := UserConfigPath(settingsFile); userCfgPath != "" {
		if cfg, ok := tryLoad(userCfgPath); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := tryLoad(filepath.Join("configs", settingsFile)); ok {
		return cfg, nil
	}

	return loadDefault(), nil
}

func tryLoad(path string) (*Settings, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	cfg := &Settings{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, false
	}
	return cfg, true
}

func loadDefault() *Settings {
	cfg := &Settings{}
	if err := yaml.Unmarshal(defaultSettingsYAML, cfg); err != nil {
		return DefaultSettings() // Fallback to hardcoded if embed fails
	}
	return cfg
}

// Save writes the settings to Path, creating the directory when needed.
func (s *Settings) Save() error {
	if s.path == "" {
		return errors.New("config: no settings path")
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", s.path, err)
	}
	s.dirty = false
	return nil
}

// UserDir returns ~/.praetor, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".praetor")
}

// UserConfigPath returns the path to a file in the user directory, or empty
// if home is unavailable.
func UserConfigPath(filename string) string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, filename)
}
