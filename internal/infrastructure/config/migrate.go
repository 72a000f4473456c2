package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/bnema/walcache/internal/application/port"
)

// Migrator brings an existing config file up to date with the defaults.
type Migrator struct {
	configFile   string
	defaultViper *viper.Viper
}

// NewMigrator creates a Migrator for configFile.
func NewMigrator(configFile string) *Migrator {
	v := viper.New()
	v.SetConfigType(configType)
	m := &Manager{viper: v}
	m.setDefaults()

	return &Migrator{configFile: configFile, defaultViper: v}
}

var _ port.ConfigMigrator = (*Migrator)(nil)

// CheckMigration compares the file keys against the defaults. A missing file
// yields a nil result since it will be created with every default.
func (m *Migrator) CheckMigration() (*port.MigrationResult, error) {
	userKeys, err := m.userConfigKeys()
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	defaultKeys := m.defaultViper.AllKeys()
	result := &port.MigrationResult{ConfigFile: m.configFile}
	for _, key := range defaultKeys {
		if !userKeys[key] {
			result.MissingKeys = append(result.MissingKeys, key)
		}
	}
	for key := range userKeys {
		if !slices.Contains(defaultKeys, key) {
			result.UnknownKeys = append(result.UnknownKeys, key)
		}
	}
	slices.Sort(result.MissingKeys)
	slices.Sort(result.UnknownKeys)
	return result, nil
}

// Migrate rewrites the file with the missing keys filled from the defaults
// and returns the keys it added. User values are kept; unknown keys are dropped.
func (m *Migrator) Migrate() ([]string, error) {
	result, err := m.CheckMigration()
	if err != nil || !result.NeedsMigration() {
		return nil, err
	}

	userViper := viper.New()
	userViper.SetConfigFile(m.configFile)
	userViper.SetConfigType(configType)
	mgr := &Manager{viper: userViper}
	mgr.setDefaults()

	if err := userViper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := mgr.unmarshalConfig()
	if err != nil {
		return nil, err
	}
	if err := WriteConfigOrdered(cfg, m.configFile); err != nil {
		return nil, err
	}
	return result.MissingKeys, nil
}

// GetKeyInfo describes key using its default value.
func (m *Migrator) GetKeyInfo(key string) port.KeyInfo {
	value := m.defaultViper.Get(key)
	info := port.KeyInfo{Key: key, Type: "unknown"}
	if value == nil {
		return info
	}
	info.Type = fmt.Sprintf("%T", value)
	switch v := value.(type) {
	case string:
		info.DefaultValue = strconv.Quote(v)
	case []string:
		info.DefaultValue = "[" + strings.Join(v, ", ") + "]"
	default:
		info.DefaultValue = fmt.Sprintf("%v", v)
	}
	return info
}

func (m *Migrator) userConfigKeys() (map[string]bool, error) {
	data, err := os.ReadFile(m.configFile)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	keys := make(map[string]bool)
	flattenKeys(raw, "", keys)
	return keys, nil
}

// flattenKeys collects dotted leaf keys of a nested TOML document.
func flattenKeys(data map[string]any, prefix string, keys map[string]bool) {
	for k, v := range data {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenKeys(nested, key, keys)
			continue
		}
		keys[key] = true
	}
}
