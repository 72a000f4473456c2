package port

// MigrationResult lists how a config file differs from the current defaults.
type MigrationResult struct {
	// ConfigFile is the path to the user's config file.
	ConfigFile string
	// MissingKeys exist in the defaults but not in the file.
	MissingKeys []string
	// UnknownKeys exist in the file but are not read by walcache.
	UnknownKeys []string
}

// NeedsMigration reports whether the file lacks any default key.
func (r *MigrationResult) NeedsMigration() bool {
	return r != nil && len(r.MissingKeys) > 0
}

// KeyInfo contains metadata about a config key for display purposes.
type KeyInfo struct {
	// Key is the dot-notation key path (e.g., "cache.max_size_mb").
	Key string
	// Type is the Go type of the value (e.g., "bool", "int", "string").
	Type string
	// DefaultValue is a string representation of the default value.
	DefaultValue string
}

// ConfigMigrator checks for and applies config migrations.
type ConfigMigrator interface {
	// CheckMigration checks if user config is missing any default keys.
	// Returns nil if the config file does not exist yet.
	CheckMigration() (*MigrationResult, error)

	// Migrate adds missing default keys to the user's config file.
	// Returns the list of keys that were added.
	Migrate() ([]string, error)

	// GetKeyInfo returns detailed information about a config key.
	GetKeyInfo(key string) KeyInfo
}
