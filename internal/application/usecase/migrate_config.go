package usecase

import (
	"context"

	"github.com/bnema/walcache/internal/application/port"
	"github.com/bnema/walcache/internal/logging"
)

// CheckConfigMigrationInput holds the input for checking config migration.
type CheckConfigMigrationInput struct{}

// CheckConfigMigrationOutput holds the result of the migration check.
type CheckConfigMigrationOutput struct {
	// NeedsMigration is true if there are missing keys.
	NeedsMigration bool
	// MissingKeys contains info about each missing key.
	MissingKeys []port.KeyInfo
	// UnknownKeys are present in the file but ignored.
	UnknownKeys []string
	// ConfigFile is the path to the config file.
	ConfigFile string
}

// MigrateConfigInput holds the input for migrating config.
type MigrateConfigInput struct{}

// MigrateConfigOutput holds the result of the migration.
type MigrateConfigOutput struct {
	// AddedKeys contains the keys that were added.
	AddedKeys []string
	// ConfigFile is the path to the config file.
	ConfigFile string
}

// MigrateConfigUseCase handles config migration operations.
type MigrateConfigUseCase struct {
	migrator port.ConfigMigrator
}

// NewMigrateConfigUseCase creates a new migrate config use case.
func NewMigrateConfigUseCase(migrator port.ConfigMigrator) *MigrateConfigUseCase {
	return &MigrateConfigUseCase{migrator: migrator}
}

// Check checks if the user config is missing any default keys.
func (uc *MigrateConfigUseCase) Check(ctx context.Context, _ CheckConfigMigrationInput) (*CheckConfigMigrationOutput, error) {
	log := logging.FromContext(ctx)

	result, err := uc.migrator.CheckMigration()
	if err != nil {
		log.Warn().Err(err).Msg("config migration check failed")
		return nil, err
	}

	if !result.NeedsMigration() {
		log.Debug().Msg("config is up to date, no migration needed")
		out := &CheckConfigMigrationOutput{}
		if result != nil {
			out.ConfigFile = result.ConfigFile
			out.UnknownKeys = result.UnknownKeys
		}
		return out, nil
	}

	keyInfos := make([]port.KeyInfo, 0, len(result.MissingKeys))
	for _, key := range result.MissingKeys {
		keyInfos = append(keyInfos, uc.migrator.GetKeyInfo(key))
	}

	log.Debug().
		Int("missing_keys", len(result.MissingKeys)).
		Str("config_file", result.ConfigFile).
		Msg("config migration check completed")

	return &CheckConfigMigrationOutput{
		NeedsMigration: true,
		MissingKeys:    keyInfos,
		UnknownKeys:    result.UnknownKeys,
		ConfigFile:     result.ConfigFile,
	}, nil
}

// Execute adds missing default keys to the user's config file.
func (uc *MigrateConfigUseCase) Execute(ctx context.Context, _ MigrateConfigInput) (*MigrateConfigOutput, error) {
	log := logging.FromContext(ctx)

	result, err := uc.migrator.CheckMigration()
	if err != nil {
		return nil, err
	}
	if !result.NeedsMigration() {
		log.Debug().Msg("no migration needed")
		return &MigrateConfigOutput{}, nil
	}

	added, err := uc.migrator.Migrate()
	if err != nil {
		log.Error().Err(err).Msg("config migration failed")
		return nil, err
	}

	log.Info().
		Int("added_keys", len(added)).
		Str("config_file", result.ConfigFile).
		Msg("config migration completed")

	return &MigrateConfigOutput{
		AddedKeys:  added,
		ConfigFile: result.ConfigFile,
	}, nil
}
