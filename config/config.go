// Package config loads node configuration from a TOML file and opens
// the storage backend it names.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/praxis-ledger/praxis/common"
	"github.com/praxis-ledger/praxis/storage"
	"github.com/praxis-ledger/praxis/storage/ldb"
	"github.com/praxis-ledger/praxis/storage/memory"
)

const (
	// ErrUnknownBackend is returned for a storage backend name outside
	// the supported set.
	ErrUnknownBackend = common.ConstError("unknown storage backend")
	// ErrMissingDirectory is returned when a persistent backend is
	// selected without a directory.
	ErrMissingDirectory = common.ConstError("storage directory is required for the leveldb backend")
)

// Supported storage backends.
const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
)

// Config is the node configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects and parametrizes the storage backend.
type StorageConfig struct {
	Backend   string `toml:"backend"`
	Directory string `toml:"directory"`
}

// LogConfig controls the node's log output.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is given: an
// in-memory store and info-level logging.
func Default() Config {
	return Config{
		Storage: StorageConfig{Backend: BackendMemory},
		Log:     LogConfig{Level: zerolog.InfoLevel.String()},
	}
}

// Load reads and validates a configuration file. Fields absent from
// the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file; %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s; %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendLevelDB:
		if c.Storage.Directory == "" {
			return ErrMissingDirectory
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q; %w", c.Log.Level, err)
	}
	return nil
}

// LogLevel returns the configured log level.
func (c Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// OpenDatabase opens the configured storage backend.
func (c Config) OpenDatabase() (storage.Database, error) {
	switch c.Storage.Backend {
	case BackendMemory:
		return memory.NewDatabase(), nil
	case BackendLevelDB:
		return ldb.OpenDatabase(c.Storage.Directory)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
}
