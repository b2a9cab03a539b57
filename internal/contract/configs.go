package contract

import (
	"fmt"
	"strings"

	"github.com/huangsam/deviceinfo/schema"
)

// Default values for configuration.
const (
	DefaultLocalBackend = schema.SQLiteBackend
	DefaultOutput       = schema.TextOut
	DefaultStoreDirName = ".deviceinfo"
	DefaultDBName       = "deviceinfo"
	NamespaceDirName    = "namespaces" // Subdirectory of shared partitions
	DeviceIDFileName    = "device-id"
)

// ValidLogLevels lists the accepted log-level values. Empty means silent.
var ValidLogLevels = map[string]struct{}{
	"":      {},
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// StoreConfig holds the validated backend settings for local and synchronized stores.
type StoreConfig struct {
	LocalBackend  schema.StoreBackend
	LocalDBDir    string // Directory holding local database files; empty means $HOME/.deviceinfo
	SyncBackend   schema.StoreBackend
	SyncDBConnect string // Please use env var as this is plaintext
	SyncIdentity  string // Account identity for the synchronized store; empty means unavailable
}

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	Store StoreConfig

	Namespace  string
	PreferSync bool

	AppVersion       string // Overrides the bundle version when set
	InfoPlist        string
	ModelIdentifier  string
	DeviceName       string
	DeviceIdentifier string
	Screen           schema.ScreenMetrics

	Output     schema.OutputMode
	OutputFile string
	UseColors  bool
	LogLevel   string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Storage ---
	LocalBackend  string `mapstructure:"local-backend"`
	LocalDBDir    string `mapstructure:"local-db-dir"`
	Namespace     string `mapstructure:"namespace"`
	PreferSync    bool   `mapstructure:"prefer-sync"`
	SyncBackend   string `mapstructure:"sync-backend"`
	SyncDBConnect string `mapstructure:"sync-db-connect"`
	SyncIdentity  string `mapstructure:"sync-identity"`

	// --- App and device metadata ---
	AppVersion       string               `mapstructure:"app-version"`
	InfoPlist        string               `mapstructure:"info-plist"`
	ModelIdentifier  string               `mapstructure:"model-identifier"`
	DeviceName       string               `mapstructure:"device-name"`
	DeviceIdentifier string               `mapstructure:"device-identifier"`
	Screen           schema.ScreenMetrics `mapstructure:"screen"`

	// --- Output ---
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Color      string `mapstructure:"color"`
	LogLevel   string `mapstructure:"log-level"`
}

// DefaultConfig returns the configuration used when nothing has been supplied.
func DefaultConfig() *Config {
	return &Config{
		Store:     StoreConfig{LocalBackend: DefaultLocalBackend},
		Output:    DefaultOutput,
		UseColors: true,
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateStoreConfig(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.StoreBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("sync-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("sync-db-connect is required when using %s backend", backend)
		}
		if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
			return nil
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateStoreConfig validates local and synchronized backend configurations.
func validateStoreConfig(cfg *Config, input *ConfigRawInput) error {
	// --- Local Backend Validation ---
	local := schema.StoreBackend(strings.ToLower(strings.TrimSpace(input.LocalBackend)))
	if local == "" {
		local = DefaultLocalBackend
	}
	if _, ok := schema.ValidLocalBackends[local]; !ok {
		return fmt.Errorf("invalid local backend '%s'. must be sqlite, bolt, memory, none", input.LocalBackend)
	}
	cfg.Store.LocalBackend = local
	cfg.Store.LocalDBDir = input.LocalDBDir

	// --- Synchronized Backend Validation ---
	sync := schema.StoreBackend(strings.ToLower(strings.TrimSpace(input.SyncBackend)))
	if sync != "" {
		if !sync.IsSynchronized() {
			return fmt.Errorf("invalid sync backend '%s'. must be mysql, postgresql", input.SyncBackend)
		}
		if err := ValidateDatabaseConnectionString(sync, input.SyncDBConnect); err != nil {
			return err
		}
	}
	cfg.Store.SyncBackend = sync
	cfg.Store.SyncDBConnect = input.SyncDBConnect
	identity := strings.TrimSpace(input.SyncIdentity)
	if identity != "" {
		if err := ValidateSyncIdentity(identity); err != nil {
			return err
		}
	}
	cfg.Store.SyncIdentity = identity

	// --- Namespace Validation ---
	if input.Namespace != "" {
		if err := ValidateNamespace(input.Namespace); err != nil {
			return err
		}
	}
	cfg.Namespace = input.Namespace
	cfg.PreferSync = input.PreferSync

	return nil
}

// validateSimpleInputs processes and validates the metadata and output fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.AppVersion = input.AppVersion
	cfg.InfoPlist = input.InfoPlist
	cfg.ModelIdentifier = input.ModelIdentifier
	cfg.DeviceName = input.DeviceName
	cfg.DeviceIdentifier = input.DeviceIdentifier
	cfg.Screen = input.Screen
	cfg.OutputFile = input.OutputFile

	// --- 1. Output Mode ---
	output := schema.OutputMode(strings.ToLower(input.Output))
	if output == "" {
		output = DefaultOutput
	}
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv, yaml, parquet", input.Output)
	}
	cfg.Output = output

	// --- 2. Colors ---
	if input.Color == "" {
		cfg.UseColors = true
	} else {
		useColors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid color value: %w", err)
		}
		cfg.UseColors = useColors
	}

	// --- 3. Log Level ---
	level := strings.ToLower(input.LogLevel)
	if _, ok := ValidLogLevels[level]; !ok {
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}
	cfg.LogLevel = level

	// --- 4. Screen Metrics ---
	if cfg.Screen.Density < 0 || cfg.Screen.Height < 0 || cfg.Screen.Width < 0 {
		return fmt.Errorf("screen metrics must not be negative")
	}

	return nil
}
