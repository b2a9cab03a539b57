package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/huangsam/deviceinfo/schema"
)

// namespacePattern accepts app-group style identifiers like "group.com.example.app".
var namespacePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDir returns the directory holding local store files.
func GetStoreDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultStoreDirName
	}
	return filepath.Join(homeDir, DefaultStoreDirName)
}

// GetStoreDBFilePath returns the database file for a local backend and namespace.
// An empty dir selects GetStoreDir; an empty namespace selects the default partition.
// Namespaced files live under NamespaceDirName so no namespace can share the
// default partition's file.
func GetStoreDBFilePath(dir string, backend schema.StoreBackend, namespace string) string {
	if dir == "" {
		dir = GetStoreDir()
	}
	ext := ".db"
	if backend == schema.BoltBackend {
		ext = ".bolt"
	}
	if namespace == "" {
		return filepath.Join(dir, DefaultDBName+ext)
	}
	return filepath.Join(dir, NamespaceDirName, namespace+ext)
}

// GetDeviceIDFilePath returns the file holding the generated device identifier.
// An empty dir selects GetStoreDir.
func GetDeviceIDFilePath(dir string) string {
	if dir == "" {
		dir = GetStoreDir()
	}
	return filepath.Join(dir, DeviceIDFileName)
}

// ValidateNamespace checks that a storage namespace is safe to use as a file name.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("namespace cannot be empty")
	}
	if strings.Contains(namespace, "..") || !namespacePattern.MatchString(namespace) {
		return fmt.Errorf("invalid namespace: %s (must match %s)", namespace, namespacePattern.String())
	}
	return nil
}

// ValidateSyncIdentity checks that an account identity can scope synchronized keys.
// The identity becomes the "<identity>/" key prefix, so it must not contain "/".
func ValidateSyncIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return fmt.Errorf("sync identity cannot be empty")
	}
	if strings.Contains(identity, "/") {
		return fmt.Errorf("invalid sync identity: %s (must not contain '/')", identity)
	}
	return nil
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
