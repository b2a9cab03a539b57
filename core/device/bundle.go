package device

import (
	"fmt"
	"os"
	"path/filepath"

	"howett.net/plist"
)

// Fallback values for missing bundle metadata.
const (
	UnknownValue   = "Unknown"
	UnnamedAppName = "Unnamed App"
)

// Bundle holds the application metadata read from an Info.plist.
type Bundle struct {
	ShortVersion      string   `plist:"CFBundleShortVersionString"`
	Version           string   `plist:"CFBundleVersion"`
	Identifier        string   `plist:"CFBundleIdentifier"`
	Name              string   `plist:"CFBundleName"`
	DisplayName       string   `plist:"CFBundleDisplayName"`
	DevelopmentRegion string   `plist:"CFBundleDevelopmentRegion"`
	Localizations     []string `plist:"CFBundleLocalizations"`
}

// LoadBundle parses an Info.plist in any plist format (XML, binary, OpenStep).
func LoadBundle(path string) (Bundle, error) {
	var b Bundle
	data, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("failed to read bundle info %s: %w", path, err)
	}
	if _, err := plist.Unmarshal(data, &b); err != nil {
		return b, fmt.Errorf("failed to parse bundle info %s: %w", path, err)
	}
	return b, nil
}

// DefaultInfoPlistPath returns the Info.plist next to the running executable.
func DefaultInfoPlistPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "Info.plist"
	}
	return filepath.Join(filepath.Dir(exe), "Info.plist")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
