package device

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LoadOrCreateIdentifier returns the device identifier saved at path. On first
// use, or when the file does not hold a UUID, a new identifier is generated
// and saved. The returned identifier is usable even when saving fails.
func LoadOrCreateIdentifier(path string) (string, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if id, perr := uuid.Parse(strings.TrimSpace(string(data))); perr == nil {
			return strings.ToUpper(id.String()), nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return newIdentifier(), fmt.Errorf("failed to read device identifier %s: %w", path, err)
	}

	id := newIdentifier()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return id, fmt.Errorf("failed to create directory for device identifier %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return id, fmt.Errorf("failed to save device identifier %s: %w", path, err)
	}
	return id, nil
}

func newIdentifier() string {
	return strings.ToUpper(uuid.NewString())
}
