//go:build !windows

package configpaths

import (
	"os"
	"path/filepath"
)

// DataDir returns the directory where flash images are stored by default.
// On Unix, root uses /var/lib/procon.
func DataDir() (string, error) {
	if os.Geteuid() == 0 {
		return filepath.Join(string(os.PathSeparator), "var", "lib", "procon"), nil
	}
	return DefaultConfigDir()
}
