//go:build windows

package configpaths

// DataDir returns the directory where flash images are stored by default.
func DataDir() (string, error) {
	return DefaultConfigDir()
}
