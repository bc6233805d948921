// Package configpaths locates procon configuration files and data.
package configpaths

import (
	"os"
	"path/filepath"
	"strings"
)

const appDir = "procon"

// DefaultConfigDir returns the per-user procon config directory.
func DefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir), nil
}

// ConfigCandidatePaths returns config file candidates grouped by format, in
// the order they should be tried. If userCfg is set, only that file is
// returned, under the format matching its extension.
func ConfigCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	if userCfg != "" {
		switch strings.ToLower(filepath.Ext(userCfg)) {
		case ".yaml", ".yml":
			return nil, []string{userCfg}, nil
		case ".toml":
			return nil, nil, []string{userCfg}
		default:
			return []string{userCfg}, nil, nil
		}
	}

	dirs := []string{"."}
	if dir, err := DefaultConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}
	for _, d := range dirs {
		jsonPaths = append(jsonPaths, filepath.Join(d, "procon.json"))
		yamlPaths = append(yamlPaths, filepath.Join(d, "procon.yaml"), filepath.Join(d, "procon.yml"))
		tomlPaths = append(tomlPaths, filepath.Join(d, "procon.toml"))
	}
	return jsonPaths, yamlPaths, tomlPaths
}

// DefaultImagePath returns the default flash image location.
func DefaultImagePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "spi_flash.bin"), nil
}
