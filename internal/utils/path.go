package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// CatalogNames are the file names searched for when no catalog path is given,
// in order of preference.
var CatalogNames = []string{"catalog.toml", "catalog.msgpack", "catalog.bin", "catalog.tsv"}

// PathResolver finds config and catalog files relative to the executable,
// the working directory and the user config directory.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
	workDir       string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}
	cwd, _ := os.Getwd()

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     configDirFor(homeDir),
		workDir:       cwd,
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// configDirFor returns the appropriate config directory for the platform
func configDirFor(homeDir string) string {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "appsort")
		}
		return filepath.Join(homeDir, ".config", "appsort")
	case "darwin":
		return filepath.Join(homeDir, ".config", "appsort")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "appsort")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "appsort")
	default:
		return filepath.Join(homeDir, ".appsort")
	}
}

// GetConfigPath returns the full path for a config file, falling back to a
// writable location when the config dir is read-only.
func (pr *PathResolver) GetConfigPath(filename string) string {
	dirs := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, ".appsort"),
		filepath.Join(os.TempDir(), "appsort"),
	}
	for i, dir := range dirs {
		if status := CheckDirStatus(dir); status.Writable {
			path := filepath.Join(dir, filename)
			if i > 0 {
				log.Warnf("Using fallback config location: %s", path)
			}
			return path
		}
	}
	return filepath.Join(os.TempDir(), filename)
}

// GetCatalogPath resolves the catalog file. An explicit path is returned as is
// when absolute, otherwise it is looked up relative to the working directory
// and the executable. With no path the well known names are searched for in
// the working, config and executable directories.
func (pr *PathResolver) GetCatalogPath(userPath string) (string, error) {
	if userPath != "" {
		if filepath.IsAbs(userPath) {
			return userPath, nil
		}
		if path, err := FindFileInPaths(userPath, pr.searchDirs()); err == nil {
			return path, nil
		}
		return filepath.Join(pr.workDir, userPath), os.ErrNotExist
	}

	for _, name := range CatalogNames {
		if path, err := FindFileInPaths(name, pr.searchDirs()); err == nil {
			log.Debugf("Found catalog: %s", path)
			return path, nil
		}
	}
	return "", os.ErrNotExist
}

func (pr *PathResolver) searchDirs() []string {
	dirs := make([]string, 0, 4)
	if pr.workDir != "" {
		dirs = append(dirs, pr.workDir)
	}
	return append(dirs, pr.configDir, pr.executableDir, filepath.Join(pr.executableDir, "data"))
}

// FindFileInPaths searches for a regular file in multiple possible locations
func FindFileInPaths(filename string, searchPaths []string) (string, error) {
	for _, searchPath := range searchPaths {
		fullPath := filepath.Join(searchPath, filename)
		if IsRegularFile(fullPath) {
			return fullPath, nil
		}
	}
	return "", os.ErrNotExist
}
