// Package config provides configuration management for twitch-live-opener.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/rescale/twitch-live-opener/internal/constants"
)

// EnvFileName is the dotfile looked up next to the executable and in the
// working directory.
const EnvFileName = ".env"

// LogDirectory returns the directory holding the log and lock files.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\twitch-live-opener\logs
//   - Unix: ~/.config/twitch-live-opener/logs
func LogDirectory() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), constants.AppName+"-logs")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, constants.AppName, "logs")
	}

	// Unix: Use XDG config directory
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), constants.AppName+"-logs")
		}
		return filepath.Join(homeDir, ".config", constants.AppName, "logs")
	}
	return filepath.Join(configDir, constants.AppName, "logs")
}

// DefaultLogFilePath returns the log file used when --log-file is not given.
func DefaultLogFilePath() string {
	return filepath.Join(LogDirectory(), constants.AppName+".log")
}

// EnvFileSearchPaths returns the dotfile candidates in lookup order:
// next to the executable first, then the working directory.
func EnvFileSearchPaths() []string {
	var paths []string

	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		paths = append(paths, filepath.Join(filepath.Dir(exe), EnvFileName))
	}

	if wd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(wd, EnvFileName)
		if len(paths) == 0 || paths[0] != candidate {
			paths = append(paths, candidate)
		}
	}

	return paths
}

// ResolveEnvFile returns explicit if set, otherwise the first existing
// search path. It returns "" when no dotfile exists.
func ResolveEnvFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, candidate := range EnvFileSearchPaths() {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
