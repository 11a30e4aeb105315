package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const appName = "grepx"

var (
	dotFilenames = []string{
		".grepx.toml",
		".grepx.yaml",
		".grepx.yml",
		".grepx.json",
	}
	xdgFilenames = []string{
		"config.toml",
		"config.yaml",
		"config.yml",
		"config.json",
	}
)

// Find locates the config file to load and reports where it came from:
// "explicit", "cwd-up", "xdg" or "home". No file found is not an error.
func Find(startDir, explicitPath, xdgHome, home string) (string, string, error) {
	if explicit := strings.TrimSpace(explicitPath); explicit != "" {
		path, err := checkExplicit(explicit)
		if err != nil {
			return "", "", err
		}
		return path, "explicit", nil
	}

	start := strings.TrimSpace(startDir)
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", "", err
	}
	for {
		if found := firstExisting(dir, dotFilenames); found != "" {
			return found, "cwd-up", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	homeDir := resolveHome(home)
	xdgRoot := strings.TrimSpace(xdgHome)
	if xdgRoot == "" && homeDir != "" {
		xdgRoot = filepath.Join(homeDir, ".config")
	}
	if xdgRoot != "" {
		if found := firstExisting(filepath.Join(xdgRoot, appName), xdgFilenames); found != "" {
			return found, "xdg", nil
		}
	}
	if homeDir != "" {
		if found := firstExisting(homeDir, dotFilenames); found != "" {
			return found, "home", nil
		}
	}
	return "", "", nil
}

func checkExplicit(path string) (string, error) {
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		path = filepath.Join(cwd, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("config %q points to a directory", path)
	}
	return path, nil
}

func resolveHome(home string) string {
	if h := strings.TrimSpace(home); h != "" {
		return h
	}
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return ""
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
