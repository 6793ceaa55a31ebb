package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
)

// MinecraftDir returns the game directory, either the configured override or
// the platform default. The directory must exist.
func (p Paths) MinecraftDir() (string, error) {
	dir := p.MinecraftDir
	if dir == "" {
		var err error
		dir, err = defaultMinecraftDir(runtime.GOOS)
		if err != nil {
			return "", err
		}
	} else {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return "", fmt.Errorf("expand minecraft dir: %w", err)
		}
		dir = expanded
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("could not locate minecraft directory %s", dir)
	}
	return dir, nil
}

// ModsDir returns the installed mods directory inside the game directory.
func (p Paths) ModsDir() (string, error) {
	dir, err := p.MinecraftDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mods"), nil
}

// ShaderpacksDir returns the shaderpacks directory inside the game directory.
func (p Paths) ShaderpacksDir() (string, error) {
	dir, err := p.MinecraftDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shaderpacks"), nil
}

func defaultMinecraftDir(goos string) (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	switch goos {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, ".minecraft"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", ".minecraft"), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "minecraft"), nil
	default:
		return filepath.Join(home, ".minecraft"), nil
	}
}
