// Package buildenv carries the pieces of the enclosing build system's
// environment that the merge hook needs: where the build outputs are, which
// interpreter runs auxiliary tooling, and where vendored tool packages live.
package buildenv

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variable names, matching what a PlatformIO-style build
// exports for its extra scripts.
const (
	EnvBuildDir    = "BUILD_DIR"
	EnvPython      = "PYTHONEXE"
	EnvPackagesDir = "PLATFORMIO_PACKAGES_DIR"
)

// DefaultPython is used when no interpreter is configured anywhere.
const DefaultPython = "python3"

// Env is the resolved build context.
type Env struct {
	BuildDir    string
	Python      string
	PackagesDir string
}

// Load resolves the build context. An optional .env file is read first
// (missing file is not an error), then the process environment, then
// defaults. Values already set on e (e.g. from flags) win.
func (e *Env) Load(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if e.BuildDir == "" {
		e.BuildDir = os.Getenv(EnvBuildDir)
	}
	if e.Python == "" {
		e.Python = os.Getenv(EnvPython)
	}
	if e.Python == "" {
		e.Python = DefaultPython
	}
	if e.PackagesDir == "" {
		e.PackagesDir = os.Getenv(EnvPackagesDir)
	}
	if e.PackagesDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		e.PackagesDir = filepath.Join(home, ".platformio", "packages")
	}
	return nil
}

// PackageDir returns the install directory of a named tool package.
// It satisfies merge.ToolLocator.
func (e *Env) PackageDir(name string) (string, error) {
	dir := filepath.Join(e.PackagesDir, name)
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("package %s not installed under %s: %w", name, e.PackagesDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("package path %s is not a directory", dir)
	}
	return dir, nil
}
