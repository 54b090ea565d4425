// Package merge builds and runs the esptool merge_bin invocation that
// combines bootloader, partition table and application image into a single
// flashable file after a build completes.
package merge

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrMergeFailed is the fatal error raised when the merge does not succeed.
// Every failure mode (tool not found, spawn error, non-zero exit) collapses
// to this one error; the raw esptool output on stderr/stdout carries the
// actual cause.
var ErrMergeFailed = errors.New("Failed to merge ESP32 binaries")

// ToolLocator resolves the install directory of a named tool package.
type ToolLocator interface {
	PackageDir(name string) (string, error)
}

// Executor runs an external command synchronously and reports its exit code.
type Executor interface {
	Execute(argv []string) (int, error)
}

// Hook merges the build artifacts once the build has produced them.
// All collaborators are injected so the hook can run without a real
// build system around it.
type Hook struct {
	BuildDir    string
	Interpreter string
	Locator     ToolLocator

	// ToolPath, when set, is used directly instead of resolving the
	// esptool package through Locator.
	ToolPath string

	Exec Executor
	Out  io.Writer
}

// Command resolves the esptool location and constructs the merge command.
// It does not touch the filesystem beyond the locator lookup.
func (h *Hook) Command() (*Command, error) {
	tool := h.ToolPath
	if tool == "" {
		dir, err := h.Locator.PackageDir(EsptoolPackage)
		if err != nil {
			return nil, fmt.Errorf("failed to locate %s: %w", EsptoolPackage, err)
		}
		tool = filepath.Join(dir, EsptoolScript)
	}
	return NewCommand(h.BuildDir, h.Interpreter, tool), nil
}

// Run builds the command, logs it, and executes it. A non-zero exit or any
// execution error aborts with ErrMergeFailed. The merged image is written
// by esptool itself and overwritten on every run.
func (h *Hook) Run() error {
	cmd, err := h.Command()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMergeFailed, err)
	}

	out := h.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "Merging ESP32 firmware: %s\n", cmd)

	code, err := h.Exec.Execute(cmd.Argv())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMergeFailed, err)
	}
	if code != 0 {
		return fmt.Errorf("%w: esptool exited with code %d", ErrMergeFailed, code)
	}
	return nil
}
