// Package runner executes external tools as real subprocesses.
package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Exec runs commands synchronously with stdout/stderr passed through, so
// tool output lands in the build log untouched.
type Exec struct {
	// Spinner shows an activity indicator on stderr while the
	// subprocess runs.
	Spinner bool
}

// Execute runs argv and returns its exit code. Failures that never produce
// an exit code (missing binary, spawn error) are returned as errors.
func (e *Exec) Execute(argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	var done chan struct{}
	if e.Spinner {
		done = make(chan struct{})
		go spin(done)
	}

	err := cmd.Run()
	if done != nil {
		close(done)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, err
	}
	return 0, nil
}

// spin animates an indeterminate progress spinner until done is closed.
func spin(done <-chan struct{}) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Merging"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100),
		progressbar.OptionClearOnFinish(),
	)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			bar.Finish()
			return
		case <-ticker.C:
			bar.Add(1)
		}
	}
}
