package merge

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// stubLocator resolves every package to a fixed directory.
type stubLocator struct {
	dir string
	err error
}

func (s *stubLocator) PackageDir(name string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.dir, nil
}

// stubExecutor records invocations and returns a canned exit code.
type stubExecutor struct {
	code  int
	err   error
	calls [][]string
}

func (s *stubExecutor) Execute(argv []string) (int, error) {
	s.calls = append(s.calls, argv)
	return s.code, s.err
}

func newTestHook(exec *stubExecutor, out *bytes.Buffer) *Hook {
	return &Hook{
		BuildDir:    "/build/esp32",
		Interpreter: "/usr/bin/python3",
		Locator:     &stubLocator{dir: "/tools"},
		Exec:        exec,
		Out:         out,
	}
}

func TestHook_RunSuccess(t *testing.T) {
	exec := &stubExecutor{code: 0}
	var out bytes.Buffer

	hook := newTestHook(exec, &out)
	if err := hook.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if len(exec.calls) != 1 {
		t.Fatalf("executor called %d times, want 1", len(exec.calls))
	}
	if got := exec.calls[0][1]; got != "/tools/esptool.py" {
		t.Errorf("tool path = %q, want /tools/esptool.py", got)
	}
}

func TestHook_RunLogsCommand(t *testing.T) {
	exec := &stubExecutor{code: 0}
	var out bytes.Buffer

	hook := newTestHook(exec, &out)
	if err := hook.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	want := `Merging ESP32 firmware: /usr/bin/python3 /tools/esptool.py --chip esp32 merge_bin ` +
		`-o "/build/esp32/firmware_merged.bin" 0x1000 "/build/esp32/bootloader.bin" ` +
		`0x8000 "/build/esp32/partitions.bin" 0x10000 "/build/esp32/firmware.bin"` + "\n"
	if got := out.String(); got != want {
		t.Errorf("log line =\n  %q\nwant\n  %q", got, want)
	}
}

func TestHook_RunNonZeroExit(t *testing.T) {
	exec := &stubExecutor{code: 1}
	var out bytes.Buffer

	hook := newTestHook(exec, &out)
	err := hook.Run()
	if err == nil {
		t.Fatal("Run() = nil, want error")
	}
	if !errors.Is(err, ErrMergeFailed) {
		t.Errorf("Run() = %v, want ErrMergeFailed", err)
	}
	if !strings.Contains(err.Error(), "Failed to merge ESP32 binaries") {
		t.Errorf("error %q missing fixed message", err.Error())
	}
}

func TestHook_RunExecuteError(t *testing.T) {
	// A spawn failure (e.g. interpreter missing) collapses to the same
	// fatal error as a non-zero exit.
	exec := &stubExecutor{err: fmt.Errorf("exec: no such file")}
	var out bytes.Buffer

	hook := newTestHook(exec, &out)
	if err := hook.Run(); !errors.Is(err, ErrMergeFailed) {
		t.Errorf("Run() = %v, want ErrMergeFailed", err)
	}
}

func TestHook_RunLocatorError(t *testing.T) {
	exec := &stubExecutor{code: 0}
	var out bytes.Buffer

	hook := newTestHook(exec, &out)
	hook.Locator = &stubLocator{err: fmt.Errorf("tool-esptoolpy not installed")}

	if err := hook.Run(); !errors.Is(err, ErrMergeFailed) {
		t.Errorf("Run() = %v, want ErrMergeFailed", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("executor called %d times, want 0", len(exec.calls))
	}
}

func TestHook_RunIdempotent(t *testing.T) {
	exec := &stubExecutor{code: 0}
	var out bytes.Buffer

	hook := newTestHook(exec, &out)
	for i := 0; i < 2; i++ {
		if err := hook.Run(); err != nil {
			t.Fatalf("Run() #%d = %v, want nil", i+1, err)
		}
	}

	if len(exec.calls) != 2 {
		t.Fatalf("executor called %d times, want 2", len(exec.calls))
	}
	first := strings.Join(exec.calls[0], " ")
	second := strings.Join(exec.calls[1], " ")
	if first != second {
		t.Errorf("commands differ between runs:\n  %s\n  %s", first, second)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 || lines[0] != lines[1] {
		t.Errorf("log lines differ between runs: %q", lines)
	}
}

func TestHook_ToolPathOverride(t *testing.T) {
	exec := &stubExecutor{code: 0}
	var out bytes.Buffer

	hook := newTestHook(exec, &out)
	hook.Locator = &stubLocator{err: fmt.Errorf("should not be called")}
	hook.ToolPath = "/opt/esptool/esptool.py"

	if err := hook.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if got := exec.calls[0][1]; got != "/opt/esptool/esptool.py" {
		t.Errorf("tool path = %q, want /opt/esptool/esptool.py", got)
	}
}
