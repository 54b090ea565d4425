package merge

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Part pairs a flash offset with the artifact image that belongs at it.
type Part struct {
	Offset uint32
	Path   string
}

// Command is a fully resolved esptool merge_bin invocation.
type Command struct {
	Interpreter string
	Tool        string
	Output      string
	Parts       []Part
}

// NewCommand builds the merge command for a build directory and a resolved
// esptool script path. Artifact paths are fixed filenames joined onto the
// build directory; nothing is checked for existence here — a missing
// artifact surfaces as an esptool failure.
func NewCommand(buildDir, interpreter, toolPath string) *Command {
	return &Command{
		Interpreter: interpreter,
		Tool:        toolPath,
		Output:      filepath.Join(buildDir, MergedBin),
		Parts: []Part{
			{Offset: BootloaderOffset, Path: filepath.Join(buildDir, BootloaderBin)},
			{Offset: PartitionsOffset, Path: filepath.Join(buildDir, PartitionsBin)},
			{Offset: AppOffset, Path: filepath.Join(buildDir, AppBin)},
		},
	}
}

// Argv returns the command as an argument vector suitable for exec.
func (c *Command) Argv() []string {
	argv := make([]string, 0, 7+2*len(c.Parts))
	argv = append(argv, c.Interpreter, c.Tool, "--chip", Chip, "merge_bin", "-o", c.Output)
	for _, p := range c.Parts {
		argv = append(argv, fmt.Sprintf("%#x", p.Offset), p.Path)
	}
	return argv
}

// String returns the command as a single diagnostic line for the build log.
// File paths are individually quoted to tolerate embedded spaces.
func (c *Command) String() string {
	var b strings.Builder
	b.WriteString(c.Interpreter)
	b.WriteByte(' ')
	b.WriteString(c.Tool)
	b.WriteString(" --chip " + Chip + " merge_bin -o " + quote(c.Output))
	for _, p := range c.Parts {
		fmt.Fprintf(&b, " %#x %s", p.Offset, quote(p.Path))
	}
	return b.String()
}

func quote(path string) string {
	return `"` + path + `"`
}
