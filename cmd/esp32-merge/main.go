package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"esp32merge/internal/buildenv"
	"esp32merge/internal/merge"
	"esp32merge/internal/ports"
	"esp32merge/internal/runner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	pythonFlag      string
	packagesDirFlag string
	esptoolFlag     string
	envFileFlag     string
	dryRunFlag      bool
	noSpinnerFlag   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "esp32-merge",
		Short: "Merge ESP32 build artifacts into one flashable image",
		Long: `esp32-merge is a post-build helper for ESP32 firmware pipelines.

It invokes the vendored esptool to concatenate the bootloader, partition
table and application image produced by a build into a single
firmware_merged.bin, placed at the standard flash offsets:
  - Bootloader at 0x1000
  - Partition table at 0x8000
  - Application at 0x10000

The merge itself is performed by esptool; this tool only builds and runs
the command and fails the build when esptool does.`,
	}

	// Merge command
	mergeCmd := &cobra.Command{
		Use:   "merge [build-dir]",
		Short: "Merge build artifacts from a build directory",
		Long: `Merge bootloader.bin, partitions.bin and firmware.bin from the build
directory into firmware_merged.bin in the same directory.

The build directory is taken from the argument, or from $BUILD_DIR when
omitted. The esptool package is resolved under the packages directory
unless --esptool points at a specific esptool.py.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMerge,
	}
	mergeCmd.Flags().StringVarP(&pythonFlag, "python", "p", "", "Python interpreter (default $PYTHONEXE or python3)")
	mergeCmd.Flags().StringVar(&packagesDirFlag, "packages-dir", "", "Directory holding vendored tool packages (default $PLATFORMIO_PACKAGES_DIR or ~/.platformio/packages)")
	mergeCmd.Flags().StringVar(&esptoolFlag, "esptool", "", "Path to esptool.py (skips package resolution)")
	mergeCmd.Flags().StringVar(&envFileFlag, "env-file", "", "Optional .env file with build settings")
	mergeCmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "n", false, "Print the merge command without running it")
	mergeCmd.Flags().BoolVar(&noSpinnerFlag, "no-spinner", false, "Disable the activity spinner")

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("esp32-merge %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available serial ports",
		RunE:  runList,
	}

	rootCmd.AddCommand(mergeCmd, versionCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMerge(cmd *cobra.Command, args []string) error {
	env := &buildenv.Env{
		Python:      pythonFlag,
		PackagesDir: packagesDirFlag,
	}
	if len(args) == 1 {
		env.BuildDir = args[0]
	}
	if err := env.Load(envFileFlag); err != nil {
		return err
	}
	if env.BuildDir == "" {
		return fmt.Errorf("no build directory: pass it as an argument or set $%s", buildenv.EnvBuildDir)
	}

	hook := &merge.Hook{
		BuildDir:    env.BuildDir,
		Interpreter: env.Python,
		Locator:     env,
		ToolPath:    esptoolFlag,
		Exec:        &runner.Exec{Spinner: !noSpinnerFlag},
		Out:         os.Stdout,
	}

	if dryRunFlag {
		mergeCmd, err := hook.Command()
		if err != nil {
			return err
		}
		fmt.Println(mergeCmd)
		return nil
	}

	if err := hook.Run(); err != nil {
		return err
	}

	fmt.Printf("Merged image written to %s\n", filepath.Join(hook.BuildDir, merge.MergedBin))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	available, err := ports.List()
	if err != nil {
		return err
	}

	if len(available) == 0 {
		fmt.Println("No serial ports found")
		return nil
	}

	fmt.Println("Available serial ports:")
	for _, p := range available {
		fmt.Printf("  %s\n", p)
	}

	return nil
}
