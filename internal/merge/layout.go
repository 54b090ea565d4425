package merge

// Flash offsets for the default ESP32 partition scheme.
// A different partition scheme would need different values.
const (
	BootloaderOffset = 0x1000
	PartitionsOffset = 0x8000
	AppOffset        = 0x10000
)

// Artifact filenames produced by the build inside the build directory.
const (
	BootloaderBin = "bootloader.bin"
	PartitionsBin = "partitions.bin"
	AppBin        = "firmware.bin"
)

// MergedBin is the output filename, overwritten on every run.
const MergedBin = "firmware_merged.bin"

// Chip is the target passed to esptool via --chip.
const Chip = "esp32"

// EsptoolPackage is the package id of the vendored esptool distribution.
const EsptoolPackage = "tool-esptoolpy"

// EsptoolScript is the entry script inside the esptool package directory.
const EsptoolScript = "esptool.py"
