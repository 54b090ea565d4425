// Package ports enumerates serial ports so a user can confirm a device is
// attached before flashing the merged image.
package ports

import (
	"go.bug.st/serial"
)

// List returns the names of available serial ports.
func List() ([]string, error) {
	return serial.GetPortsList()
}
