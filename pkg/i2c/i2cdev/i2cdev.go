// Package i2cdev provides an I2C bus backed by the Linux i2c-dev interface
// (/dev/i2c-N).
package i2cdev

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrUnsupported is returned by Open on platforms without i2c-dev.
var ErrUnsupported = errors.New("i2cdev: not supported on this platform")

// DevicePath returns the character device of bus number n.
func DevicePath(n int) string {
	return fmt.Sprintf("/dev/i2c-%d", n)
}

// BusNumber returns N for an adapter path of the form /dev/i2c-N.
func BusNumber(path string) (int, error) {
	base := filepath.Base(path)
	n, err := strconv.Atoi(strings.TrimPrefix(base, "i2c-"))
	if !strings.HasPrefix(base, "i2c-") || err != nil || n < 0 {
		return 0, fmt.Errorf("i2cdev: %q is not an i2c-dev path", path)
	}
	return n, nil
}
