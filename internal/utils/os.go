package utils

import (
	"os"
	"path/filepath"
)

// ExecutableName returns the name the program was installed under, for use
// in help and error messages
func ExecutableName() string {
	executable, err := os.Executable()
	if err != nil {
		return "ir2hid"
	}
	return filepath.Base(executable)
}
