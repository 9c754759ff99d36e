package table

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// MaxFileSize is the largest mapping file that will be loaded
const MaxFileSize = 8192

var (
	// ErrNotFound is returned when the mapping file does not exist.
	// It matches fs.ErrNotExist as well.
	ErrNotFound = fmt.Errorf("mapping table not found: %w", fs.ErrNotExist)
	// ErrTooLarge is returned when the mapping file exceeds MaxFileSize.
	ErrTooLarge = errors.New("mapping table too large")
	// ErrUnreadable is returned when the mapping file exists but cannot be read.
	ErrUnreadable = errors.New("mapping table unreadable")
)

// Load reads and parses the mapping file at path.
//
// Load never returns a nil table: on any error the table is empty, so
// callers can keep running and every lookup simply misses.
func Load(path string) (*Table, []RowError, error) {
	empty := &Table{}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return empty, nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return empty, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return empty, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if info.IsDir() {
		return empty, nil, fmt.Errorf("%w: %s is a directory", ErrUnreadable, path)
	}
	if info.Size() > MaxFileSize {
		return empty, nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), MaxFileSize)
	}

	// The file may grow between Stat and Read.
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return empty, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(data) > MaxFileSize {
		return empty, nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxFileSize)
	}

	t, rejected := Parse(data)
	return t, rejected, nil
}
