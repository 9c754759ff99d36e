package table

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/ir2hid/internal/irproto"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lut.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTable(t, "ir_protocol,ir_address,ir_command,hid_command\nNEC,0x04,0x0A,0x01\nNEC,bad\n")

	tbl, rejected, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, rejected, 1)

	code, ok := tbl.Lookup(irproto.Signature{Protocol: irproto.NEC, Address: 0x04, Command: 0x0A})
	assert.True(t, ok)
	assert.Equal(t, uint8(0x01), code)
}

func TestLoadNotFound(t *testing.T) {
	tbl, _, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, ErrTooLarge)
	require.NotNil(t, tbl)
	assert.Equal(t, 0, tbl.Len())
}

func TestLoadTooLarge(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("header\n")
	for sb.Len() <= MaxFileSize {
		sb.WriteString("NEC,0x04,0x0A,0x01\n")
	}
	path := writeTable(t, sb.String())

	tbl, _, err := Load(path)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, tbl.Len())
}

func TestLoadAtSizeLimit(t *testing.T) {
	row := "NEC,0x04,0x0A,0x01\n"
	content := "header\n"
	for len(content)+len(row) <= MaxFileSize {
		content += row
	}
	content += strings.Repeat("\n", MaxFileSize-len(content))
	require.Len(t, content, MaxFileSize)

	tbl, _, err := Load(writeTable(t, content))
	require.NoError(t, err)
	assert.Greater(t, tbl.Len(), 0)
}

func TestLoadEmptyFile(t *testing.T) {
	tbl, rejected, err := Load(writeTable(t, ""))
	require.NoError(t, err)
	assert.Empty(t, rejected)
	assert.Equal(t, 0, tbl.Len())
}

func TestLoadDirectory(t *testing.T) {
	_, _, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestWatcherReportsWrites(t *testing.T) {
	path := writeTable(t, "header\n")

	var changes atomic.Int32
	w, err := NewWatcher(path, func() { changes.Add(1) }, slogt.New(t))
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("header\nNEC,1,2,3\n"), 0644))

	require.Eventually(t, func() bool { return changes.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
}
