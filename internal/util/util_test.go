package util

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToValidUTF8(t *testing.T) {
	assert.Equal(t, "plain", ToValidUTF8("plain"))
	assert.Equal(t, "Müller", ToValidUTF8("M\xfcller"))
	assert.Equal(t, []byte("ok"), ToValidUTF8Bytes([]byte("ok")))
}

func TestStripBOM(t *testing.T) {
	assert.Equal(t, []byte("a,b"), StripBOM([]byte("\xEF\xBB\xBFa,b")))
	assert.Equal(t, []byte("a,b"), StripBOM([]byte("a,b")))
}

func TestNewID(t *testing.T) {
	a, b := NewID("input"), NewID("input")
	assert.True(t, strings.HasPrefix(a, "input-"))
	assert.Len(t, a, len("input-")+9)
	assert.NotEqual(t, a, b)
	assert.True(t, ValidateULID(NewULID()))
	assert.False(t, ValidateULID("nope"))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "just now", RelativeTime(now.Add(-10*time.Second), now))
	assert.Equal(t, "1 minute ago", RelativeTime(now.Add(-time.Minute), now))
	assert.Equal(t, "3 hours ago", RelativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2 weeks ago", RelativeTime(now.Add(-15*24*time.Hour), now))
	assert.Equal(t, "Jan 2, 2023", RelativeTime(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), now))
}

func TestParseTime(t *testing.T) {
	got, ok := ParseTime("2024-03-09")
	require.True(t, ok)
	assert.Equal(t, 9, got.Day())
	_, ok = ParseTime("yesterday")
	assert.False(t, ok)
}

func TestCreateUnique(t *testing.T) {
	dir := t.TempDir()
	f, err := CreateUnique(dir, "data.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.csv"), f.Name())
	_, err = f.WriteString("first")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "data-1.csv"), []byte("taken"), 0o644))
	f, err = CreateUnique(dir, "data.csv")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, filepath.Join(dir, "data-2.csv"), f.Name())

	for name, want := range map[string]string{"data.csv": "first", "data-1.csv": "taken"} {
		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, want, string(got), "%s is left alone", name)
	}

	_, err = CreateUnique(filepath.Join(dir, "missing"), "data.csv")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestIsBinaryFile(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "a.txt")
	bin := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(text, []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(bin, []byte{'P', 'A', 'R', 0, 1}, 0o644))

	isBin, err := IsBinaryFile(text)
	require.NoError(t, err)
	assert.False(t, isBin)
	isBin, err = IsBinaryFile(bin)
	require.NoError(t, err)
	assert.True(t, isBin)
}

func TestCLIError(t *testing.T) {
	err := DatasetLoadError("people.csv", errors.New("bad quote"))
	assert.Equal(t, "Failed to load 'people.csv': bad quote", err.Error())
	out := err.Format()
	assert.Contains(t, out, "Error: Failed to load 'people.csv'")
	assert.Contains(t, out, "Possible causes:")

	var cliErr *CLIError
	require.True(t, errors.As(UnsupportedFileError("x.doc"), &cliErr))
	assert.ErrorIs(t, cliErr, ErrUnsupportedFile)
	assert.Contains(t, cliErr.Format(), "Try:")
}
