// Package export implements the destinations a grid export can be sent to.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/imgajeed76/gridview/internal/util"
)

// FileDownloader writes exports into Dir, never overwriting an existing
// file. Written holds the path of the last file written.
type FileDownloader struct {
	Dir     string
	Logger  *zap.Logger
	Written string
}

func (d *FileDownloader) Download(filename, content, mimeType string) error {
	dir := util.ExpandHome(d.Dir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := util.CreateUnique(dir, filepath.Base(filename))
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	path := f.Name()
	if _, err := io.WriteString(f, content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	d.Written = path
	if d.Logger != nil {
		d.Logger.Info("export written",
			zap.String("path", path),
			zap.String("mime", mimeType),
			zap.Int("bytes", len(content)),
		)
	}
	return nil
}

// PathDownloader writes exports to one fixed path, replacing it.
type PathDownloader struct {
	Path string
}

func (d PathDownloader) Download(_, content, _ string) error {
	if err := os.WriteFile(util.ExpandHome(d.Path), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", d.Path, err)
	}
	return nil
}

// WriterDownloader streams exports to W (stdout for piping).
type WriterDownloader struct {
	W io.Writer
}

func (d WriterDownloader) Download(_, content, _ string) error {
	if _, err := io.WriteString(d.W, content); err != nil {
		return err
	}
	_, err := io.WriteString(d.W, "\n")
	return err
}

// ClipboardDownloader copies exports to the system clipboard.
type ClipboardDownloader struct{}

func (ClipboardDownloader) Download(_, content, _ string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not available on this system")
	}
	return clipboard.WriteAll(content)
}
