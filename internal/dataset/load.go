package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/imgajeed76/gridview/internal/util"
)

// Load reads the data file at path, choosing the decoder from its extension.
func Load(ctx context.Context, path string) (*Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, util.UnsupportedFileError(path)
	}
	if format != Parquet {
		if binary, err := util.IsBinaryFile(path); err == nil && binary {
			return nil, util.DatasetLoadError(path, fmt.Errorf("%s file contains binary data", format))
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	d, err := Read(ctx, f, format)
	if err != nil {
		return nil, util.DatasetLoadError(path, err)
	}
	d.Name = filepath.Base(path)
	return d, nil
}

// Read decodes a dataset in the given format from r.
func Read(ctx context.Context, r io.Reader, format Format) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", format, err)
	}

	switch format {
	case JSON:
		return readJSON(data)
	case CSV:
		return readCSV(data, 0)
	case TSV:
		return readCSV(data, '\t')
	case YAML:
		return readYAML(data)
	case TOML:
		return readTOML(data)
	case Parquet:
		return readParquet(ctx, bytes.NewReader(data))
	}
	return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedFile, format)
}
