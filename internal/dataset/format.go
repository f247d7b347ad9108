package dataset

import (
	"path/filepath"
	"strings"

	"github.com/imgajeed76/gridview/internal/util"
)

// Format is a data file encoding.
type Format string

const (
	JSON    Format = "json"
	CSV     Format = "csv"
	TSV     Format = "tsv"
	YAML    Format = "yaml"
	TOML    Format = "toml"
	Parquet Format = "parquet"
)

// Formats lists every supported format.
var Formats = []Format{JSON, CSV, TSV, YAML, TOML, Parquet}

// ParseFormat maps a name or extension ("yml", ".csv") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json", "jsonl":
		return JSON, nil
	case "csv", "txt":
		return CSV, nil
	case "tsv", "tab":
		return TSV, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	case "parquet", "pq":
		return Parquet, nil
	}
	return "", util.ErrUnsupportedFile
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}
