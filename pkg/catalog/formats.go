package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the catalog file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTOML                // [[item]] tables
	FormatMsgpack             // msgpack array of item maps
	FormatText                // tab separated lines
)

// ErrUnknownFormat is returned for files whose format cannot be detected.
var ErrUnknownFormat = errors.New("unknown catalog format")

// FormatInfo contains metadata about a catalog file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML Catalog",
		Extensions:  []string{".toml"},
		MinSize:     0,
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "Msgpack Catalog",
		Extensions:  []string{".msgpack", ".bin"},
		MinSize:     1, // array header
	},
	FormatText: {
		Format:      FormatText,
		Description: "Tab Separated Catalog",
		Extensions:  []string{".tsv", ".txt"},
		MinSize:     0,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	if formatForExt(filepath.Ext(filename)) != expectedFormat {
		return fmt.Errorf("file %s has invalid extension for format %s (expected: %v)",
			filename, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatMsgpack {
		return validateMsgpackFormat(filename)
	}
	return nil
}

// validateMsgpackFormat checks that the file starts with a msgpack array header
func validateMsgpackFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	head, err := bufio.NewReader(file).ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	// fixarray, array16, array32
	if head&0xf0 != 0x90 && head != 0xdc && head != 0xdd {
		return fmt.Errorf("file %s does not start with a msgpack array (0x%02x)", filename, head)
	}

	log.Debugf("Msgpack file %s validated", filename)
	return nil
}

// DetectFileFormat returns the format of a file from its extension
func DetectFileFormat(filename string) (FileFormat, error) {
	format := formatForExt(filepath.Ext(filename))
	if format == FormatUnknown {
		return FormatUnknown, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
	}
	return format, nil
}

func formatForExt(ext string) FileFormat {
	ext = strings.ToLower(ext)
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return format
			}
		}
	}
	return FormatUnknown
}
