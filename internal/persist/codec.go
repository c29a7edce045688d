package persist

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned for a file extension or format name with no codec.
var ErrUnknownFormat = errors.New("unknown graph format")

// Codec encodes and decodes documents in one file format.
type Codec interface {
	// Name is the format name used on the command line.
	Name() string
	// Extension is the preferred file extension, with the leading dot.
	Extension() string
	Encode(doc Document) ([]byte, error)
	// Decode parses data. filename is used in diagnostics only.
	Decode(data []byte, filename string) (Document, error)
}

var codecs = []Codec{HCL{}, YAML{}}

// CodecByName returns the codec for a format name such as "hcl" or "yaml".
func CodecByName(name string) (Codec, error) {
	for _, c := range codecs {
		if c.Name() == strings.ToLower(name) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// CodecForPath picks a codec from the extension of path.
func CodecForPath(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return HCL{}, nil
	case ".yaml", ".yml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Extensions lists every extension CodecForPath accepts.
func Extensions() []string {
	return []string{".hcl", ".yaml", ".yml"}
}
