package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Map file suffixes. The encoding of a map file is chosen by name.
const (
	MapExt      = ".map"
	UTF16MapExt = ".utf16.map"
	UTF32MapExt = ".utf32.map"
	UTF8MapExt  = ".utf8.map"
)

// EncodingFor returns the decoder for filename. Files that are not marked
// UTF-16 or UTF-32 are read as UTF-8. A BOM overrides the default byte order.
func EncodingFor(filename string) encoding.Encoding {
	switch {
	case strings.HasSuffix(filename, UTF16MapExt):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case strings.HasSuffix(filename, UTF32MapExt):
		return utf32.UTF32(utf32.BigEndian, utf32.UseBOM)
	default:
		return unicode.UTF8BOM
	}
}

// Decode converts the raw bytes of filename to text.
func Decode(filename string, data []byte) (string, error) {
	out, err := EncodingFor(filename).NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filename, err)
	}
	return string(out), nil
}

// MapName strips the map suffix (including any encoding marker) from a
// file name.
func MapName(filename string) string {
	for _, ext := range []string{UTF16MapExt, UTF32MapExt, UTF8MapExt, MapExt} {
		if strings.HasSuffix(filename, ext) {
			return strings.TrimSuffix(filename, ext)
		}
	}
	return filename
}

// IsMapFile reports whether filename looks like a map declaration file.
func IsMapFile(filename string) bool {
	return strings.HasSuffix(filename, MapExt)
}
