// Package imageio moves rasters between sources and sinks: it decodes
// encoded bytes from files, streams, or memory, negotiates the output
// encoding, and drives the read-filter-resize-write thumbnail task.
package imageio

import (
	"errors"
	"strings"
)

// Format-name sentinels. Any other non-empty value names the output encoding
// literally ("png", "jpg", ...). Format names are case-insensitive.
const (
	// FormatOriginal resolves to the format detected on the source.
	FormatOriginal = "original"
	// FormatDetermine lets the sink pick its preferred format.
	FormatDetermine = "determine"
)

// ErrUnsupportedFormat reports that no decoder or encoder is available for a
// format. It is distinct from transport failures so callers can branch on it.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// NormalizeFormat canonicalizes a format name: trimmed, lower-cased, with the
// common jpg/tif aliases folded.
func NormalizeFormat(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	default:
		return name
	}
}

// ContentTypeForFormat maps a format name to its MIME type.
func ContentTypeForFormat(name string) string {
	switch NormalizeFormat(name) {
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	default:
		return "image/png"
	}
}
