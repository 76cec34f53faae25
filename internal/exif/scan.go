package exif

import "encoding/binary"

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// ScanOrientation locates the Exif metadata of an encoded JPEG or PNG and
// decodes its orientation tag. Other encodings, images without metadata, and
// malformed blocks all report absent.
func ScanOrientation(data []byte) (Orientation, bool) {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return scanJPEG(data)
	case len(data) >= 8 && string(data[:8]) == string(pngSignature):
		return scanPNG(data)
	default:
		return 0, false
	}
}

// scanJPEG walks the segment list looking for an APP1 segment carrying the
// "Exif" signature. Scanning stops at the start-of-scan marker; metadata
// never follows entropy-coded data in practice.
func scanJPEG(data []byte) (Orientation, bool) {
	offset := 2 // past SOI
	for offset+4 <= len(data) {
		if data[offset] != 0xFF {
			return 0, false
		}
		marker := data[offset+1]
		offset += 2

		// Padding between segments.
		for marker == 0xFF && offset < len(data) {
			marker = data[offset]
			offset++
		}

		switch {
		case marker == 0xD9 || marker == 0xDA: // EOI / SOS
			return 0, false
		case marker >= 0xD0 && marker <= 0xD7: // restart markers carry no length
			continue
		}

		if offset+2 > len(data) {
			return 0, false
		}
		length := int(binary.BigEndian.Uint16(data[offset : offset+2]))
		if length < 2 || offset+length > len(data) {
			return 0, false
		}
		payload := data[offset+2 : offset+length]
		offset += length

		if marker == 0xE1 {
			if o, ok := DecodeSegment(payload); ok {
				return o, true
			}
		}
	}
	return 0, false
}

// scanPNG walks the chunk list looking for an eXIf chunk, whose payload is a
// bare TIFF structure without the "Exif" signature prefix.
func scanPNG(data []byte) (Orientation, bool) {
	offset := len(pngSignature)
	for offset+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		chunkType := string(data[offset+4 : offset+8])
		offset += 8
		if length < 0 || offset+length > len(data) {
			return 0, false
		}

		if chunkType == "eXIf" {
			return DecodeTIFF(data[offset : offset+length])
		}
		if chunkType == "IEND" {
			return 0, false
		}
		offset += length + 4 // payload + CRC
	}
	return 0, false
}
