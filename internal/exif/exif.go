// Package exif recovers the Exif orientation tag from encoded images.
//
// Only the orientation tag is decoded; everything else in the metadata block
// is skipped. Malformed metadata is never an error: orientation correction is
// an enhancement, so every failure path reports the tag as absent and the
// caller proceeds without correction.
package exif

import "encoding/binary"

// Orientation is the Exif 2.3 orientation enumeration. It describes which
// visual edge of the captured scene maps to the first row/column of the
// stored raster.
type Orientation int

const (
	TopLeft     Orientation = 1
	TopRight    Orientation = 2
	BottomRight Orientation = 3
	BottomLeft  Orientation = 4
	LeftTop     Orientation = 5
	RightTop    Orientation = 6
	RightBottom Orientation = 7
	LeftBottom  Orientation = 8
)

// Valid reports whether o is one of the eight defined orientation values.
func (o Orientation) Valid() bool {
	return o >= TopLeft && o <= LeftBottom
}

func (o Orientation) String() string {
	switch o {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	case LeftTop:
		return "left-top"
	case RightTop:
		return "right-top"
	case RightBottom:
		return "right-bottom"
	case LeftBottom:
		return "left-bottom"
	default:
		return "unknown"
	}
}

const (
	tagOrientation = 0x0112

	typeByte      = 1
	typeASCII     = 2
	typeShort     = 3
	typeLong      = 4
	typeRational  = 5
	typeUndefined = 7
	typeSLong     = 9
	typeSRational = 10
)

// DecodeSegment decodes the orientation from an APP1 payload: the 4-byte
// "Exif" magic, a NUL byte, one pad byte, then the TIFF structure. The second
// return value is false when the tag is absent or the block is malformed.
func DecodeSegment(segment []byte) (Orientation, bool) {
	if len(segment) < 6 || string(segment[0:4]) != "Exif" || segment[4] != 0x00 {
		return 0, false
	}
	return DecodeTIFF(segment[6:])
}

// DecodeTIFF decodes the orientation from a bare TIFF structure: a 2-byte
// byte-order marker ("II" little-endian, "MM" big-endian), 2 reserved bytes, a
// 4-byte first-directory offset that is not followed (the entry list starts
// right after the header), a 2-byte entry count, and count 12-byte entries.
func DecodeTIFF(data []byte) (Orientation, bool) {
	if len(data) < 10 {
		return 0, false
	}

	var order binary.ByteOrder
	switch string(data[0:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return 0, false
	}

	count := int(order.Uint16(data[8:10]))
	offset := 10
	for i := 0; i < count && offset+12 <= len(data); i++ {
		entry := data[offset : offset+12]
		offset += 12

		if order.Uint16(entry[0:2]) != tagOrientation {
			continue
		}

		typ := order.Uint16(entry[2:4])
		n := order.Uint32(entry[4:8])
		if typeSize(typ)*int(n) > 4 {
			// Out-of-line value; the orientation tag is always stored
			// inline, so an offset here means the block is not trustworthy.
			return 0, false
		}

		var value Orientation
		switch typ {
		case typeShort:
			value = Orientation(order.Uint16(entry[8:10]))
		case typeByte, typeASCII, typeUndefined:
			value = Orientation(entry[8])
		default:
			value = Orientation(order.Uint32(entry[8:12]))
		}
		if !value.Valid() {
			return 0, false
		}
		return value, true
	}

	return 0, false
}

func typeSize(typ uint16) int {
	switch typ {
	case typeByte, typeASCII, typeUndefined:
		return 1
	case typeShort:
		return 2
	case typeLong, typeSLong:
		return 4
	case typeRational, typeSRational:
		return 8
	default:
		return 1
	}
}
