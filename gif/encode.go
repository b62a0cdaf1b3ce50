package gif

import (
	"encoding/binary"

	raster "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/lzw"
)

// Encode produces a single-frame GIF89a byte buffer, per §4.5. Like
// png.Encode and bmp.Encode it is total: a failed-to-force Image degrades
// to an empty grid rather than failing.
func Encode(img raster.Image) []byte {
	raw, _ := img.Eval()
	width, height := raw.Source().Dimensions()
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	pixels := raw.Pixels.Padded(width, height)

	palette, indices := extractPalette(pixels)
	tableExp := tableSizeExponent(len(palette))
	tableEntries := 1 << uint(tableExp+1)

	// A real GIF decoder derives the clear code from the minimum-code-size
	// byte as 1<<minCodeSize, and the minimum code size itself is floored
	// at 2 (GIF never emits a 1-bit code stream). A global color table of
	// 2 entries would otherwise pin the clear code to 2, which such a
	// decoder reads as a literal palette index instead of a control code.
	// Clamp the table to at least 4 entries so lastColorIndex+1 is always
	// the power of two a conformant decoder expects.
	if tableEntries < 4 {
		tableEntries = 4
		tableExp = 1
	}

	out := make([]byte, 0, 13+tableEntries*3+len(indices)+16)
	out = append(out, "GIF89a"...)

	out = appendU16(out, uint16(width))
	out = appendU16(out, uint16(height))
	packedLSD := byte(0x80) | byte(tableExp) // global color table present, no sort
	out = append(out, packedLSD)
	out = append(out, 0) // background color index
	out = append(out, 0) // pixel aspect ratio

	for i := 0; i < tableEntries; i++ {
		if i < len(palette) {
			c := palette[i]
			out = append(out, c.r, c.g, c.b)
		} else {
			out = append(out, 0, 0, 0)
		}
	}

	out = append(out, 0x2C) // image separator
	out = appendU16(out, 0) // left
	out = appendU16(out, 0) // top
	out = appendU16(out, uint16(width))
	out = appendU16(out, uint16(height))
	out = append(out, 0) // packed fields: no local table, no interlace

	// lastColorIndex is pinned to the global color table's own size (a
	// power of two minus one), not the count of distinct colors actually
	// used, so Decode can recover it from the table size field alone
	// without the minimum-code-size byte's lossy width rounding.
	lastColorIndex := tableEntries - 1
	minWidth := lzw.CodeSize(lastColorIndex + 1)
	if minWidth < 2 {
		minWidth = 2
	}
	out = append(out, byte(minWidth))

	coded := lzw.Encode(lastColorIndex, indices)
	out = appendSubBlocks(out, coded)

	out = append(out, 0x3B) // trailer

	return out
}

// appendSubBlocks frames data into GIF sub-blocks of at most 255 bytes,
// each preceded by its length byte, terminated by a zero-length block.
func appendSubBlocks(out []byte, data []byte) []byte {
	for len(data) > 0 {
		n := len(data)
		if n > 255 {
			n = 255
		}
		out = append(out, byte(n))
		out = append(out, data[:n]...)
		data = data[n:]
	}
	out = append(out, 0)
	return out
}

func appendU16(out []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(out, b[:]...)
}
