package gif

import (
	"encoding/binary"

	raster "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/lzw"
)

// Decode reads back a single-frame GIF89a buffer produced by Encode. It
// exists to verify the LZW inner stream round-trips, not as a general GIF
// reader: local color tables, graphics control extensions and multi-frame
// animation are not recognized (§1 NON-GOALS, §9 open question 5).
func Decode(buf []byte) (raster.Image, error) {
	if len(buf) < 13 || string(buf[0:6]) != "GIF89a" {
		return nil, gifErr(MalformedInput, "bad GIF89a header")
	}

	width := int(binary.LittleEndian.Uint16(buf[6:8]))
	height := int(binary.LittleEndian.Uint16(buf[8:10]))
	packed := buf[10]
	if packed&0x80 == 0 {
		return nil, gifErr(UnsupportedFeature, "no global color table")
	}
	tableExp := int(packed & 0x07)
	tableEntries := 1 << uint(tableExp+1)

	pos := 13
	if pos+tableEntries*3 > len(buf) {
		return nil, gifErr(MalformedInput, "truncated global color table")
	}
	palette := make([]rgb, tableEntries)
	for i := 0; i < tableEntries; i++ {
		palette[i] = rgb{buf[pos], buf[pos+1], buf[pos+2]}
		pos += 3
	}

	if pos >= len(buf) || buf[pos] != 0x2C {
		return nil, gifErr(MalformedInput, "missing image descriptor")
	}
	pos++
	if pos+9 > len(buf) {
		return nil, gifErr(MalformedInput, "truncated image descriptor")
	}
	imgWidth := int(binary.LittleEndian.Uint16(buf[pos+4 : pos+6]))
	imgHeight := int(binary.LittleEndian.Uint16(buf[pos+6 : pos+8]))
	imgPacked := buf[pos+8]
	pos += 9
	if imgPacked&0x80 != 0 {
		return nil, gifErr(UnsupportedFeature, "local color tables are not supported")
	}
	if imgPacked&0x40 != 0 {
		return nil, gifErr(UnsupportedFeature, "interlaced GIF is not supported")
	}

	if pos >= len(buf) {
		return nil, gifErr(MalformedInput, "missing LZW minimum code size")
	}
	pos++ // minimum code size byte; not needed, see lastColorIndex below

	var coded []byte
	for {
		if pos >= len(buf) {
			return nil, gifErr(MalformedInput, "truncated sub-block stream")
		}
		n := int(buf[pos])
		pos++
		if n == 0 {
			break
		}
		if pos+n > len(buf) {
			return nil, gifErr(MalformedInput, "truncated sub-block")
		}
		coded = append(coded, buf[pos:pos+n]...)
		pos += n
	}

	// lastColorIndex mirrors Encode's choice: pinned to the global color
	// table size (tableEntries - 1), not the minimum-code-size byte, which
	// only round-trips the table's code width, not its exact entry count.
	lastColorIndex := tableEntries - 1
	indices, err := lzw.Decode(lastColorIndex, coded)
	if err != nil {
		return nil, gifErr(LZWProtocolError, err.Error())
	}
	if len(indices) < imgWidth*imgHeight {
		return nil, gifErr(MalformedInput, "decompressed indices shorter than declared dimensions")
	}

	meta := raster.Gif{Width: width, Height: height}

	producer := func(raster.Meta) (raster.Array2D, error) {
		out := raster.NewArray2D(imgWidth, imgHeight)
		i := 0
		for y := 0; y < imgHeight; y++ {
			row := out.Rows[y]
			for x := 0; x < imgWidth; x++ {
				idx := int(indices[i])
				i++
				if idx >= len(palette) {
					return raster.Array2D{}, gifErr(MalformedInput, "color table index out of range")
				}
				c := palette[idx]
				row[x] = raster.WidenRGB24(c.r, c.g, c.b)
			}
		}
		return out, nil
	}

	return raster.NewLazy(meta, producer), nil
}
