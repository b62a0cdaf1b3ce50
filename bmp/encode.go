package bmp

import (
	"encoding/binary"

	raster "github.com/aramiscd/gren-image"
)

// Format selects the bits-per-pixel Encode produces.
type Format int

const (
	Format24 Format = iota
	Format32
)

// RowOrder mirrors png.RowOrder: left-to-right vs right-to-left within a
// row. BMP's between-row order is fixed by EncodeOptions.TopDown instead
// of being folded into this type, since BMP's file layout already has a
// native top-down/bottom-up toggle independent of pixel traversal.
type RowOrder int

const (
	Rightward RowOrder = iota
	Leftward
)

// EncodeOptions configures Encode.
type EncodeOptions struct {
	Format Format
	Order  RowOrder
	// TopDown controls only the ORDER rows are emitted in; it does not
	// itself request a negative-height top-down DIB header, matching the
	// spec's "orderUp" terminology (§4.4 step 3): false emits rows
	// bottom-first as ordinary BMP files do.
	TopDown bool
}

// Encode is total, mirroring png.Encode (§7).
func Encode(img raster.Image, opts EncodeOptions) []byte {
	raw, _ := img.Eval()
	width, height := raw.Source().Dimensions()
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	pixels := raw.Pixels.Padded(width, height)

	var bytesPerPixel int
	if opts.Format == Format32 {
		bytesPerPixel = 4
	} else {
		bytesPerPixel = 3
	}

	padding := rowPadding(width, bytesPerPixel)
	stride := width*bytesPerPixel + padding
	pixelDataSize := height * stride

	var headerSize int
	if opts.Format == Format32 {
		headerSize = v4HeaderSize
	} else {
		headerSize = infoHeaderSize
	}
	pixelStart := headerSize // headerSize already counts the 14-byte file header
	fileSize := pixelStart + pixelDataSize

	out := make([]byte, 0, fileSize)
	out = append(out, 'B', 'M')
	out = appendU32(out, uint32(fileSize))
	out = appendU16(out, 0)
	out = appendU16(out, 0)
	out = appendU32(out, uint32(pixelStart))

	if opts.Format == Format32 {
		out = writeV4Header(out, width, height)
	} else {
		out = writeInfoHeader(out, width, height, bytesPerPixel)
	}

	rows := collectRows(pixels, opts.Order)
	if !opts.TopDown {
		reversed := make([][]raster.Pixel, len(rows))
		for i, row := range rows {
			reversed[len(rows)-1-i] = row
		}
		rows = reversed
	}

	for _, row := range rows {
		out = appendPixelRow(out, row, opts.Format)
		for i := 0; i < padding; i++ {
			out = append(out, 0)
		}
	}

	return out
}

func collectRows(pixels raster.Array2D, order RowOrder) [][]raster.Pixel {
	rows := pixels.Rows
	if order != Leftward {
		return rows
	}
	out := make([][]raster.Pixel, len(rows))
	for i, row := range rows {
		reversedRow := make([]raster.Pixel, len(row))
		for j, p := range row {
			reversedRow[len(row)-1-j] = p
		}
		out[i] = reversedRow
	}
	return out
}

func appendPixelRow(out []byte, row []raster.Pixel, format Format) []byte {
	for _, p := range row {
		if format == Format32 {
			b, g, r, a := p.NarrowRGBA32()
			out = append(out, b, g, r, a)
		} else {
			r, g, b := p.NarrowRGB24()
			out = append(out, b, g, r)
		}
	}
	return out
}

// writeInfoHeader writes the 40-byte BITMAPINFOHEADER used by the 24-bpp
// path, the only other format Encode produces (the spec labels this the
// 54-byte variant counting the 14-byte file header that precedes it).
func writeInfoHeader(out []byte, width, height, bytesPerPixel int) []byte {
	out = appendU32(out, infoHeaderSize-fileHeaderSize)
	out = appendI32(out, int32(width))
	out = appendI32(out, int32(height))
	out = appendU16(out, 1)                        // color planes
	out = appendU16(out, uint16(bytesPerPixel*8))   // bits per pixel
	out = appendU32(out, biRGB)                     // compression
	out = appendU32(out, uint32(height*width*bytesPerPixel)) // image size
	out = appendI32(out, 0)                         // x pixels per meter
	out = appendI32(out, 0)                         // y pixels per meter
	out = appendU32(out, 0)                         // colors used
	out = appendU32(out, 0)                         // important colors
	return out
}

// writeV4Header writes the 108-byte BITMAPV4HEADER used by the 32-bpp
// path, fixing channel positions with BI_BITFIELDS masks (§4.4, the
// "32-bpp variant's static masks").
func writeV4Header(out []byte, width, height int) []byte {
	out = appendU32(out, v4HeaderSize-fileHeaderSize)
	out = appendI32(out, int32(width))
	out = appendI32(out, int32(height))
	out = appendU16(out, 1)             // color planes
	out = appendU16(out, 32)            // bits per pixel
	out = appendU32(out, biBitFields)   // compression
	out = appendU32(out, uint32(height*width*4))
	out = appendI32(out, 0)
	out = appendI32(out, 0)
	out = appendU32(out, 0)
	out = appendU32(out, 0)
	out = appendU32(out, maskR)
	out = appendU32(out, maskG)
	out = appendU32(out, maskB)
	out = appendU32(out, maskA)
	out = append(out, v4HeaderTail[:]...)
	return out
}

func appendU32(out []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}

func appendI32(out []byte, v int32) []byte {
	return appendU32(out, uint32(v))
}

func appendU16(out []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(out, b[:]...)
}
