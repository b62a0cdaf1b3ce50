package bmp

import (
	"encoding/binary"

	raster "github.com/aramiscd/gren-image"
)

// Decode parses a BMP byte buffer and returns a Lazy Image. Only
// uncompressed 8/16/24/32-bpp pixel data is supported; palettized decode
// goes no further than reading raw index bytes as grey levels (§1
// NON-GOALS — there is no palette lookup here).
func Decode(buf []byte) (raster.Image, error) {
	if len(buf) < fileHeaderSize+4 || buf[0] != 'B' || buf[1] != 'M' {
		return nil, bmpErr(MalformedInput, "bad BMP magic")
	}

	fileSize := binary.LittleEndian.Uint32(buf[2:6])
	pixelStart := binary.LittleEndian.Uint32(buf[10:14])
	dibHeaderSize := binary.LittleEndian.Uint32(buf[14:18])

	if len(buf) < fileHeaderSize+int(dibHeaderSize) {
		return nil, bmpErr(MalformedInput, "truncated DIB header")
	}
	dib := buf[fileHeaderSize : fileHeaderSize+int(dibHeaderSize)]
	// dib[0:4] repeats the biSize field already read as dibHeaderSize.
	if len(dib) < 20 {
		return nil, bmpErr(MalformedInput, "DIB header too short")
	}

	width := int(int32(binary.LittleEndian.Uint32(dib[4:8])))
	height := int(int32(binary.LittleEndian.Uint32(dib[8:12])))
	colorPlanes := binary.LittleEndian.Uint16(dib[12:14])
	bitsPerPixel := binary.LittleEndian.Uint16(dib[14:16])
	compression := binary.LittleEndian.Uint32(dib[16:20])
	var dataSize uint32
	if len(dib) >= 24 {
		dataSize = binary.LittleEndian.Uint32(dib[20:24])
	}

	switch bitsPerPixel {
	case 8, 16, 24, 32:
	default:
		return nil, bmpErr(UnsupportedFeature, "unsupported bits-per-pixel")
	}

	topDown := height < 0
	absHeight := height
	if topDown {
		absHeight = -height
	}

	meta := raster.Bmp{
		FileSize:      fileSize,
		PixelStart:    pixelStart,
		DibHeaderSize: dibHeaderSize,
		Width:         width,
		Height:        absHeight,
		ColorPlanes:   colorPlanes,
		BitsPerPixel:  bitsPerPixel,
		Compression:   compression,
		DataSize:      dataSize,
	}

	producer := func(raster.Meta) (raster.Array2D, error) {
		return decodePixels(buf, int(pixelStart), width, absHeight, bitsPerPixel, topDown)
	}

	return raster.NewLazy(meta, producer), nil
}

// decodePixels reads height rows of width pixels starting at pixelStart.
// BMP rows are stored bottom-first on disk; the core reverse-accumulates
// them to yield a top-first Array2D, unless the header declared a
// top-down (negative height) image.
func decodePixels(buf []byte, pixelStart, width, height int, bitsPerPixel uint16, topDown bool) (raster.Array2D, error) {
	bpp := bytesPerPixelFor(bitsPerPixel)
	padding := rowPadding(width, bpp)
	stride := width*bpp + padding

	needed := pixelStart + height*stride
	if needed > len(buf) || width < 0 || height < 0 {
		return raster.Array2D{}, bmpErr(MalformedInput, "pixel data shorter than declared dimensions")
	}

	out := raster.NewArray2D(width, height)
	for srcRow := 0; srcRow < height; srcRow++ {
		dstRow := srcRow
		if !topDown {
			dstRow = height - 1 - srcRow
		}
		rowStart := pixelStart + srcRow*stride
		row := out.Rows[dstRow]
		for x := 0; x < width; x++ {
			off := rowStart + x*bpp
			switch bitsPerPixel {
			case 8:
				row[x] = raster.WidenGray8(buf[off])
			case 16:
				v := binary.LittleEndian.Uint16(buf[off : off+2])
				row[x] = raster.WidenRGB555(v)
			case 24:
				b, g, r := buf[off], buf[off+1], buf[off+2]
				row[x] = raster.WidenRGB24(r, g, b)
			case 32:
				b, g, r, a := buf[off], buf[off+1], buf[off+2], buf[off+3]
				row[x] = raster.Pack(r, g, b, a)
			}
		}
	}

	return out, nil
}
