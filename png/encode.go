package png

import (
	"encoding/binary"

	raster "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/deflate"
)

// Format selects the PNG color type/bit-depth pair an Encode call
// produces, per §4.3 step 2.
type Format int

const (
	FormatRGBA Format = iota
	FormatRGB
	FormatLuminanceAlpha
	FormatAlpha
)

// RowOrder picks the traversal direction Encode walks the pixel grid in:
// left-to-right vs right-to-left within a row, and top-to-bottom vs
// bottom-to-top between rows.
type RowOrder int

const (
	RightDown RowOrder = iota // left-to-right, top-to-bottom (the conventional order)
	RightUp                   // left-to-right, bottom-to-top
	LeftDown                  // right-to-left, top-to-bottom
	LeftUp                    // right-to-left, bottom-to-top
)

// EncodeOptions configures Encode.
type EncodeOptions struct {
	Format Format
	Order  RowOrder
}

// Encode is total: it always produces a well-formed byte buffer, even for
// an empty or failed-to-force Image (§7). Forcing errors are swallowed
// rather than propagated, because LazyImage.Eval already degrades to an
// empty Raw Image carrying the original Meta on producer failure — that
// empty grid is exactly what gets padded and encoded here.
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

	colorType, bitDepth, bpp := colorTypeFor(opts.Format)

	out := make([]byte, 0, len(signature)+64)
	out = append(out, signature[:]...)

	var ihdrBuf [13]byte
	binary.BigEndian.PutUint32(ihdrBuf[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdrBuf[4:8], uint32(height))
	ihdrBuf[8] = bitDepth
	ihdrBuf[9] = colorType
	// compression=0, filter=0, interlace=0 (ihdrBuf[10..12] already zero)
	out = writeChunk(out, kindIHDR, ihdrBuf[:])

	rows := rowOrder(pixels, opts.Order)
	leftward := opts.Order == LeftDown || opts.Order == LeftUp
	idatRaw := make([]byte, 0, height*(1+width*bpp))
	for _, row := range rows {
		if leftward {
			row = reversedPixels(row)
		}
		scanline := packScanline(row, opts.Format)
		idatRaw = append(idatRaw, filterSub)
		idatRaw = append(idatRaw, subFilterScanline(scanline, bpp)...)
	}

	compressed, err := deflate.DeflateZlib(idatRaw)
	if err != nil {
		// DeflateZlib over in-memory data never legitimately fails; if it
		// somehow does, emit an empty IDAT rather than breaking totality.
		compressed = nil
	}
	out = writeChunk(out, kindIDAT, compressed)
	out = writeChunk(out, kindIEND, nil)

	return out
}

func colorTypeFor(f Format) (colorType, bitDepth byte, bytesPerPixel int) {
	switch f {
	case FormatRGB:
		return 2, 8, 3
	case FormatLuminanceAlpha:
		return 0, 16, 2
	case FormatAlpha:
		return 0, 8, 1
	default:
		return 6, 8, 4
	}
}

// rowOrder returns pixels.Rows reordered per order's between-row
// direction. Within-row direction is applied later in Encode, which
// reverses each row with reversedPixels before packScanline.
func rowOrder(pixels raster.Array2D, order RowOrder) [][]raster.Pixel {
	rows := pixels.Rows
	if order == RightUp || order == LeftUp {
		reversed := make([][]raster.Pixel, len(rows))
		for i, row := range rows {
			reversed[len(rows)-1-i] = row
		}
		return reversed
	}
	return rows
}

func reversedPixels(row []raster.Pixel) []raster.Pixel {
	out := make([]raster.Pixel, len(row))
	for i, p := range row {
		out[len(row)-1-i] = p
	}
	return out
}

func packScanline(row []raster.Pixel, format Format) []byte {
	n := len(row)
	out := make([]byte, 0, n*4)
	for i := 0; i < n; i++ {
		p := row[i]
		r, g, b, a := p.Unpack()
		switch format {
		case FormatRGB:
			out = append(out, r, g, b)
		case FormatLuminanceAlpha:
			out = append(out, r, a)
		case FormatAlpha:
			out = append(out, a)
		default:
			out = append(out, r, g, b, a)
		}
	}
	return out
}
