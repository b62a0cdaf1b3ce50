package png

import (
	"bytes"
	"encoding/binary"

	raster "github.com/aramiscd/gren-image"
	"github.com/aramiscd/gren-image/deflate"
)

// Decode parses a PNG byte buffer and returns a Lazy Image: the chunk
// stream and IHDR are validated up front, but pixels are not unpacked
// until the image is forced. Decode returns a nil Image on any parse
// failure — there is no partial result (§4.7, §8 law 11).
func Decode(buf []byte) (raster.Image, error) {
	if len(buf) < 8 || !bytes.Equal(buf[:8], signature[:]) {
		return nil, pngErr(MalformedInput, "bad PNG signature")
	}

	chunks, err := readChunks(buf[8:])
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 || chunks[0].kind != kindIHDR {
		return nil, pngErr(MalformedInput, "missing IHDR")
	}

	hdr, err := parseIHDR(chunks[0].data)
	if err != nil {
		return nil, err
	}

	var (
		palette   []rgbEntry
		haveTrns  bool
		trnsAlpha []byte
		idat      []byte
		aux       = map[string][]byte{}
	)

	for _, c := range chunks[1:] {
		switch c.kind {
		case kindPLTE:
			palette = parsePLTE(c.data)
		case kindTRNS:
			haveTrns = true
			trnsAlpha = append([]byte(nil), c.data...)
		case kindIDAT:
			idat = append(idat, c.data...)
		case kindIEND:
			// handled by loop termination in readChunks; nothing to do.
		default:
			aux[c.kind] = append([]byte(nil), c.data...)
		}
	}

	meta := raster.Png{
		Width:     hdr.width,
		Height:    hdr.height,
		Color:     raster.PngColorShape{ColorType: hdr.colorType, BitDepth: hdr.bitDepth},
		Adam7:     hdr.interlace == 1,
		AuxChunks: aux,
	}

	producer := func(raster.Meta) (raster.Array2D, error) {
		return decodePixels(hdr, palette, haveTrns, trnsAlpha, idat)
	}

	return raster.NewLazy(meta, producer), nil
}

type ihdr struct {
	width, height        int
	bitDepth, colorType  byte
	compression, filter  byte
	interlace            byte
}

func parseIHDR(data []byte) (ihdr, error) {
	if len(data) != 13 {
		return ihdr{}, pngErr(MalformedInput, "IHDR must be 13 bytes")
	}
	h := ihdr{
		width:       int(binary.BigEndian.Uint32(data[0:4])),
		height:      int(binary.BigEndian.Uint32(data[4:8])),
		bitDepth:    data[8],
		colorType:   data[9],
		compression: data[10],
		filter:      data[11],
		interlace:   data[12],
	}
	if h.compression != 0 {
		return ihdr{}, pngErr(MalformedInput, "unsupported IHDR compression method")
	}
	if h.filter != 0 {
		return ihdr{}, pngErr(MalformedInput, "unsupported IHDR filter method")
	}
	if h.interlace != 0 && h.interlace != 1 {
		return ihdr{}, pngErr(MalformedInput, "invalid IHDR interlace method")
	}
	if h.interlace == 1 {
		// Adam7 is out of scope for this core (§1 NON-GOALS); fail the
		// whole decode rather than silently flattening it.
		return ihdr{}, pngErr(UnsupportedFeature, "interlaced PNG is not supported")
	}
	return h, nil
}

type rgbEntry struct {
	r, g, b, a byte
}

func parsePLTE(data []byte) []rgbEntry {
	n := len(data) / 3
	out := make([]rgbEntry, n)
	for i := 0; i < n; i++ {
		out[i] = rgbEntry{r: data[i*3], g: data[i*3+1], b: data[i*3+2], a: 0xff}
	}
	return out
}

// decodePixels inflates the concatenated IDAT payload and reconstructs the
// pixel grid. Only IndexedColour@8, GreyscaleAlpha@8 and TrueColourAlpha@8
// are supported; every other color shape fails per §4.3.
func decodePixels(h ihdr, palette []rgbEntry, haveTrns bool, trnsAlpha []byte, idat []byte) (raster.Array2D, error) {
	if h.bitDepth != 8 {
		return raster.Array2D{}, pngErr(UnsupportedFeature, "only 8-bit depth is supported on decode")
	}

	var bpp int
	switch h.colorType {
	case 3:
		bpp = 1
	case 4:
		bpp = 2
	case 6:
		bpp = 4
	default:
		return raster.Array2D{}, pngErr(UnsupportedFeature, "unsupported PNG color type on decode")
	}

	if haveTrns && h.colorType == 3 {
		for i := range palette {
			if i < len(trnsAlpha) {
				palette[i].a = trnsAlpha[i]
			}
		}
	}

	raw, err := deflate.InflateZlib(idat)
	if err != nil {
		return raster.Array2D{}, pngErr(DecompressionFailure, err.Error())
	}

	stride := h.width * bpp
	needed := h.height * (stride + 1)
	if len(raw) < needed {
		return raster.Array2D{}, pngErr(MalformedInput, "inflated data shorter than declared dimensions")
	}

	out := raster.NewArray2D(h.width, h.height)
	var prevRow []byte
	pos := 0
	for y := 0; y < h.height; y++ {
		filterType := raw[pos]
		pos++
		cur := append([]byte(nil), raw[pos:pos+stride]...)
		pos += stride

		if err := unfilterScanline(filterType, cur, prevRow, bpp); err != nil {
			return raster.Array2D{}, err
		}

		row := out.Rows[y]
		switch h.colorType {
		case 3:
			for x := 0; x < h.width; x++ {
				idx := int(cur[x])
				if idx >= len(palette) {
					return raster.Array2D{}, pngErr(MalformedInput, "palette index out of range")
				}
				e := palette[idx]
				row[x] = raster.Pack(e.r, e.g, e.b, e.a)
			}
		case 4:
			for x := 0; x < h.width; x++ {
				g, a := cur[x*2], cur[x*2+1]
				row[x] = raster.Pack(g, g, g, a)
			}
		case 6:
			for x := 0; x < h.width; x++ {
				o := x * 4
				row[x] = raster.Pack(cur[o], cur[o+1], cur[o+2], cur[o+3])
			}
		}

		prevRow = cur
	}

	return out, nil
}
