package gif

import raster "github.com/aramiscd/gren-image"

type rgb struct{ r, g, b byte }

// extractPalette walks pixels in row-major order, assigning each novel
// color the next free index starting at 0 and emitting the parallel index
// stream, per §4.5's palette extraction step. Alpha is discarded for every
// pixel: colors are indexed by RGB alone, so all pixels come out fully
// opaque. A palette
// that would grow past 256 entries forces every further novel color to
// index 0 rather than growing (§1 NON-GOALS: "overflow to palette[0]").
func extractPalette(pixels raster.Array2D) (palette []rgb, indices []byte) {
	index := map[rgb]int{}

	for _, row := range pixels.Rows {
		for _, p := range row {
			r, g, b, _ := p.Unpack()
			c := rgb{r, g, b}

			idx, ok := index[c]
			if !ok {
				if len(palette) < 256 {
					idx = len(palette)
					palette = append(palette, c)
					index[c] = idx
				} else {
					idx = 0
				}
			}
			indices = append(indices, byte(idx))
		}
	}

	if len(palette) == 0 {
		palette = append(palette, rgb{0, 0, 0})
	}

	return palette, indices
}

// tableSizeExponent returns the GIF "size of global color table" packed
// field: the color table holds 2^(n+1) entries, and n is the smallest
// value making that cover paletteSize.
func tableSizeExponent(paletteSize int) int {
	n := 0
	for (1 << uint(n+1)) < paletteSize {
		n++
	}
	return n
}
