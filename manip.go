package raster

// Map forces img and applies f to every cell, preserving shape and Meta.
// Map(id, I) ≡ I for the identity function (§8 law 7).
func Map(f func(Pixel) Pixel, img Image) (*RawImage, error) {
	raw, err := img.Eval()
	if err != nil {
		return raw, err
	}
	out := Array2D{Rows: make([][]Pixel, len(raw.Pixels.Rows))}
	for y, row := range raw.Pixels.Rows {
		out.Rows[y] = make([]Pixel, len(row))
		for x, p := range row {
			out.Rows[y][x] = f(p)
		}
	}
	return NewRaw(raw.meta, out), nil
}

// Get crops a sub-rectangle (sx, sy, sw, sh) out of img. sw and sh are
// clamped to the remaining extent of the source; if the origin itself is
// out of bounds (sx or sy at or beyond the source dimensions) the input is
// returned unchanged rather than producing a 0×0 result (§4.6, §8 laws
// 8–9). The result's Meta is always synthetic FromData — crop discards the
// source format (§9, open question 4).
func Get(sx, sy, sw, sh int, img Image) (Image, error) {
	raw, err := img.Eval()
	if err != nil {
		return raw, err
	}
	arrW, arrH := raw.Pixels.Width(), raw.Pixels.Height()
	if sx >= arrW || sy >= arrH {
		return raw, nil
	}
	if sw > arrW-sx {
		sw = arrW - sx
	}
	if sh > arrH-sy {
		sh = arrH - sy
	}
	if sw < 0 {
		sw = 0
	}
	if sh < 0 {
		sh = 0
	}
	out := NewArray2D(sw, sh)
	for y := 0; y < sh; y++ {
		srcRow := raw.Pixels.Rows[sy+y]
		for x := 0; x < sw; x++ {
			if sx+x < len(srcRow) {
				out.Rows[y][x] = srcRow[sx+x]
			}
		}
	}
	return NewRaw(FromData{Width: sw, Height: sh, Color: Channel4At8}, out), nil
}

// Put pastes from into to at offset (dx, dy). Both are forced. Rows of
// from that land outside to's bounds are silently skipped rather than
// erroring, matching the bounds-failing-manipulations policy in §7. The
// result's Meta is synthetic FromData sized to to, same as Get.
func Put(dx, dy int, from, to Image) (Image, error) {
	fromRaw, err := from.Eval()
	if err != nil {
		return fromRaw, err
	}
	toRaw, err := to.Eval()
	if err != nil {
		return toRaw, err
	}
	w, h := toRaw.Pixels.Width(), toRaw.Pixels.Height()
	out := toRaw.Pixels.Clone()
	for y, row := range fromRaw.Pixels.Rows {
		ty := dy + y
		if ty < 0 || ty >= len(out.Rows) {
			continue
		}
		for x, p := range row {
			tx := dx + x
			if tx < 0 || tx >= len(out.Rows[ty]) {
				continue
			}
			out.Rows[ty][tx] = p
		}
	}
	return NewRaw(FromData{Width: w, Height: h, Color: Channel4At8}, out), nil
}

// Mirror forces img and reverses row order when vert is set, cell order
// within each row when horiz is set, both when both are set, and returns
// an identical copy when neither is set. Mirroring twice on the same axes
// is the identity (§8 law 6).
func Mirror(horiz, vert bool, img Image) (*RawImage, error) {
	raw, err := img.Eval()
	if err != nil {
		return raw, err
	}
	h := raw.Pixels.Height()
	out := make([][]Pixel, h)
	for y, row := range raw.Pixels.Rows {
		dstY := y
		if vert {
			dstY = h - 1 - y
		}
		newRow := append([]Pixel(nil), row...)
		if horiz {
			for i, j := 0, len(newRow)-1; i < j; i, j = i+1, j-1 {
				newRow[i], newRow[j] = newRow[j], newRow[i]
			}
		}
		out[dstY] = newRow
	}
	return NewRaw(raw.meta, Array2D{Rows: out}), nil
}
