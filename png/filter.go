package png

// filter type byte values, per the PNG spec.
const (
	filterNone  = 0
	filterSub   = 1
	filterUp    = 2
	filterAvg   = 3 // not implemented by this core; degrades to None (§9, open question 2)
	filterPaeth = 4
)

// paeth is the Paeth predictor: a+b-c snapped to whichever of a, b, c it
// lands closest to, ties broken in favor of a then b.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := absInt(p - int(a))
	pb := absInt(p - int(b))
	pc := absInt(p - int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// unfilterScanline reverses the forward filter applied to one scanline.
// cur holds the raw (still-filtered) bytes on entry and is reconstructed
// in place; prev is the already-reconstructed previous row (nil for the
// first row). bpp is the number of bytes that make up one pixel, which is
// the filter's notion of "the pixel to the left" regardless of channel
// layout.
func unfilterScanline(filterType byte, cur, prev []byte, bpp int) error {
	switch filterType {
	case filterNone, filterAvg:
		// Average degrades to None: reconstructed bytes equal raw bytes.
		// This is a known, intentional limitation (§9, open question 2),
		// not a bug to silently promote to a real Average implementation.
		return nil
	case filterSub:
		for i := range cur {
			var a byte
			if i >= bpp {
				a = cur[i-bpp]
			}
			cur[i] += a
		}
		return nil
	case filterUp:
		for i := range cur {
			var b byte
			if prev != nil {
				b = prev[i]
			}
			cur[i] += b
		}
		return nil
	case filterPaeth:
		for i := range cur {
			var a, b, c byte
			if i >= bpp {
				a = cur[i-bpp]
			}
			if prev != nil {
				b = prev[i]
				if i >= bpp {
					c = prev[i-bpp]
				}
			}
			cur[i] += paeth(a, b, c)
		}
		return nil
	default:
		return pngErr(UnsupportedFeature, "unsupported filter type")
	}
}

// subFilterScanline is the forward half of filterSub: out[i] = cur[i] -
// cur[i-bpp] (0 at the start of the row), the only filter this core's
// encoder emits (§4.3 step 3).
func subFilterScanline(cur []byte, bpp int) []byte {
	out := make([]byte, len(cur))
	for i := range cur {
		var a byte
		if i >= bpp {
			a = cur[i-bpp]
		}
		out[i] = cur[i] - a
	}
	return out
}
