package raster

// Image is the shared in-memory image: either Raw (pixels materialized) or
// Lazy (a producer that materializes them on demand). It is a
// two-constructor sum type; dispatch on the concrete type with a type
// switch or, for the common case of "give me pixels", call Eval.
type Image interface {
	// Source returns the Meta this Image carries. For a Lazy Image this is
	// the header parsed up front; for a Raw Image it is whatever Meta was
	// set when the pixels were materialized (§3 invariant 3: forcing a
	// Lazy Image preserves its Meta).
	Source() Meta

	// Eval forces the image, returning a Raw Image. Calling Eval on a Raw
	// Image returns it unchanged (§8 law 5, idempotence). Calling it on a
	// Lazy Image invokes the producer, which may be called again by a
	// later Eval — forcing is not memoized (§5).
	Eval() (*RawImage, error)

	imageTag()
}

// RawImage is an Image with pixels already materialized.
type RawImage struct {
	meta  Meta
	Pixels Array2D
}

// NewRaw wraps a Meta and a pixel grid as a Raw Image.
func NewRaw(meta Meta, pixels Array2D) *RawImage {
	return &RawImage{meta: meta, Pixels: pixels}
}

func (r *RawImage) Source() Meta            { return r.meta }
func (r *RawImage) Eval() (*RawImage, error) { return r, nil }
func (*RawImage) imageTag()                 {}

// Producer materializes the pixels for a Meta that has already been
// parsed. It must be referentially transparent (same bytes in the closure
// → same pixels out) and safe to call more than once.
type Producer func(Meta) (Array2D, error)

// LazyImage is an Image whose pixel grid has not been computed yet. It
// holds the parsed header plus a closure over the original byte buffer;
// forcing it runs that closure synchronously. There is no async/await,
// thread, or generator involved — a plain callable is the entire
// mechanism (§9).
type LazyImage struct {
	meta     Meta
	producer Producer
}

// NewLazy builds a Lazy Image from a parsed Meta and a producer closure.
func NewLazy(meta Meta, producer Producer) *LazyImage {
	return &LazyImage{meta: meta, producer: producer}
}

func (l *LazyImage) Source() Meta { return l.meta }

// Eval runs the producer. Per §4.7, if the producer fails, the pixel data
// is lost but the header survives: Eval returns a Raw Image carrying the
// original Meta and an empty Array2D, alongside the error.
func (l *LazyImage) Eval() (*RawImage, error) {
	pixels, err := l.producer(l.meta)
	if err != nil {
		return &RawImage{meta: l.meta}, err
	}
	return &RawImage{meta: l.meta, Pixels: pixels}, nil
}

func (*LazyImage) imageTag() {}

// FromArray constructs a Raw Image directly from a pixel grid, tagging it
// with a synthetic FromData Meta. This is the entry point for
// user-constructed images that did not come from a decoder.
func FromArray(pixels Array2D) *RawImage {
	w, h := pixels.Width(), pixels.Height()
	return NewRaw(FromData{Width: w, Height: h, Color: Channel4At8}, pixels)
}
