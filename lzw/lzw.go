// Package lzw implements the GIF flavor of Lempel-Ziv-Welch: variable-width
// codes over a string table with a clear code and an end-of-information
// code, bits packed LSB-first via bitio. It is the compressor the gif
// package's image data sub-blocks carry, plus the minimal decode path used
// to verify that compression round-trips (§1: GIF decoding at full
// fidelity is out of scope, but the LZW inner stream is load-bearing
// enough to test on its own).
package lzw

import (
	"fmt"

	"github.com/aramiscd/gren-image/bitio"
)

// CodeSize returns the bit width needed to represent n distinct values,
// per the table in §4.2: n≤4→2 up through n≤4096→12. It is also how a GIF
// encoder derives the "LZW minimum code size" byte from a palette size.
func CodeSize(n int) int {
	switch {
	case n <= 4:
		return 2
	case n <= 8:
		return 3
	case n <= 16:
		return 4
	case n <= 32:
		return 5
	case n <= 64:
		return 6
	case n <= 128:
		return 7
	case n <= 256:
		return 8
	case n <= 512:
		return 9
	case n <= 1024:
		return 10
	case n <= 2048:
		return 11
	default:
		return 12
	}
}

const maxCode = 4095

// codeTable maps (prefix code, suffix byte) to the code assigned to that
// extended string. Single-byte strings never appear here: code k already
// denotes the string [k] for k in [0, lastColorIndex].
type codeTable map[int64]int

func tableKey(prefix int, b byte) int64 {
	return int64(prefix)<<8 | int64(b)
}

// ProtocolError reports a malformed LZW code stream: a missing clear code
// or a code outside the valid range for the current table.
type ProtocolError string

func (e ProtocolError) Error() string { return "lzw: " + string(e) }

// Encode compresses indices (each in [0, lastColorIndex]) into a GIF-style
// LZW code stream. The returned bytes do not include the "minimum code
// size" header byte GIF prefixes the stream with — that is
// CodeSize(lastColorIndex+1), at least 2, and is the caller's to emit.
func Encode(lastColorIndex int, indices []byte) []byte {
	cc := lastColorIndex + 1
	eoi := cc + 1
	minWidth := CodeSize(cc)
	if minWidth < 2 {
		minWidth = 2
	}

	w := bitio.NewWriter()
	width := minWidth + 1
	nextCode := eoi + 1
	table := codeTable{}

	w.WriteBits(uint(width), uint32(cc))

	reset := func() {
		table = codeTable{}
		nextCode = eoi + 1
		width = minWidth + 1
	}

	if len(indices) == 0 {
		w.WriteBits(uint(width), uint32(eoi))
		w.Flush()
		return w.Bytes()
	}

	prefix := int(indices[0])
	for _, k := range indices[1:] {
		if code, ok := table[tableKey(prefix, k)]; ok {
			prefix = code
			continue
		}

		w.WriteBits(uint(width), uint32(prefix))

		if nextCode > maxCode {
			w.WriteBits(uint(width), uint32(cc))
			reset()
		} else {
			table[tableKey(prefix, k)] = nextCode
			nextCode++
			if nextCode > 1<<uint(width) && width < 12 {
				width++
			}
		}
		prefix = int(k)
	}
	w.WriteBits(uint(width), uint32(prefix))
	// Decode assigns a table entry after reading this last code and may
	// widen before it reads EOI; account for that entry here too.
	nextCode++
	if nextCode > 1<<uint(width) && width < 12 {
		width++
	}
	w.WriteBits(uint(width), uint32(eoi))
	w.Flush()
	return w.Bytes()
}

// Decode reverses Encode given the same lastColorIndex. data is the raw
// LZW code stream, without the GIF "minimum code size" header byte.
func Decode(lastColorIndex int, data []byte) ([]byte, error) {
	cc := lastColorIndex + 1
	eoi := cc + 1
	minWidth := CodeSize(cc)
	if minWidth < 2 {
		minWidth = 2
	}

	r := bitio.NewReader(data)
	width := minWidth + 1
	nextCode := eoi + 1
	table := map[int][]byte{}

	first, err := r.ReadBits(uint(width), 0)
	if err != nil {
		return nil, err
	}
	if int(first) != cc {
		return nil, ProtocolError("stream does not start with a clear code")
	}

	var output, prev []byte
	havePrev := false

	for {
		code, err := r.ReadBits(uint(width), 0)
		if err != nil {
			return nil, err
		}
		c := int(code)

		if c == eoi {
			break
		}
		if c == cc {
			table = map[int][]byte{}
			nextCode = eoi + 1
			width = minWidth + 1
			havePrev = false
			continue
		}

		var entry []byte
		switch {
		case c <= lastColorIndex:
			entry = []byte{byte(c)}
		case havePrev && c == nextCode:
			entry = append(append([]byte{}, prev...), prev[0])
		default:
			e, ok := table[c]
			if !ok {
				return nil, ProtocolError(fmt.Sprintf("code %d out of range", c))
			}
			entry = e
		}

		output = append(output, entry...)

		if havePrev {
			newEntry := append(append([]byte{}, prev...), entry[0])
			table[nextCode] = newEntry
			nextCode++
			if nextCode > (1<<uint(width))-1 && width < 12 {
				width++
			}
		}
		prev = entry
		havePrev = true
	}

	return output, nil
}
