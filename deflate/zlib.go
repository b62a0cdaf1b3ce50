// Package deflate is the compression/CRC collaborator described at its
// interface in §6: the PNG codec treats DEFLATE/INFLATE and CRC-32 as
// externalized primitives rather than implementing them itself. It wires
// that seam to github.com/klauspost/compress's zlib-compatible
// implementation — the same dependency family the teacher codec leaned on
// for its own compressed container — plus the standard library's CRC-32,
// whose PNG polynomial table has no third-party equivalent in this corpus.
package deflate

import (
	"bytes"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

// DeflateZlib returns buf zlib-wrapped and DEFLATE-compressed at the
// default compression level.
func DeflateZlib(buf []byte) ([]byte, error) {
	var out bytes.Buffer
	w := zlib.NewWriter(&out)
	if _, err := w.Write(buf); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// InflateZlib reverses DeflateZlib, failing on malformed zlib/DEFLATE
// input.
func InflateZlib(buf []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// CRC32 computes the PNG-spec CRC-32 (IEEE polynomial) over buf.
func CRC32(buf []byte) uint32 {
	return crc32.ChecksumIEEE(buf)
}
