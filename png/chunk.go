package png

import (
	"encoding/binary"

	"github.com/aramiscd/gren-image/deflate"
)

var signature = [8]byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// chunk kinds this decoder interprets by name; anything else is preserved
// verbatim in AuxChunks.
const (
	kindIHDR = "IHDR"
	kindPLTE = "PLTE"
	kindTRNS = "tRNS"
	kindIDAT = "IDAT"
	kindIEND = "IEND"
)

type rawChunk struct {
	kind string
	data []byte
}

// readChunks walks the chunk stream starting right after the 8-byte
// signature, stopping at IEND. Each chunk's CRC is read but not verified
// against the computed checksum (§9, open question 3).
func readChunks(buf []byte) ([]rawChunk, error) {
	var chunks []rawChunk
	pos := 0
	for {
		if pos+8 > len(buf) {
			return nil, pngErr(MalformedInput, "truncated chunk header")
		}
		length := binary.BigEndian.Uint32(buf[pos : pos+4])
		kind := string(buf[pos+4 : pos+8])
		pos += 8

		if pos+int(length)+4 > len(buf) {
			return nil, pngErr(MalformedInput, "truncated chunk body for "+kind)
		}
		data := buf[pos : pos+int(length)]
		pos += int(length)
		pos += 4 // crc, unverified

		chunks = append(chunks, rawChunk{kind: kind, data: data})
		if kind == kindIEND {
			break
		}
	}
	return chunks, nil
}

// writeChunk appends one length-prefixed, CRC-suffixed chunk to buf.
func writeChunk(buf []byte, kind string, data []byte) []byte {
	var lenField [4]byte
	binary.BigEndian.PutUint32(lenField[:], uint32(len(data)))
	buf = append(buf, lenField[:]...)
	buf = append(buf, kind...)
	buf = append(buf, data...)

	crc := deflate.CRC32(append([]byte(kind), data...))
	var crcField [4]byte
	binary.BigEndian.PutUint32(crcField[:], crc)
	buf = append(buf, crcField[:]...)
	return buf
}
