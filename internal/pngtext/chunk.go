package pngtext

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

var signature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

const (
	chunkIHDR = "IHDR"
	chunkPLTE = "PLTE"
	chunkTRNS = "tRNS"
	chunkTEXT = "tEXt"
	chunkIDAT = "IDAT"
	chunkIEND = "IEND"
)

// HasSignature reports whether data starts with the 8-byte PNG signature.
func HasSignature(data []byte) bool {
	return bytes.HasPrefix(data, signature)
}

type chunk struct {
	typ  string
	data []byte
}

// chunkReader walks the chunk stream that follows the signature.
type chunkReader struct {
	buf []byte
	off int
}

// next returns the following chunk. ok is false at the end of the input.
// A chunk that runs past the end of the input or fails its CRC yields
// an error wrapping ErrCorruptImageData.
func (cr *chunkReader) next() (c chunk, ok bool, err error) {
	if cr.off == len(cr.buf) {
		return chunk{}, false, nil
	}
	if len(cr.buf)-cr.off < 12 {
		return chunk{}, false, corruptf("truncated chunk at offset %d", cr.off)
	}
	length := binary.BigEndian.Uint32(cr.buf[cr.off : cr.off+4])
	if length > 0x7fffffff || int(length) > len(cr.buf)-cr.off-12 {
		return chunk{}, false, corruptf("chunk length %d at offset %d exceeds input", length, cr.off)
	}
	start := cr.off + 4
	end := cr.off + 8 + int(length)
	typ := cr.buf[start : start+4]
	want := binary.BigEndian.Uint32(cr.buf[end : end+4])
	if crc32.ChecksumIEEE(cr.buf[start:end]) != want {
		return chunk{}, false, corruptf("bad CRC in %q chunk", typ)
	}
	cr.off = end + 4
	return chunk{typ: string(typ), data: cr.buf[start+4 : end]}, true, nil
}

// appendChunk appends a length-prefixed, CRC-suffixed chunk to buf.
func appendChunk(buf []byte, typ string, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	start := len(buf)
	buf = append(buf, typ...)
	buf = append(buf, data...)
	return binary.BigEndian.AppendUint32(buf, crc32.ChecksumIEEE(buf[start:]))
}
