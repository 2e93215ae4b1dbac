// Package pngtext decodes and encodes PNG files for metadata-only edits.
//
// [Decode] fully materializes the pixel rows and header parameters of a PNG
// together with its uncompressed Latin-1 text (tEXt) chunks. [Encode] writes
// a new PNG from a decoded raster and an entry list, reproducing the header
// exactly so the pixels survive the edit bit for bit.
//
// Compressed (zTXt) and international (iTXt) text chunks are not read or
// written.
package pngtext
