package pngtext

// interlaceScan describes one Adam7 pass.
type interlaceScan struct {
	xFactor, yFactor, xOffset, yOffset int
}

var adam7 = [7]interlaceScan{
	{8, 8, 0, 0},
	{8, 8, 4, 0},
	{4, 8, 0, 4},
	{4, 4, 2, 0},
	{2, 4, 0, 2},
	{2, 2, 1, 0},
	{1, 2, 0, 1},
}

// size returns the dimensions of the pass for a width×height image.
// Either may be zero, in which case the pass is absent from the stream.
func (p interlaceScan) size(width, height int) (w, h int) {
	w = (width - p.xOffset + p.xFactor - 1) / p.xFactor
	h = (height - p.yOffset + p.yFactor - 1) / p.yFactor
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return w, h
}

// pass is a rectangle of pixels that is filtered and compressed as a unit:
// the whole image, or one Adam7 sub-image.
type pass struct {
	scan          interlaceScan
	width, height int
}

func passes(width, height int, interlaced bool) []pass {
	if !interlaced {
		return []pass{{scan: interlaceScan{1, 1, 0, 0}, width: width, height: height}}
	}
	var ps []pass
	for _, s := range adam7 {
		w, h := s.size(width, height)
		if w == 0 {
			continue
		}
		ps = append(ps, pass{scan: s, width: w, height: h})
	}
	return ps
}

// copyPixel copies the pixel at index sx of src to index dx of dst.
// Pixels narrower than a byte are packed most significant bits first.
func copyPixel(dst []byte, dx int, src []byte, sx int, bitsPerPixel int) {
	if bitsPerPixel >= 8 {
		n := bitsPerPixel / 8
		copy(dst[dx*n:dx*n+n], src[sx*n:sx*n+n])
		return
	}
	perByte := 8 / bitsPerPixel
	mask := byte(1<<bitsPerPixel - 1)
	sShift := uint(8 - bitsPerPixel*(sx%perByte+1))
	dShift := uint(8 - bitsPerPixel*(dx%perByte+1))
	v := (src[sx/perByte] >> sShift) & mask
	dst[dx/perByte] = dst[dx/perByte]&^(mask<<dShift) | v<<dShift
}
