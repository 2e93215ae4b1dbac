package pngtext

const (
	ftNone = iota
	ftSub
	ftUp
	ftAverage
	ftPaeth
	nFilter
)

// unfilter reverses the row filter in place. cdat is the current row
// without its filter byte, pdat the previous reconstructed row (all zero
// for the first row of a pass). bpp is the filter stride in bytes.
func unfilter(ft byte, cdat, pdat []byte, bpp int) error {
	switch ft {
	case ftNone:
	case ftSub:
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += cdat[i-bpp]
		}
	case ftUp:
		for i, p := range pdat {
			cdat[i] += p
		}
	case ftAverage:
		for i := 0; i < bpp && i < len(cdat); i++ {
			cdat[i] += pdat[i] / 2
		}
		for i := bpp; i < len(cdat); i++ {
			cdat[i] += uint8((int(cdat[i-bpp]) + int(pdat[i])) / 2)
		}
	case ftPaeth:
		for i := range cdat {
			var a, c uint8
			if i >= bpp {
				a = cdat[i-bpp]
				c = pdat[i-bpp]
			}
			cdat[i] += paeth(a, pdat[i], c)
		}
	default:
		return corruptf("unknown filter type %d", ft)
	}
	return nil
}

// filterRow writes the filtered form of cdat into dst (len(cdat) bytes).
func filterRow(ft int, dst, cdat, pdat []byte, bpp int) {
	switch ft {
	case ftNone:
		copy(dst, cdat)
	case ftSub:
		for i := range cdat {
			var a uint8
			if i >= bpp {
				a = cdat[i-bpp]
			}
			dst[i] = cdat[i] - a
		}
	case ftUp:
		for i := range cdat {
			dst[i] = cdat[i] - pdat[i]
		}
	case ftAverage:
		for i := range cdat {
			var a int
			if i >= bpp {
				a = int(cdat[i-bpp])
			}
			dst[i] = cdat[i] - uint8((a+int(pdat[i]))/2)
		}
	case ftPaeth:
		for i := range cdat {
			var a, c uint8
			if i >= bpp {
				a = cdat[i-bpp]
				c = pdat[i-bpp]
			}
			dst[i] = cdat[i] - paeth(a, pdat[i], c)
		}
	}
}

// chooseFilter picks the filter whose output has the smallest sum of
// absolute values, the same heuristic image/png uses. It returns the
// chosen type and leaves the filtered row in scratch[ft].
func chooseFilter(scratch *[nFilter][]byte, cdat, pdat []byte, bpp int) int {
	best, bestSum := ftNone, -1
	for ft := ftNone; ft < nFilter; ft++ {
		filterRow(ft, scratch[ft], cdat, pdat, bpp)
		sum := 0
		for _, b := range scratch[ft] {
			sum += abs8(b)
		}
		if bestSum < 0 || sum < bestSum {
			best, bestSum = ft, sum
		}
	}
	return best
}

func paeth(a, b, c uint8) uint8 {
	pc := int(c)
	pa := int(b) - pc
	pb := int(a) - pc
	pc = abs(pa + pb)
	pa = abs(pa)
	pb = abs(pb)
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func abs8(b uint8) int {
	if b < 128 {
		return int(b)
	}
	return 256 - int(b)
}
