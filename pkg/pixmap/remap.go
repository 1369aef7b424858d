package pixmap

// FlipSecondScanline reverses the pixel order of every second scan
// line (odd row index). This matches snake-cabled panels where
// alternate rows are wired right to left. Applying it twice restores
// the original buffer.
func FlipSecondScanline(src []uint32, width, height int) []uint32 {
	dst := make([]uint32, len(src))
	for y := 0; y < height; y++ {
		row := src[y*width : (y+1)*width]
		if y%2 == 0 {
			copy(dst[y*width:], row)
			continue
		}
		for x := 0; x < width; x++ {
			dst[y*width+x] = row[width-1-x]
		}
	}
	return dst
}

// ApplyMapping reorders pixels through a wiring table: output pixel i
// takes the value of src[mapping[i]]. The table must have one entry
// per pixel with indices inside src. An empty table returns src
// unchanged.
func ApplyMapping(src []uint32, mapping []int) []uint32 {
	if len(mapping) == 0 {
		return src
	}
	dst := make([]uint32, len(mapping))
	for i, m := range mapping {
		dst[i] = src[m]
	}
	return dst
}
