package parallel

// Band is a half-open range of rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// Bands splits height rows into at most n contiguous bands of nearly
// equal size. Bands never overlap and together cover [0, height), so
// workers shading different bands write disjoint pixels.
func Bands(height, n int) []Band {
	if height <= 0 {
		return nil
	}
	n = max(1, min(n, height))
	bands := make([]Band, n)
	base, extra := height/n, height%n
	y := 0
	for i := range bands {
		rows := base
		if i < extra {
			rows++
		}
		bands[i] = Band{Y0: y, Y1: y + rows}
		y += rows
	}
	return bands
}
