package sphere

// BoxMean returns the mean of the 3x3 block centred on (row, col).
// Callers must keep 1 <= row, col <= Size()-2; Locate guarantees this.
//
// The box filter smooths the face seams. It does not undo the density
// distortion of the projection: face centres are still sampled more
// sparsely than edges and corners.
func (t *Texture) BoxMean(row, col int) float64 {
	var sum float64
	for r := row - 1; r <= row+1; r++ {
		base := r*t.size + col
		sum += t.pix[base-1] + t.pix[base] + t.pix[base+1]
	}
	return sum / 9
}
