package camera

// Mat4 is a 4x4 matrix in column-major order: element (row r, col c)
// is at index c*4+r, matching the layout GPU APIs expect.
type Mat4 [16]float64

// Mul returns m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * n[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// TransformPoint applies the matrix to (x, y, z, 1) and returns the
// clip-space result before perspective division.
func (m Mat4) TransformPoint(x, y, z float64) (cx, cy, cz, cw float64) {
	cx = m[0]*x + m[4]*y + m[8]*z + m[12]
	cy = m[1]*x + m[5]*y + m[9]*z + m[13]
	cz = m[2]*x + m[6]*y + m[10]*z + m[14]
	cw = m[3]*x + m[7]*y + m[11]*z + m[15]
	return cx, cy, cz, cw
}

// Project applies the matrix and performs the perspective division,
// returning normalized device coordinates.
func (m Mat4) Project(x, y, z float64) (nx, ny, nz float64) {
	cx, cy, cz, cw := m.TransformPoint(x, y, z)
	return cx / cw, cy / cw, cz / cw
}
