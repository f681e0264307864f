package grid

import "math"

// GDAL geotransform: [originX, pixelW, rotX, originY, rotY, pixelH]
// x = t[0] + col*t[1] + row*t[2]
// y = t[3] + col*t[4] + row*t[5]
type Affine [6]float64

func (a Affine) Apply(col, row float64) (x, y float64) {
	x = a[0] + col*a[1] + row*a[2]
	y = a[3] + col*a[4] + row*a[5]
	return
}

func (a Affine) Invert() (inv Affine, err error) {
	det := a[1]*a[5] - a[2]*a[4]
	if det == 0 || math.IsNaN(det) {
		err = ErrSingularTransform
		return
	}
	inv[1] = a[5] / det
	inv[2] = -a[2] / det
	inv[4] = -a[4] / det
	inv[5] = a[1] / det
	inv[0] = -(a[0]*inv[1] + a[3]*inv[2])
	inv[3] = -(a[0]*inv[4] + a[3]*inv[5])
	return
}

// Offset 平移原点到(col,row)像元
func (a Affine) Offset(col, row int) Affine {
	x, y := a.Apply(float64(col), float64(row))
	return Affine{x, a[1], a[2], y, a[4], a[5]}
}
