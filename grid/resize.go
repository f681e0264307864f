package grid

import (
	"image"

	"golang.org/x/image/draw"
)

const (
	Marked   = 255
	Unmarked = 0
)

// ResizeNearest 最近邻缩放灰度遮罩到width x height，不引入中间灰度值
func ResizeNearest(src *image.Gray, width, height int) (*image.Gray, error) {
	if src == nil || width <= 0 || height <= 0 || src.Bounds().Empty() {
		return nil, ErrShapeMismatch
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// CheckShape 遮罩尺寸须与栅格一致
func CheckShape(g *Grid, mask *image.Gray) error {
	if mask == nil {
		return ErrShapeMismatch
	}
	b := mask.Bounds()
	if b.Dx() != g.Width || b.Dy() != g.Height {
		return ErrShapeMismatch
	}
	return nil
}

// MaskToFootprint 足迹外（footprint第一波段为0）的遮罩像元强制置为未标记
func MaskToFootprint(mask *image.Gray, footprint *Grid) (n int, err error) {
	if err = CheckShape(footprint, mask); err != nil {
		return
	}
	b := mask.Bounds()
	fp := footprint.Bands[0]
	for r := 0; r < footprint.Height; r++ {
		off := mask.PixOffset(b.Min.X, b.Min.Y+r)
		row := mask.Pix[off : off+footprint.Width]
		for c := range row {
			if fp[r*footprint.Width+c] == 0 {
				if row[c] != Unmarked {
					n++
				}
				row[c] = Unmarked
			}
		}
	}
	return
}
