package tifoverlay

import (
	"fmt"

	"github.com/paulmach/orb"
)

func PointsToWkt(lon1, lon2, lat1, lat2 float64) string {
	return fmt.Sprintf("POLYGON((%[1]f %[3]f, %[1]f %[4]f, %[2]f %[4]f, %[2]f %[3]f, %[1]f %[3]f))", lon1, lon2, lat1, lat2)
}

// span: [minX, maxX, minY, maxY]
func SpanToWkt(span [4]float64) string {
	return PointsToWkt(span[0], span[1], span[2], span[3])
}

// 由[minX, minY, maxX, maxY]构造矩形
func RectFromBBox(bbox []float64) (r Rectangle, err error) {
	if len(bbox) != 4 {
		err = fmt.Errorf("%w: bbox needs 4 numbers, got %d", ErrInvalidConfig, len(bbox))
		return
	}
	r = Rectangle{MinX: bbox[0], MinY: bbox[1], MaxX: bbox[2], MaxY: bbox[3]}
	if !r.Valid() {
		err = fmt.Errorf("%w: bbox %v is inverted or empty", ErrInvalidConfig, bbox)
	}
	return
}

func (r Rectangle) Valid() bool {
	return r.MinX < r.MaxX && r.MinY < r.MaxY
}

func (r Rectangle) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{r.MinX, r.MinY}, Max: orb.Point{r.MaxX, r.MaxY}}
}

func (r Rectangle) Wkt() string {
	return SpanToWkt([4]float64{r.MinX, r.MaxX, r.MinY, r.MaxY})
}
