package grid

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// pixel coords closer than this to an integer are snapped before floor/ceil
const snapTolerance = 1e-6

// 像元窗口 [Col, Col+Width) x [Row, Row+Height)
type Window struct {
	Col, Row      int
	Width, Height int
}

// GeometryWindow 计算几何体外包范围在栅格像元空间中的窗口，并与栅格范围求交
func GeometryWindow(g *Grid, geom orb.Geometry) (w Window, err error) {
	if geom == nil || geom.Bound().IsEmpty() {
		err = ErrEmptyGeometry
		return
	}
	inv, err := g.Transform.Invert()
	if err != nil {
		return
	}
	var (
		minC, minR = math.Inf(1), math.Inf(1)
		maxC, maxR = math.Inf(-1), math.Inf(-1)
	)
	eachPoint(geom, func(p orb.Point) {
		c, r := inv.Apply(p[0], p[1])
		minC, maxC = math.Min(minC, c), math.Max(maxC, c)
		minR, maxR = math.Min(minR, r), math.Max(maxR, r)
	})
	col0 := max(int(math.Floor(snap(minC))), 0)
	row0 := max(int(math.Floor(snap(minR))), 0)
	col1 := min(int(math.Ceil(snap(maxC))), g.Width)
	row1 := min(int(math.Ceil(snap(maxR))), g.Height)
	if col1 <= col0 || row1 <= row0 {
		err = ErrNoOverlap
		return
	}
	w = Window{Col: col0, Row: row0, Width: col1 - col0, Height: row1 - row0}
	return
}

func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < snapTolerance {
		return r
	}
	return v
}

// Clip 按几何体裁剪栅格：先裁到外包窗口，再将中心点不在几何体内的像元置为fill
func Clip(src *Grid, geom orb.Geometry, fill float64) (out *Grid, err error) {
	w, err := GeometryWindow(src, geom)
	if err != nil {
		return
	}
	out = New(w.Width, w.Height, src.Count())
	out.Transform = src.Transform.Offset(w.Col, w.Row)
	out.CRS = src.CRS
	out.NoData = src.NoData
	out.HasNoData = src.HasNoData
	for r := 0; r < w.Height; r++ {
		for c := 0; c < w.Width; c++ {
			x, y := out.Transform.Apply(float64(c)+0.5, float64(r)+0.5)
			inside := Contains(geom, orb.Point{x, y})
			idx := r*w.Width + c
			srcIdx := (r+w.Row)*src.Width + c + w.Col
			for b := range out.Bands {
				if inside {
					out.Bands[b][idx] = src.Bands[b][srcIdx]
				} else {
					out.Bands[b][idx] = fill
				}
			}
		}
	}
	return
}

// Contains 判断点是否落在几何体内（边界视为在内）
func Contains(geom orb.Geometry, p orb.Point) bool {
	switch v := geom.(type) {
	case orb.Bound:
		return v.Contains(p)
	case orb.Ring:
		return planar.RingContains(v, p)
	case orb.Polygon:
		return planar.PolygonContains(v, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(v, p)
	case orb.Collection:
		for _, g := range v {
			if Contains(g, p) {
				return true
			}
		}
	}
	return false
}

func eachPoint(geom orb.Geometry, fn func(orb.Point)) {
	switch v := geom.(type) {
	case orb.Point:
		fn(v)
	case orb.MultiPoint:
		for _, p := range v {
			fn(p)
		}
	case orb.LineString:
		for _, p := range v {
			fn(p)
		}
	case orb.Ring:
		for _, p := range v {
			fn(p)
		}
	case orb.MultiLineString:
		for _, ls := range v {
			eachPoint(ls, fn)
		}
	case orb.Polygon:
		for _, r := range v {
			eachPoint(r, fn)
		}
	case orb.MultiPolygon:
		for _, p := range v {
			eachPoint(p, fn)
		}
	case orb.Collection:
		for _, g := range v {
			eachPoint(g, fn)
		}
	case orb.Bound:
		eachPoint(v.ToRing(), fn)
	}
}

// NormalizeNoData 将等于无效值的像元替换为背景值
func NormalizeNoData(g *Grid, background float64) (n int) {
	if !g.HasNoData {
		return
	}
	for _, b := range g.Bands {
		for i, v := range b {
			if v == g.NoData || (math.IsNaN(g.NoData) && math.IsNaN(v)) {
				b[i] = background
				n++
			}
		}
	}
	return
}
