package tifoverlay

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/wgdzlh/tifoverlay/grid"
	"github.com/wgdzlh/tifoverlay/log"
	"github.com/wgdzlh/tifoverlay/utils"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

const (
	outlineHalfWidth = 0.5
)

var (
	outlineColor = color.RGBA{0, 0, 255, 255}
)

// 按矩形裁剪栅格，叠加边界轮廓后输出PNG预览图
func (g *GdalToolbox) RenderPreview(r *Raster, b *Boundary, rect Rectangle, out string, opts PreviewOptions) (err error) {
	if r == nil || r.Grid == nil || b == nil {
		err = ErrPrecheck
		return
	}
	fill := float64(BACKGROUND_VALUE)
	if r.Grid.HasNoData {
		fill = r.Grid.NoData
	}
	clipped, err := grid.Clip(r.Grid, rect.Bound(), fill)
	if err != nil {
		log.Error(g.logTag+"clip preview failed", zap.String("tif", r.Path), zap.String("wkt", rect.Wkt()), zap.Error(err))
		return
	}
	img, err := PreviewImage(clipped, b, opts.Scale)
	if err != nil {
		return
	}
	if err = utils.EnsureDir(out); err != nil {
		return
	}
	f, err := os.Create(out)
	if err != nil {
		log.Error(g.logTag+"create preview failed", zap.String("out", out), zap.Error(err))
		return
	}
	if err = png.Encode(f, img); err != nil {
		f.Close()
		log.Error(g.logTag+"encode preview failed", zap.String("out", out), zap.Error(err))
		return
	}
	if err = f.Close(); err != nil {
		return
	}
	log.Info(g.logTag+"preview written", zap.String("out", out), zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return
}

// PreviewImage 第一波段线性拉伸为灰度，无效值透明，边界轮廓绘为蓝色
func PreviewImage(px *grid.Grid, b *Boundary, scale int) (dst *image.RGBA, err error) {
	if scale < 1 {
		scale = 1
	}
	inv, err := px.Transform.Invert()
	if err != nil {
		return
	}
	base := stretch(px)
	w, h := px.Width*scale, px.Height*scale
	dst = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)

	z := vector.NewRasterizer(w, h)
	s := float64(scale)
	toPixel := func(p orb.Point) orb.Point {
		c, r := inv.Apply(p[0], p[1])
		return orb.Point{c * s, r * s}
	}
	segs := 0
	for _, f := range b.Features {
		eachRing(f.Geom, func(ring orb.Ring) {
			for i := 1; i < len(ring); i++ {
				if strokeSegment(z, toPixel(ring[i-1]), toPixel(ring[i]), float64(w), float64(h)) {
					segs++
				}
			}
		})
	}
	if segs > 0 {
		z.Draw(dst, dst.Bounds(), image.NewUniform(outlineColor), image.Point{})
	}
	return
}

func stretch(px *grid.Grid) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, px.Width, px.Height))
	valid := func(v float64) bool {
		return !math.IsNaN(v) && !(px.HasNoData && v == px.NoData)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range px.Bands[0] {
		if valid(v) {
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	span := hi - lo
	for i, v := range px.Bands[0] {
		if !valid(v) {
			continue
		}
		var y uint8
		if span > 0 {
			y = uint8(math.Round((v - lo) / span * 255))
		} else {
			y = 255
		}
		img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2], img.Pix[i*4+3] = y, y, y, 255
	}
	return img
}

func eachRing(geom orb.Geometry, fn func(orb.Ring)) {
	switch v := geom.(type) {
	case orb.Ring:
		fn(v)
	case orb.Polygon:
		for _, r := range v {
			fn(r)
		}
	case orb.MultiPolygon:
		for _, p := range v {
			eachRing(p, fn)
		}
	case orb.Collection:
		for _, g := range v {
			eachRing(g, fn)
		}
	case orb.Bound:
		fn(v.ToRing())
	}
}

// 将线段裁剪到画布内，并以细长四边形加入光栅器
func strokeSegment(z *vector.Rasterizer, p0, p1 orb.Point, w, h float64) bool {
	p0, p1, ok := clipSegment(p0, p1, w, h)
	if !ok {
		return false
	}
	dx, dy := p1[0]-p0[0], p1[1]-p0[1]
	l := math.Hypot(dx, dy)
	if l == 0 {
		return false
	}
	dx, dy = dx/l*outlineHalfWidth, dy/l*outlineHalfWidth
	nx, ny := -dy, dx
	pts := [4]orb.Point{
		{p0[0] - dx + nx, p0[1] - dy + ny},
		{p1[0] + dx + nx, p1[1] + dy + ny},
		{p1[0] + dx - nx, p1[1] + dy - ny},
		{p0[0] - dx - nx, p0[1] - dy - ny},
	}
	for i, p := range pts {
		x := float32(math.Max(0, math.Min(w, p[0])))
		y := float32(math.Max(0, math.Min(h, p[1])))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	return true
}

// Liang-Barsky
func clipSegment(p0, p1 orb.Point, w, h float64) (a, b orb.Point, ok bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := p1[0]-p0[0], p1[1]-p0[1]
	for _, e := range [4][2]float64{
		{-dx, p0[0]},
		{dx, w - p0[0]},
		{-dy, p0[1]},
		{dy, h - p0[1]},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return
			}
			t1 = math.Min(t1, t)
		}
	}
	a = orb.Point{p0[0] + t0*dx, p0[1] + t0*dy}
	b = orb.Point{p0[0] + t1*dx, p0[1] + t1*dy}
	ok = true
	return
}
