package tifoverlay

import (
	"fmt"
	"image"

	"github.com/wgdzlh/tifoverlay/grid"
	"github.com/wgdzlh/tifoverlay/log"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// 解析裁剪几何：矩形直接使用；边界选择则匹配要素后取其几何集合
func (g *GdalToolbox) resolveClip(b *Boundary, clip ClipSpec) (geom orb.Geometry, polygon bool, err error) {
	switch c := clip.(type) {
	case Rectangle:
		if !c.Valid() {
			err = fmt.Errorf("%w: rectangle %v", ErrInvalidConfig, c)
			return
		}
		log.Info(g.logTag+"clip by rectangle", zap.String("wkt", c.Wkt()))
		geom = c.Bound()
	case SelectedBoundary:
		var sel *Boundary
		if sel, err = b.Select(c.Attribute, c.Value); err != nil {
			log.Error(g.logTag+"select boundary failed", zap.String("attr", c.Attribute), zap.String("value", c.Value), zap.Error(err))
			return
		}
		log.Info(g.logTag+"clip by boundary", zap.String("attr", c.Attribute), zap.String("value", c.Value), zap.Int("features", len(sel.Features)))
		geom = sel.Geometry()
		polygon = true
	default:
		err = fmt.Errorf("%w: unknown clip spec %T", ErrInvalidConfig, clip)
	}
	return
}

// Composite 裁剪栅格、缩放遮罩并按规则合成，返回合成像元及输出元数据
func (g *GdalToolbox) Composite(r *Raster, b *Boundary, overlay *image.Gray, clip ClipSpec, opts Options) (out *grid.Grid, meta grid.Meta, err error) {
	if r == nil || r.Grid == nil || b == nil || overlay == nil {
		err = ErrPrecheck
		return
	}
	if r.Grid.CRS != "" && b.CRS != "" && r.Grid.CRS != b.CRS {
		minX, minY, maxX, maxY := r.Grid.Extent()
		log.Warn(g.logTag+"raster and boundary crs differ, no reprojection applied", zap.String("tif", r.Path), zap.String("shp", b.Path),
			zap.Float64s("extent", []float64{minX, minY, maxX, maxY}))
	}
	geom, polygon, err := g.resolveClip(b, clip)
	if err != nil {
		return
	}
	src := r.Grid
	fill := float64(BACKGROUND_VALUE)
	if src.HasNoData {
		fill = src.NoData
	}
	clipped, err := grid.Clip(src, geom, fill)
	if err != nil {
		log.Error(g.logTag+"clip raster failed", zap.String("tif", r.Path), zap.Error(err))
		return
	}
	log.Info(g.logTag+"raster clipped", zap.Int("width", clipped.Width), zap.Int("height", clipped.Height),
		zap.Float64s("transform", clipped.Transform[:]))
	if polygon {
		n := grid.NormalizeNoData(clipped, BACKGROUND_VALUE)
		log.Info(g.logTag+"nodata normalized", zap.Int("pixels", n))
	}
	mask, err := grid.ResizeNearest(overlay, clipped.Width, clipped.Height)
	if err == nil {
		err = grid.CheckShape(clipped, mask)
	}
	if err != nil {
		ob := overlay.Bounds()
		log.Error(g.logTag+"resize overlay failed", zap.Int("srcWidth", ob.Dx()), zap.Int("srcHeight", ob.Dy()),
			zap.Int("width", clipped.Width), zap.Int("height", clipped.Height))
		return
	}
	if polygon {
		var footprint *grid.Grid
		if footprint, err = grid.Clip(src, geom, BACKGROUND_VALUE); err != nil {
			return
		}
		var n int
		if n, err = grid.MaskToFootprint(mask, footprint); err != nil {
			return
		}
		log.Info(g.logTag+"overlay masked to footprint", zap.Int("cleared", n))
	}
	if out, err = grid.Composite(clipped, mask, opts.Rule); err != nil {
		return
	}
	driver := opts.Driver
	if driver == "" {
		driver = DEFAULT_DRIVER
	}
	meta = r.Meta.Update(driver, out.Width, out.Height, out.Transform)
	if len(opts.CreationOptions) > 0 {
		meta.CreationOptions = append([]string(nil), opts.CreationOptions...)
	}
	log.Info(g.logTag+"composite done", zap.Stringer("rule", opts.Rule), zap.Int("width", out.Width), zap.Int("height", out.Height))
	return
}
