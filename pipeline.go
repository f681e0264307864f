package tifoverlay

import (
	"github.com/wgdzlh/tifoverlay/log"

	"go.uber.org/zap"
)

// Run 执行一次完整合成：读取栅格、遮罩、边界，合成后写出；任一步失败则不写出
func Run(cfg Config) (err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	clip, err := cfg.ClipSpec()
	if err != nil {
		return
	}
	g := NewGdalToolbox()
	defer g.Close()
	log.Info(g.logTag+"start composite run", zap.String("tif", cfg.Raster), zap.String("overlay", cfg.Overlay),
		zap.String("shp", cfg.Boundary), zap.String("out", cfg.Output), zap.Stringer("rule", cfg.Rule))
	r, err := g.LoadRaster(cfg.Raster)
	if err != nil {
		return
	}
	overlay, err := g.LoadOverlay(cfg.Overlay)
	if err != nil {
		return
	}
	b, err := g.LoadBoundary(cfg.Boundary, cfg.BoundaryEncoding)
	if err != nil {
		return
	}
	out, meta, err := g.Composite(r, b, overlay, clip, cfg.Options())
	if err != nil {
		return
	}
	if err = g.WriteRaster(cfg.Output, out, meta); err != nil {
		return
	}
	log.Infof(g.logTag+"run finished, %s written by %s", cfg.Output, cfg.Rule)
	return
}

// RunPreview 渲染栅格与边界的叠加预览
func RunPreview(cfg PreviewConfig) (err error) {
	if err = cfg.Validate(); err != nil {
		return
	}
	rect, err := RectFromBBox(cfg.BBox)
	if err != nil {
		return
	}
	g := NewGdalToolbox()
	defer g.Close()
	r, err := g.LoadRaster(cfg.Raster)
	if err != nil {
		return
	}
	b, err := g.LoadBoundary(cfg.Boundary)
	if err != nil {
		return
	}
	err = g.RenderPreview(r, b, rect, cfg.Output, PreviewOptions{Scale: cfg.Scale})
	return
}

// ListLabels 列出边界图层某属性的全部取值，便于确定选择条件
func ListLabels(shp, attr, encoding string) (labels []string, err error) {
	g := NewGdalToolbox()
	defer g.Close()
	b, err := g.LoadBoundary(shp, encoding)
	if err != nil {
		return
	}
	labels, err = b.Labels(attr)
	return
}
