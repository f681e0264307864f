package tifoverlay

import (
	"github.com/wgdzlh/tifoverlay/grid"

	"github.com/paulmach/orb"
)

// 已加载的栅格：像元数据及可复制修改的元数据
type Raster struct {
	Path string
	Grid *grid.Grid
	Meta grid.Meta
}

// 矢量要素
type Feature struct {
	FID   int64
	Attrs map[string]string
	Geom  orb.Geometry
}

// 边界矢量图层
type Boundary struct {
	Path     string
	CRS      string // 图层坐标系WKT
	Srid     int    // 无法识别时为0
	Fields   []string
	Features []Feature
}

// 裁剪范围：Rectangle 或 SelectedBoundary
type ClipSpec interface {
	clipSpec()
}

// 与边界图层同坐标系的矩形范围
type Rectangle struct {
	MinX, MinY, MaxX, MaxY float64
}

// 按属性精确匹配选出的边界要素
type SelectedBoundary struct {
	Attribute string
	Value     string
}

func (Rectangle) clipSpec()        {}
func (SelectedBoundary) clipSpec() {}

type Options struct {
	Rule            grid.Rule
	Driver          string   // 输出驱动，默认GTiff
	CreationOptions []string // 输出驱动的创建参数，为空时不传
}

type PreviewOptions struct {
	Scale int // 像元放大倍数
}
