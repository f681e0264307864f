// Package grid holds the in-memory raster model and the pixel-level clip,
// resize and composite operations. It does not depend on GDAL.
package grid

import (
	"errors"
	"fmt"
)

var (
	ErrShapeMismatch     = errors.New("grid shape mismatch")
	ErrNoOverlap         = fmt.Errorf("clip geometry does not overlap raster: %w", ErrShapeMismatch)
	ErrSingularTransform = errors.New("singular geotransform")
	ErrEmptyGeometry     = errors.New("empty clip geometry")
)

// 栅格像元数据，按波段存储，每个波段行优先
type Grid struct {
	Width     int
	Height    int
	Bands     [][]float64
	Transform Affine
	CRS       string
	NoData    float64
	HasNoData bool
}

func New(width, height, bands int) *Grid {
	g := &Grid{
		Width:     width,
		Height:    height,
		Bands:     make([][]float64, bands),
		Transform: Affine{0, 1, 0, 0, 0, -1},
	}
	for i := range g.Bands {
		g.Bands[i] = make([]float64, width*height)
	}
	return g
}

// Fill 创建所有像元都为v的栅格
func Fill(width, height, bands int, v float64) *Grid {
	g := New(width, height, bands)
	for _, b := range g.Bands {
		for i := range b {
			b[i] = v
		}
	}
	return g
}

func (g *Grid) Count() int {
	return len(g.Bands)
}

func (g *Grid) At(band, row, col int) float64 {
	return g.Bands[band][row*g.Width+col]
}

func (g *Grid) Set(band, row, col int, v float64) {
	g.Bands[band][row*g.Width+col] = v
}

// 复制元数据，像元置零
func (g *Grid) CloneEmpty() *Grid {
	c := New(g.Width, g.Height, g.Count())
	c.Transform = g.Transform
	c.CRS = g.CRS
	c.NoData = g.NoData
	c.HasNoData = g.HasNoData
	return c
}

func (g *Grid) Clone() *Grid {
	c := g.CloneEmpty()
	for i, b := range g.Bands {
		copy(c.Bands[i], b)
	}
	return c
}

// Extent returns minX, minY, maxX, maxY of the pixel corners.
func (g *Grid) Extent() (minX, minY, maxX, maxY float64) {
	first := true
	for _, c := range [4][2]float64{{0, 0}, {float64(g.Width), 0}, {0, float64(g.Height)}, {float64(g.Width), float64(g.Height)}} {
		x, y := g.Transform.Apply(c[0], c[1])
		if first {
			minX, maxX, minY, maxY = x, x, y, y
			first = false
			continue
		}
		minX = min(minX, x)
		maxX = max(maxX, x)
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	return
}

// 输出栅格的元数据（驱动、尺寸、波段数、数据类型、坐标系、仿射变换、无效值）
type Meta struct {
	Driver          string
	Width           int
	Height          int
	Count           int
	DataType        string
	CRS             string
	Transform       Affine
	NoData          float64
	HasNoData       bool
	CreationOptions []string
}

// Update 仅替换驱动、高、宽、仿射变换，其余字段保持不变
func (m Meta) Update(driver string, width, height int, transform Affine) Meta {
	out := m
	if len(m.CreationOptions) > 0 {
		out.CreationOptions = append([]string(nil), m.CreationOptions...)
	}
	out.Driver = driver
	out.Width = width
	out.Height = height
	out.Transform = transform
	return out
}
