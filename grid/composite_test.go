package grid

import (
	"image"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeNearestReplicates(t *testing.T) {
	src := grayFrom([][]uint8{
		{255, 0},
		{0, 255},
	})
	dst, err := ResizeNearest(src, 4, 4)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 4), dst.Bounds())
	want := [][]uint8{
		{255, 255, 0, 0},
		{255, 255, 0, 0},
		{0, 0, 255, 255},
		{0, 0, 255, 255},
	}
	for y, row := range want {
		for x, v := range row {
			assert.Equal(t, v, dst.GrayAt(x, y).Y, "x=%d y=%d", x, y)
		}
	}
}

func TestResizeNearestShapeAndValues(t *testing.T) {
	src := grayFrom([][]uint8{
		{255, 17, 0},
		{3, 255, 200},
		{0, 0, 255},
	})
	allowed := map[uint8]bool{}
	for _, v := range src.Pix {
		allowed[v] = true
	}
	for _, size := range [][2]int{{7, 5}, {1, 1}, {2, 9}, {3, 3}} {
		dst, err := ResizeNearest(src, size[0], size[1])
		require.NoError(t, err)
		assert.Equal(t, size[0], dst.Bounds().Dx())
		assert.Equal(t, size[1], dst.Bounds().Dy())
		for _, v := range dst.Pix {
			assert.True(t, allowed[v], "resize introduced value %d", v)
		}
	}
	same, err := ResizeNearest(src, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, same.Pix)
}

func TestResizeNearestEmptyTarget(t *testing.T) {
	src := grayFrom([][]uint8{{255}})
	_, err := ResizeNearest(src, 0, 4)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = ResizeNearest(nil, 4, 4)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestOverlayWins(t *testing.T) {
	g := testGrid(2, 0)
	for i := range g.Bands[0] {
		g.Bands[0][i] = float64(i)
		g.Bands[1][i] = float64(i * 2)
	}
	mask := grayFrom([][]uint8{
		{255, 0, 254, 1},
		{0, 0, 0, 0},
		{0, 0, 255, 0},
		{0, 0, 0, 255},
	})
	out, err := Composite(g, mask, OverlayWins)
	require.NoError(t, err)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			marked := mask.GrayAt(c, r).Y == 255
			for b := 0; b < 2; b++ {
				if marked {
					assert.Equal(t, 255.0, out.At(b, r, c))
				} else {
					assert.Equal(t, g.At(b, r, c), out.At(b, r, c))
				}
			}
		}
	}
	assert.Equal(t, 0.0, g.At(0, 0, 0), "input must not be modified")
	assert.Equal(t, g.Transform, out.Transform)
}

func TestReplaceByMask(t *testing.T) {
	g := testGrid(3, 42)
	mask := grayFrom([][]uint8{
		{255, 0, 7, 254},
		{255, 255, 255, 255},
		{1, 2, 3, 4},
		{0, 255, 0, 255},
	})
	out, err := Composite(g, mask, ReplaceByMask)
	require.NoError(t, err)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			v := mask.GrayAt(c, r).Y
			for b := 0; b < 3; b++ {
				if v == 255 {
					assert.Equal(t, 0.0, out.At(b, r, c), "marked pixel keeps zero init")
				} else {
					assert.Equal(t, float64(v), out.At(b, r, c), "unmarked pixel takes overlay value")
				}
			}
		}
	}
}

func TestCompositeShapeMismatch(t *testing.T) {
	g := testGrid(1, 1)
	mask := image.NewGray(image.Rect(0, 0, 3, 4))
	_, err := Composite(g, mask, OverlayWins)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = Composite(g, nil, ReplaceByMask)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestMaskToFootprint(t *testing.T) {
	mask := grayFrom([][]uint8{
		{255, 255},
		{255, 10},
	})
	fp := Fill(2, 2, 1, 1)
	fp.Set(0, 0, 1, 0)
	fp.Set(0, 1, 1, 0)
	n, err := MaskToFootprint(mask, fp)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uint8{255, 0, 255, 0}, mask.Pix)

	_, err = MaskToFootprint(mask, Fill(3, 2, 1, 1))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestParseRule(t *testing.T) {
	r, err := ParseRule(" Replace-By-Mask ")
	require.NoError(t, err)
	assert.Equal(t, ReplaceByMask, r)
	r, err = ParseRule("overlay-wins")
	require.NoError(t, err)
	assert.Equal(t, OverlayWins, r)
	_, err = ParseRule("max")
	assert.Error(t, err)
	assert.Equal(t, "Rule(9)", Rule(9).String())
}

// 4x4 value 10 raster, 2x2 diagonal mask, full-extent clip, overlay wins
func TestPipelineScenario(t *testing.T) {
	g := testGrid(1, 10)
	clipped, err := Clip(g, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{4, 4}}, g.NoData)
	require.NoError(t, err)
	mask, err := ResizeNearest(grayFrom([][]uint8{{255, 0}, {0, 255}}), clipped.Width, clipped.Height)
	require.NoError(t, err)
	out, err := Composite(clipped, mask, OverlayWins)
	require.NoError(t, err)
	want := []float64{
		255, 255, 10, 10,
		255, 255, 10, 10,
		10, 10, 255, 255,
		10, 10, 255, 255,
	}
	assert.Equal(t, want, out.Bands[0])
}

func TestFootprintBlocksMarkedPixels(t *testing.T) {
	g := testGrid(1, 10)
	tri := orb.Polygon{orb.Ring{{0, 0}, {4.2, 0}, {0, 4.2}, {0, 0}}}
	clipped, err := Clip(g, tri, g.NoData)
	require.NoError(t, err)
	NormalizeNoData(clipped, 0)
	mask, err := ResizeNearest(grayFrom([][]uint8{{255}}), clipped.Width, clipped.Height)
	require.NoError(t, err)
	fp, err := Clip(g, tri, 0)
	require.NoError(t, err)
	_, err = MaskToFootprint(mask, fp)
	require.NoError(t, err)
	out, err := Composite(clipped, mask, OverlayWins)
	require.NoError(t, err)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if c <= r {
				assert.Equal(t, 255.0, out.At(0, r, c))
			} else {
				assert.Equal(t, 0.0, out.At(0, r, c), "outside footprint stays background")
			}
		}
	}
}
