package tifoverlay

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/wgdzlh/tifoverlay/log"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// 读取遮罩图片并转为8位灰度（ITU-R 601-2亮度，忽略透明度）
func (g *GdalToolbox) LoadOverlay(path string) (gray *image.Gray, err error) {
	f, err := os.Open(path)
	if err != nil {
		log.Error(g.logTag+"open overlay failed", zap.String("img", path), zap.Error(err))
		err = loadErr("overlay", path, err)
		return
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		log.Error(g.logTag+"decode overlay failed", zap.String("img", path), zap.Error(err))
		err = loadErr("overlay", path, err)
		return
	}
	gray = ToGray(img)
	b := gray.Bounds()
	log.Info(g.logTag+"overlay loaded", zap.String("img", path), zap.String("format", format),
		zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	return
}

// ToGray 转为原点在(0,0)的灰度图
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return out
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.Pix[y*out.Stride+x] = luma(c.R, c.G, c.B)
		}
	}
	return out
}

func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 1<<15) >> 16)
}
