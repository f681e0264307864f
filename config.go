package tifoverlay

import (
	"fmt"
	"os"

	"github.com/wgdzlh/tifoverlay/grid"
	"github.com/wgdzlh/tifoverlay/utils"

	"gopkg.in/yaml.v3"
)

const (
	FILE_EXT_SHP        = ".shp"
	FILE_EXT_JSON       = ".json"
	FILE_EXT_GEOJSON    = ".geojson"
	SHAPE_ENCODING      = "UTF-8"
	SHP_DRIVER_NAME     = "ESRI Shapefile"
	GEOJSON_DRIVER_NAME = "GeoJSON"
	OO_ENCODING_PREFIX  = "ENCODING="
	ENCODING_OPTION     = OO_ENCODING_PREFIX + SHAPE_ENCODING
	TMP_DIR_PATTERN     = "tifoverlay-shp-"
	SHP_FIELD_WIDTH     = 64

	DEFAULT_DRIVER        = "GTiff"
	DEFAULT_PREVIEW_SCALE = 4

	BACKGROUND_VALUE = 0 // 边界外及无效值像元归一化后的值
)

var (
	DefaultCreationOptions = []string{"COMPRESS=LZW"}
)

// 一次合成运行的全部参数
type Config struct {
	Raster           string        `yaml:"raster"`
	Overlay          string        `yaml:"overlay"`
	Boundary         string        `yaml:"boundary"`
	Output           string        `yaml:"output"`
	BoundaryEncoding string        `yaml:"boundary_encoding,omitempty"`
	Clip             ClipConfig    `yaml:"clip"`
	Rule             grid.Rule     `yaml:"rule"`
	Driver           string        `yaml:"driver"`
	CreationOptions  []string      `yaml:"creation_options,omitempty"`
	Preview          PreviewConfig `yaml:"preview"`
}

// bbox与attribute/value二选一
type ClipConfig struct {
	BBox      []float64 `yaml:"bbox,omitempty"`
	Attribute string    `yaml:"attribute,omitempty"`
	Value     string    `yaml:"value,omitempty"`
}

type PreviewConfig struct {
	Raster   string    `yaml:"raster"`
	Boundary string    `yaml:"boundary"`
	BBox     []float64 `yaml:"bbox"`
	Output   string    `yaml:"output"`
	Scale    int       `yaml:"scale"`
}

func DefaultConfig() Config {
	return Config{
		Raster:   "./tif/Basin_FlowDi2.tif",
		Overlay:  "./basin/overlay.png",
		Boundary: "./shp/World_Countries_Generalized.shp",
		Output:   "./tif_output/Basin_FlowDi2_Malawi.tif",
		Clip: ClipConfig{
			Attribute: "COUNTRY",
			Value:     "Malawi",
		},
		Rule:            grid.OverlayWins,
		Driver:          DEFAULT_DRIVER,
		CreationOptions: append([]string(nil), DefaultCreationOptions...),
		Preview: PreviewConfig{
			Raster:   "./tif_output/Basin_Malawi.tif",
			Boundary: "./shp/World_Countries_Generalized.shp",
			BBox:     []float64{30, -20, 38, -8},
			Output:   "./tif_output/Basin_Malawi_preview.png",
			Scale:    DEFAULT_PREVIEW_SCALE,
		},
	}
}

// LoadConfig 读取yaml配置并覆盖默认值；clip段整体替换
func LoadConfig(path string) (cfg Config, err error) {
	cfg = DefaultConfig()
	if path == "" {
		return
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		return
	}
	var probe struct {
		Clip *ClipConfig `yaml:"clip"`
	}
	if err = yaml.Unmarshal(raw, &probe); err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		return
	}
	if err = yaml.Unmarshal(raw, &cfg); err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		return
	}
	if probe.Clip != nil {
		cfg.Clip = *probe.Clip
	}
	return
}

func (c Config) Validate() (err error) {
	for _, p := range [...]struct{ name, v string }{
		{"raster", c.Raster},
		{"overlay", c.Overlay},
		{"boundary", c.Boundary},
		{"output", c.Output},
	} {
		if p.v == "" {
			return fmt.Errorf("%w: %s path is empty", ErrInvalidConfig, p.name)
		}
	}
	if _, err = c.ClipSpec(); err != nil {
		return
	}
	if c.BoundaryEncoding != "" {
		if _, e := utils.CanonicalEncoding(c.BoundaryEncoding); e != nil {
			return fmt.Errorf("%w: boundary_encoding %q", ErrInvalidConfig, c.BoundaryEncoding)
		}
	}
	if c.Rule != grid.OverlayWins && c.Rule != grid.ReplaceByMask {
		return fmt.Errorf("%w: rule %v", ErrInvalidConfig, c.Rule)
	}
	return
}

// ClipSpec 将clip配置转为裁剪范围
func (c Config) ClipSpec() (spec ClipSpec, err error) {
	hasBox := len(c.Clip.BBox) > 0
	hasSel := c.Clip.Attribute != "" || c.Clip.Value != ""
	switch {
	case hasBox && hasSel:
		err = fmt.Errorf("%w: clip takes either bbox or attribute/value", ErrInvalidConfig)
	case hasBox:
		spec, err = RectFromBBox(c.Clip.BBox)
	case c.Clip.Attribute != "" && c.Clip.Value != "":
		spec = SelectedBoundary{Attribute: c.Clip.Attribute, Value: c.Clip.Value}
	default:
		err = fmt.Errorf("%w: clip needs bbox or attribute and value", ErrInvalidConfig)
	}
	return
}

func (c Config) Options() Options {
	return Options{
		Rule:            c.Rule,
		Driver:          c.Driver,
		CreationOptions: c.CreationOptions,
	}
}

func (p PreviewConfig) Validate() (err error) {
	if p.Raster == "" || p.Boundary == "" || p.Output == "" {
		return fmt.Errorf("%w: preview needs raster, boundary and output", ErrInvalidConfig)
	}
	if p.Scale < 1 {
		return fmt.Errorf("%w: preview scale %d", ErrInvalidConfig, p.Scale)
	}
	_, err = RectFromBBox(p.BBox)
	return
}
