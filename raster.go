package tifoverlay

import (
	"fmt"
	"os"

	"github.com/wgdzlh/tifoverlay/grid"
	"github.com/wgdzlh/tifoverlay/log"
	"github.com/wgdzlh/tifoverlay/utils"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

var (
	dataTypes = map[string]gdal.DataType{
		"Byte":    gdal.Byte,
		"UInt16":  gdal.UInt16,
		"Int16":   gdal.Int16,
		"UInt32":  gdal.UInt32,
		"Int32":   gdal.Int32,
		"Float32": gdal.Float32,
		"Float64": gdal.Float64,
	}
	dataTypeNames = func() map[gdal.DataType]string {
		m := make(map[gdal.DataType]string, len(dataTypes))
		for k, v := range dataTypes {
			m[v] = k
		}
		return m
	}()
)

func loadErr(kind, path string, cause error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrLoad, kind, path, cause)
}

// 读取栅格全部波段及其仿射变换、坐标系、无效值
func (g *GdalToolbox) LoadRaster(path string) (r *Raster, err error) {
	if _, err = os.Stat(path); err != nil {
		log.Error(g.logTag+"tif not found", zap.String("tif", path), zap.Error(err))
		err = loadErr("raster", path, err)
		return
	}
	ds, err := gdal.Open(path, gdal.ReadOnly)
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", path), zap.Error(err))
		err = loadErr("raster", path, err)
		return
	}
	defer ds.Close()
	var (
		w  = ds.RasterXSize()
		h  = ds.RasterYSize()
		bc = ds.RasterCount()
	)
	if bc == 0 || w == 0 || h == 0 {
		err = loadErr("raster", path, ErrEmptyTif)
		return
	}
	first := ds.RasterBand(1)
	dtName, ok := dataTypeNames[first.RasterDataType()]
	if !ok {
		log.Error(g.logTag+"unsupported tif data type", zap.String("tif", path), zap.Int("dt", int(first.RasterDataType())))
		err = loadErr("raster", path, ErrUnsupportedDataType)
		return
	}
	px := grid.New(w, h, bc)
	px.Transform = grid.Affine(ds.GeoTransform())
	px.CRS = ds.Projection()
	px.NoData, px.HasNoData = first.NoDataValue()
	log.Info(g.logTag+"start read tif", zap.String("tif", path), zap.Int("bands", bc), zap.Int("width", w), zap.Int("height", h),
		zap.String("dt", dtName), zap.Float64s("transform", px.Transform[:]))
	for i := 0; i < bc; i++ {
		if err = ds.RasterBand(i+1).IO(gdal.Read, 0, 0, w, h, px.Bands[i], w, h, 0, 0); err != nil {
			log.Error(g.logTag+"read tif band failed", zap.Int("band", i+1), zap.Error(err))
			err = loadErr("raster", path, err)
			return
		}
	}
	r = &Raster{
		Path: path,
		Grid: px,
		Meta: grid.Meta{
			Driver:    ds.Driver().ShortName(),
			Width:     w,
			Height:    h,
			Count:     bc,
			DataType:  dtName,
			CRS:       px.CRS,
			Transform: px.Transform,
			NoData:    px.NoData,
			HasNoData: px.HasNoData,
		},
	}
	return
}

// 按元数据写出栅格；先写同目录临时文件，成功后再改名覆盖目标
func (g *GdalToolbox) WriteRaster(path string, px *grid.Grid, meta grid.Meta) (err error) {
	if px.Width != meta.Width || px.Height != meta.Height || px.Count() != meta.Count {
		err = fmt.Errorf("%w: grid %dx%dx%d, meta %dx%dx%d", ErrShapeMismatch,
			px.Width, px.Height, px.Count(), meta.Width, meta.Height, meta.Count)
		return
	}
	dt, ok := dataTypes[meta.DataType]
	if !ok {
		err = fmt.Errorf("%w: %q", ErrUnsupportedDataType, meta.DataType)
		return
	}
	if err = utils.EnsureDir(path); err != nil {
		log.Error(g.logTag+"create output dir failed", zap.String("out", path), zap.Error(err))
		return
	}
	driverName := meta.Driver
	if driverName == "" {
		driverName = DEFAULT_DRIVER
	}
	driver, err := gdal.GetDriverByName(driverName)
	if err != nil {
		log.Error(g.logTag+"get raster driver failed", zap.String("driver", driverName), zap.Error(err))
		err = fmt.Errorf("%w: %s: %v", ErrGdalDriverCreate, driverName, err)
		return
	}
	tmp := utils.TempSibling(path)
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()
	log.Info(g.logTag+"start write tif", zap.String("out", path), zap.String("driver", driverName), zap.Int("width", meta.Width),
		zap.Int("height", meta.Height), zap.Int("bands", meta.Count), zap.String("dt", meta.DataType), zap.Strings("co", meta.CreationOptions))
	ds := driver.Create(tmp, meta.Width, meta.Height, meta.Count, dt, meta.CreationOptions)
	if err = g.fillDataset(ds, px, meta); err != nil {
		ds.Close()
		return
	}
	ds.Close() // 落盘
	if !utils.FileExists(tmp) {
		err = fmt.Errorf("%w: %s produced no file", ErrWriteFailed, driverName)
		return
	}
	if err = os.Rename(tmp, path); err != nil {
		log.Error(g.logTag+"rename output failed", zap.String("tmp", tmp), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrWriteFailed, err)
		return
	}
	log.Info(g.logTag+"tif written", zap.String("out", path))
	return
}

func (g *GdalToolbox) fillDataset(ds gdal.Dataset, px *grid.Grid, meta grid.Meta) (err error) {
	if err = ds.SetGeoTransform([6]float64(meta.Transform)); err != nil {
		log.Error(g.logTag+"set geotransform failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if meta.CRS != "" {
		if err = ds.SetProjection(meta.CRS); err != nil {
			log.Error(g.logTag+"set projection failed", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrWriteFailed, err)
		}
	}
	for i := 0; i < meta.Count; i++ {
		band := ds.RasterBand(i + 1)
		if meta.HasNoData {
			if err = band.SetNoDataValue(meta.NoData); err != nil {
				log.Error(g.logTag+"set nodata failed", zap.Int("band", i+1), zap.Error(err))
				return fmt.Errorf("%w: %v", ErrWriteFailed, err)
			}
		}
		if err = band.IO(gdal.Write, 0, 0, meta.Width, meta.Height, px.Bands[i], meta.Width, meta.Height, 0, 0); err != nil {
			log.Error(g.logTag+"write tif band failed", zap.Int("band", i+1), zap.Error(err))
			return fmt.Errorf("%w: %v", ErrWriteFailed, err)
		}
	}
	return
}
