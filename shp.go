package tifoverlay

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wgdzlh/tifoverlay/log"
	"github.com/wgdzlh/tifoverlay/utils"

	"github.com/lukeroth/gdal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"go.uber.org/zap"
)

func vectorDriverName(path string) (name string, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case FILE_EXT_SHP:
		name = SHP_DRIVER_NAME
	case FILE_EXT_JSON, FILE_EXT_GEOJSON:
		name = GEOJSON_DRIVER_NAME
	default:
		err = ErrUnsupportedVector
	}
	return
}

// 按指定编码读取shp属性表并转存为UTF-8的临时shp，返回临时文件及其所在目录（用后删除）
func (g *GdalToolbox) transcodeShapefile(shp, enc string) (out, dir string, err error) {
	canon, err := utils.CanonicalEncoding(enc)
	if err != nil {
		err = fmt.Errorf("%w: %q", ErrInvalidEncoding, enc)
		return
	}
	sds, err := gdal.OpenEx(shp, gdal.OFVector, nil, []string{OO_ENCODING_PREFIX + canon}, nil)
	if err != nil {
		log.Error(g.logTag+"open shp error", zap.String("shp", shp), zap.Error(err))
		return
	}
	defer sds.Close()
	if dir, err = os.MkdirTemp("", TMP_DIR_PATTERN); err != nil {
		return
	}
	out = filepath.Join(dir, filepath.Base(shp))
	log.Info(g.logTag+"start encoding shp", zap.String("shp", shp), zap.String("enc", canon), zap.String("out", out))
	dds, err := gdal.VectorTranslate(out, []gdal.Dataset{sds}, []string{"-f", SHP_DRIVER_NAME, "-lco", ENCODING_OPTION})
	if err != nil {
		log.Error(g.logTag+"VectorTranslate failed", zap.Error(err))
		os.RemoveAll(dir)
		dir = ""
		return
	}
	dds.Close() // 生成转换后的shp文件
	return
}

// 读取边界图层全部要素的属性及几何（第一个图层）
// enc为空时由GDAL按cpg/LDID识别shp属性表编码，否则按enc强制解码
func (g *GdalToolbox) LoadBoundary(path string, enc ...string) (b *Boundary, err error) {
	if _, err = os.Stat(path); err != nil {
		log.Error(g.logTag+"boundary not found", zap.String("shp", path), zap.Error(err))
		err = loadErr("boundary", path, err)
		return
	}
	driverName, err := vectorDriverName(path)
	if err != nil {
		err = loadErr("boundary", path, err)
		return
	}
	log.Info(g.logTag+"start load boundary", zap.String("shp", path), zap.String("cpg", utils.ReadCpg(path)))
	src := path
	if len(enc) > 0 && enc[0] != "" && driverName == SHP_DRIVER_NAME {
		var tmpDir string
		if src, tmpDir, err = g.transcodeShapefile(path, enc[0]); err != nil {
			err = loadErr("boundary", path, err)
			return
		}
		defer os.RemoveAll(tmpDir)
	}
	driver := gdal.OGRDriverByName(driverName)
	ds, ok := driver.Open(src, 0)
	if !ok {
		err = loadErr("boundary", path, ErrGdalDriverOpen)
		return
	}
	defer ds.Destroy()
	var (
		layer = ds.LayerByIndex(0)
		def   = layer.Definition()
		nf    = def.FieldCount()
	)
	b = &Boundary{
		Path:   path,
		Fields: make([]string, nf),
	}
	for i := range b.Fields {
		b.Fields[i] = def.FieldDefinition(i).Name()
	}
	sr := layer.SpatialReference()
	b.CRS, _ = sr.ToWKT()
	if b.Srid, err = g.getSrid(sr); err != nil {
		log.Warn(g.logTag+"boundary srid unknown", zap.String("shp", path))
		err = nil
	}
	if n, ok := layer.FeatureCount(false); ok && n > 0 {
		b.Features = make([]Feature, 0, n)
	}
	var (
		feature *gdal.Feature
		geo     gdal.Geometry
		raw     []byte
		gm      orb.Geometry
		e       error
		gc      []destroyable
	)
	defer func() {
		destroyAll(gc)
	}()
	for {
		if feature = layer.NextFeature(); feature == nil {
			break
		}
		gc = append(gc, *feature)
		geo = feature.Geometry()
		geo.FlattenTo2D()
		if raw, e = geo.ToWKB(); e != nil {
			log.Error(g.logTag+"err in wkb convert", zap.Int64("fid", feature.FID()), zap.Error(e))
			continue
		}
		if gm, e = wkb.Unmarshal(raw); e != nil {
			log.Error(g.logTag+"err in wkb decode", zap.Int64("fid", feature.FID()), zap.Error(e))
			continue
		}
		ft := Feature{
			FID:   feature.FID(),
			Attrs: make(map[string]string, nf),
			Geom:  gm,
		}
		for i, name := range b.Fields {
			ft.Attrs[name] = feature.FieldAsString(i)
		}
		b.Features = append(b.Features, ft)
	}
	log.Info(g.logTag+"boundary loaded", zap.String("shp", path), zap.Int("srid", b.Srid),
		zap.Strings("fields", b.Fields), zap.Int("features", len(b.Features)))
	return
}

func (b *Boundary) hasField(attr string) bool {
	for _, f := range b.Fields {
		if f == attr {
			return true
		}
	}
	return false
}

// Select 按属性值精确匹配要素，结果不能为空
func (b *Boundary) Select(attr, value string) (sel *Boundary, err error) {
	if !b.hasField(attr) {
		err = fmt.Errorf("%w: %q", ErrColumnMissing, attr)
		return
	}
	sel = &Boundary{
		Path:   b.Path,
		CRS:    b.CRS,
		Srid:   b.Srid,
		Fields: b.Fields,
	}
	for _, f := range b.Features {
		if f.Attrs[attr] == value {
			sel.Features = append(sel.Features, f)
		}
	}
	if len(sel.Features) == 0 {
		err = fmt.Errorf("%w: %s = %q", ErrEmptySelection, attr, value)
		sel = nil
	}
	return
}

// Labels 返回属性的去重值（已排序）
func (b *Boundary) Labels(attr string) (labels []string, err error) {
	if !b.hasField(attr) {
		err = fmt.Errorf("%w: %q", ErrColumnMissing, attr)
		return
	}
	set := map[string]struct{}{}
	for _, f := range b.Features {
		set[f.Attrs[attr]] = struct{}{}
	}
	labels = make([]string, 0, len(set))
	for k := range set {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return
}

// Geometry 所有要素几何的集合
func (b *Boundary) Geometry() orb.Collection {
	c := make(orb.Collection, 0, len(b.Features))
	for _, f := range b.Features {
		if f.Geom != nil {
			c = append(c, f.Geom)
		}
	}
	return c
}

func (g *GdalToolbox) getShpDriver(shp, enc string, srid int) (ds gdal.DataSource, ref gdal.SpatialReference, layer gdal.Layer, err error) {
	log.Info(g.logTag+"output shp files", zap.String("shp", shp), zap.Int("srid", srid))
	if err = utils.EnsureDir(shp); err != nil {
		return
	}
	if ref, err = g.getSridRef(srid); err != nil {
		return
	}
	driver := gdal.OGRDriverByName(SHP_DRIVER_NAME)
	ds, ok := driver.Create(shp, nil)
	if !ok {
		err = ErrGdalDriverCreate
		return
	}
	layer = ds.CreateLayer(utils.GetFilenameWithoutExt(shp), ref, gdal.GT_Polygon, []string{OO_ENCODING_PREFIX + enc})
	return
}

// 将要素写入UTF-8编码的shp，attrs为要写出的字符串属性字段
func (g *GdalToolbox) WriteBoundary(shp string, srid int, attrs []string, features ...Feature) (err error) {
	return g.WriteBoundaryEncoded(shp, SHAPE_ENCODING, srid, attrs, features...)
}

// 同WriteBoundary，属性表按enc编码写出（并生成对应cpg）
func (g *GdalToolbox) WriteBoundaryEncoded(shp, enc string, srid int, attrs []string, features ...Feature) (err error) {
	canon, err := utils.CanonicalEncoding(enc)
	if err != nil {
		err = fmt.Errorf("%w: %q", ErrInvalidEncoding, enc)
		return
	}
	ds, ref, layer, err := g.getShpDriver(shp, canon, srid)
	if err != nil {
		return
	}
	defer ds.Destroy() // 生成shp文件 + 释放资源
	for _, name := range attrs {
		fd := gdal.CreateFieldDefinition(name, gdal.FT_String)
		fd.SetWidth(SHP_FIELD_WIDTH)
		err = layer.CreateField(fd, false)
		fd.Destroy()
		if err != nil {
			log.Error(g.logTag+"create shp field failed", zap.String("field", name), zap.Error(err))
			return
		}
	}
	var (
		def     = layer.Definition()
		feature gdal.Feature
		geo     gdal.Geometry
		raw     []byte
		cnt     int
		e       error
		gc      = make([]destroyable, 0, len(features))
	)
	defer func() {
		destroyAll(gc)
	}()
	for i, f := range features {
		feature = def.Create()
		gc = append(gc, feature)
		if e = feature.SetFID(int64(i)); e != nil {
			log.Error(g.logTag+"err in set feature fid", zap.Error(e))
			continue
		}
		for j, name := range attrs {
			feature.SetFieldString(j, f.Attrs[name])
		}
		if raw, e = wkb.Marshal(f.Geom); e != nil {
			log.Error(g.logTag+"err in wkb encode", zap.Int("idx", i), zap.Error(e))
			continue
		}
		if geo, e = gdal.CreateFromWKB(raw, ref, len(raw)); e != nil {
			log.Error(g.logTag+"parse wkb failed", zap.Error(e))
			continue
		}
		if e = feature.SetGeometryDirectly(geo); e != nil {
			log.Error(g.logTag+"err in set geom of feature", zap.Error(e))
			continue
		}
		if e = layer.Create(feature); e != nil {
			log.Error(g.logTag+"err in create feature of layer", zap.Error(e))
			continue
		}
		cnt++
	}
	log.Info(g.logTag+"shp files created", zap.String("shp", shp), zap.Int("total", len(features)), zap.Int("valid", cnt))
	return
}
