package tifoverlay

import (
	"errors"

	"github.com/wgdzlh/tifoverlay/grid"
)

var (
	ErrLoad                = errors.New("load input failed")
	ErrEmptySelection      = errors.New("boundary selection is empty")
	ErrPrecheck            = errors.New("composite inputs not loaded")
	ErrShapeMismatch       = grid.ErrShapeMismatch
	ErrNoOverlap           = grid.ErrNoOverlap
	ErrColumnMissing       = errors.New("boundary attribute missing")
	ErrGdalDriverOpen      = errors.New("gdal driver open err")
	ErrGdalDriverCreate    = errors.New("gdal driver create err")
	ErrVoidSrid            = errors.New("gdal shp with void srid")
	ErrEmptyTif            = errors.New("empty tif")
	ErrUnsupportedDataType = errors.New("unsupported raster data type")
	ErrUnsupportedVector   = errors.New("unsupported vector format")
	ErrInvalidConfig       = errors.New("invalid config")
	ErrInvalidEncoding     = errors.New("invalid boundary encoding")
	ErrWriteFailed         = errors.New("write raster failed")
)
