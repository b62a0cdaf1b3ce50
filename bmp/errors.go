package bmp

import raster "github.com/aramiscd/gren-image"

const (
	MalformedInput     = raster.MalformedInput
	UnsupportedFeature = raster.UnsupportedFeature
)

func bmpErr(kind raster.ErrorKind, msg string) *raster.Error {
	return raster.NewError("bmp", kind, msg)
}
