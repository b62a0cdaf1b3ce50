package png

import raster "github.com/aramiscd/gren-image"

const (
	MalformedInput       = raster.MalformedInput
	UnsupportedFeature   = raster.UnsupportedFeature
	DecompressionFailure = raster.DecompressionFailure
)

func pngErr(kind raster.ErrorKind, msg string) *raster.Error {
	return raster.NewError("png", kind, msg)
}
