package gif

import raster "github.com/aramiscd/gren-image"

const (
	MalformedInput     = raster.MalformedInput
	UnsupportedFeature = raster.UnsupportedFeature
	LZWProtocolError   = raster.LZWProtocolError
)

func gifErr(kind raster.ErrorKind, msg string) *raster.Error {
	return raster.NewError("gif", kind, msg)
}
