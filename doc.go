// Package raster is a pure-library image codec. It decodes and encodes
// raster images in three container formats — PNG, BMP, and GIF89a — through
// a uniform in-memory abstraction: a rectangular grid of 32-bit RGBA pixels
// plus the header metadata the image was parsed from.
//
// Format-specific decoders live in the png, bmp and gif subpackages and
// produce a raster.Image. Format-specific encoders consume one. This package
// holds the shared abstraction (Pixel, Array2D, Meta, Image) and the
// pixel-domain manipulations (Get to crop, Put to paste, Mirror, Map) that
// operate on it.
//
// Decoding is lazy: a decoder parses the header eagerly but only unpacks
// pixels when something forces the image (Eval, Map, Get, Put, Mirror, or an
// encoder). This mirrors the split between header parsing and pixel decoding
// that every format in this library keeps internally.
package raster
