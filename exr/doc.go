// Package exr reads and writes single-part scanline OpenEXR files holding
// one luminance channel, the format used to store equirectangular
// stimulus images.
//
// Files written by this package carry the full set of required header
// attributes plus an optional comments string and an envmap attribute
// marking the image as a latitude-longitude environment map, so standard
// viewers display them as spheres.
//
//	h := exr.NewScanlineHeader(img.Width, img.Height)
//	h.Comments = "seed 42"
//	err := exr.WriteFile("stimulus.exr", h, img.Float32())
//
// Reading supports the same subset: one channel, HALF or FLOAT pixels,
// and NONE, RLE, ZIPS or ZIP compression. Tiled, deep and multi-part
// files are rejected.
package exr
