// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package pcx decodes the 8-bit, run-length-encoded PCX images used as
// Quake II skins. Package pcx is provided as part of a model and
// rasterizer pipeline in the style of the vu (virtual universe) loaders.
package pcx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// rleMarker bits flag a byte as a run-length-encoded run rather than a
// literal palette index: a byte with both top bits set (>= 192) starts
// a run of (byte-192) repeats of the following byte.
const rleMarker = 0xC0

// paletteSize is the number of (R,G,B) entries in the trailing palette
// block, always found at file_length-768.
const paletteSize = 256

// header is the 128 byte PCX file header, little-endian throughout.
type header struct {
	Manufacturer byte
	Version      byte
	Encoding     byte
	BitsPerPixel byte
	XMin, YMin   uint16
	XMax, YMax   uint16
	HRes, VRes   uint16
	EgaPalette   [48]byte
	Reserved     byte
	ColorPlanes  byte
	BytesPerLine uint16
	PaletteType  uint16
	Filler       [58]byte
}

// RGB is one palette entry.
type RGB struct {
	R, G, B uint8
}

// Image is a decoded PCX image: an 8-bit paletted bitmap plus its
// 256-entry RGB palette.
//
// Pixels are stored column-major, Pixels[x][y], matching the sampling
// convention the rasterizer uses when it walks texture coordinates:
// the first index is always the X texture coordinate. Decoder, skin
// vertex assignment, and rasterizer sampling must agree on this or the
// texture comes out transposed.
type Image struct {
	Width, Height int
	Pixels        [][]uint8 // Pixels[x][y], x in [0,Width), y in [0,Height)
	Palette       [paletteSize]RGB
}

// At returns the palette-resolved color for the pixel closest to the
// given (possibly fractional) texture coordinate. Coordinates are
// rounded, not clamped: callers are expected to keep them in range.
func (img *Image) At(x, y float32) RGB {
	ix := int(x + 0.5)
	iy := int(y + 0.5)
	idx := img.Pixels[ix][iy]
	return img.Palette[idx]
}

// Decode reads one PCX v5, 8-bit, single-plane, RLE-encoded image.
// It fails with ErrUnsupported if the header does not describe that
// exact subset of the format, and with ErrTruncated if the RLE stream
// or the trailing palette block runs out of data first.
func Decode(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pcx: read: %w", err)
	}
	if len(data) < 128+paletteSize*3 {
		return nil, fmt.Errorf("pcx: file too short: %w", ErrTruncated)
	}

	hdr := &header{}
	if err := binary.Read(bytes.NewReader(data[:128]), binary.LittleEndian, hdr); err != nil {
		return nil, fmt.Errorf("pcx: invalid header: %w", err)
	}
	if hdr.Version != 5 || hdr.BitsPerPixel != 8 || hdr.Encoding != 1 || hdr.ColorPlanes != 1 {
		return nil, fmt.Errorf("pcx: unsupported version=%d bpp=%d encoding=%d planes=%d: %w",
			hdr.Version, hdr.BitsPerPixel, hdr.Encoding, hdr.ColorPlanes, ErrUnsupported)
	}

	width := int(hdr.XMax) - int(hdr.XMin) + 1
	height := int(hdr.YMax) - int(hdr.YMin) + 1

	pixels, err := decodeRLE(data[128:], width, height)
	if err != nil {
		return nil, err
	}

	palette, err := decodePalette(data)
	if err != nil {
		return nil, err
	}

	return &Image{Width: width, Height: height, Pixels: pixels, Palette: palette}, nil
}

// decodeRLE decodes the run-length-encoded body into column-major
// pixels (outer index x, inner index y) as required by the rasterizer's
// sampling convention. body starts immediately after the 128 byte header.
func decodeRLE(body []byte, width, height int) ([][]uint8, error) {
	pixels := make([][]uint8, width)
	for x := range pixels {
		pixels[x] = make([]uint8, height)
	}

	total := width * height
	pos := 0
	decoded := 0
	next := func() (byte, bool) {
		if pos >= len(body) {
			return 0, false
		}
		b := body[pos]
		pos++
		return b, true
	}
	put := func(v byte) {
		x := decoded / height
		y := decoded % height
		pixels[x][y] = v
		decoded++
	}

	for decoded < total {
		b, ok := next()
		if !ok {
			return nil, fmt.Errorf("pcx: decoded %d of %d bytes: %w", decoded, total, ErrTruncated)
		}
		if b >= rleMarker {
			count := int(b - rleMarker)
			v, ok := next()
			if !ok {
				return nil, fmt.Errorf("pcx: run missing value byte: %w", ErrTruncated)
			}
			for i := 0; i < count && decoded < total; i++ {
				put(v)
			}
		} else {
			put(b)
		}
	}
	return pixels, nil
}

// decodePalette reads the trailing 768 byte palette, always located
// 768 bytes before the end of the file regardless of where the RLE
// stream actually stopped.
func decodePalette(data []byte) ([paletteSize]RGB, error) {
	var palette [paletteSize]RGB
	offset := len(data) - paletteSize*3
	if offset < 0 {
		return palette, fmt.Errorf("pcx: file too short for palette: %w", ErrTruncated)
	}
	block := data[offset:]
	for i := 0; i < paletteSize; i++ {
		palette[i] = RGB{R: block[i*3], G: block[i*3+1], B: block[i*3+2]}
	}
	return palette, nil
}
