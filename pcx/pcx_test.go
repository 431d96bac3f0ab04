// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package pcx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPCX assembles a minimal, valid PCX file in memory: a 128 byte
// header describing the given dimensions, the given RLE body, and a
// 768 byte palette with the given overrides.
func buildPCX(t *testing.T, width, height int, body []byte, overrides map[int]RGB) []byte {
	t.Helper()
	hdr := header{
		Manufacturer: 10,
		Version:      5,
		Encoding:     1,
		BitsPerPixel: 8,
		XMin:         0,
		YMin:         0,
		XMax:         uint16(width - 1),
		YMax:         uint16(height - 1),
		ColorPlanes:  1,
	}
	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, hdr))
	buf.Write(body)

	palette := make([]byte, paletteSize*3)
	for i, rgb := range overrides {
		palette[i*3] = rgb.R
		palette[i*3+1] = rgb.G
		palette[i*3+2] = rgb.B
	}
	buf.Write(palette)
	return buf.Bytes()
}

// go test -run Decode_S1: scenario S1 from the spec, a 2x2 image whose
// RLE body is a run of two followed by two literals.
func TestDecode_S1(t *testing.T) {
	body := []byte{0xC2, 0x05, 0x07, 0x09}
	overrides := map[int]RGB{
		5: {R: 10, G: 20, B: 30},
		7: {R: 40, G: 50, B: 60},
		9: {R: 70, G: 80, B: 90},
	}
	raw := buildPCX(t, 2, 2, body, overrides)

	img, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.EqualValues(t, 5, img.Pixels[0][0])
	assert.EqualValues(t, 5, img.Pixels[0][1])
	assert.EqualValues(t, 7, img.Pixels[1][0])
	assert.EqualValues(t, 9, img.Pixels[1][1])
	assert.Equal(t, RGB{R: 10, G: 20, B: 30}, img.Palette[5])
}

// go test -run Decode_Roundtrip: property 5, decoded byte count always
// equals width*height regardless of how the RLE stream chooses to pack it.
func TestDecode_Roundtrip(t *testing.T) {
	// 3x2 image, one run of 4 and 2 literals = 6 decoded bytes.
	body := []byte{0xC4, 0x01, 0x02, 0x03}
	raw := buildPCX(t, 3, 2, body, nil)

	img, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	count := 0
	for x := 0; x < img.Width; x++ {
		count += len(img.Pixels[x])
	}
	assert.Equal(t, img.Width*img.Height, count)
}

// go test -run Decode_ZeroRun: a zero-count run contributes no pixels
// but still consumes its two header bytes.
func TestDecode_ZeroRun(t *testing.T) {
	// run of 0 fives, then 4 literals to fill a 2x2 image.
	body := []byte{0xC0, 0x05, 0x01, 0x02, 0x03, 0x04}
	raw := buildPCX(t, 2, 2, body, nil)

	img, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.EqualValues(t, 1, img.Pixels[0][0])
	assert.EqualValues(t, 2, img.Pixels[0][1])
	assert.EqualValues(t, 3, img.Pixels[1][0])
	assert.EqualValues(t, 4, img.Pixels[1][1])
}

// go test -run Decode_Unsupported
func TestDecode_Unsupported(t *testing.T) {
	raw := buildPCX(t, 1, 1, []byte{0x00}, nil)
	raw[1] = 3 // corrupt the version field.

	_, err := Decode(bytes.NewReader(raw))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

// go test -run Decode_Truncated. The trailing palette block always
// supplies 768 bytes after the header, so a short RLE body only
// surfaces as truncation once the image needs more pixels than the
// body plus palette bytes can cover.
func TestDecode_Truncated(t *testing.T) {
	raw := buildPCX(t, 40, 40, []byte{0x00, 0x00}, nil) // 1600 pixels needed, ~770 bytes available.

	_, err := Decode(bytes.NewReader(raw))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTruncated))
}
