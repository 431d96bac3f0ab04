// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package pcx

import "errors"

// ErrUnsupported is returned when the header describes a PCX variant
// outside the supported subset: version 5, 8 bits per pixel, RLE
// encoding, single color plane.
var ErrUnsupported = errors.New("pcx: unsupported format")

// ErrTruncated is returned when the RLE stream or the trailing palette
// block runs out of bytes before the expected amount of data is read.
var ErrTruncated = errors.New("pcx: truncated file")
