// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package md2

import "errors"

// ErrUnsupported is returned when the file magic or version is not
// the Quake II "IDP2" version 8 this decoder understands.
var ErrUnsupported = errors.New("md2: unsupported format")

// ErrTruncated is returned when a header offset or count would read
// past the end of the file.
var ErrTruncated = errors.New("md2: truncated file")

// ErrIndexOutOfRange is returned when a face references a vertex or
// texture coordinate index outside its table.
var ErrIndexOutOfRange = errors.New("md2: index out of range")
