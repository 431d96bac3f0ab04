// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package lin provides the linear math needed to pose and project a
// Quake II style character model: 3-element vectors and 3x3 rotation
// matrices built from degree angles.
//
// Package lin is a CPU based math library. Values are float32 to match
// the quantized vertex data decoded from MD2 files.
package lin

import "github.com/chewxy/math32"

// Various linear math constants.
const (
	PI     float32 = math32.Pi
	PIx2   float32 = PI * 2
	DegRad float32 = PIx2 / 360.0 // X degrees * DegRad = Y radians

	// Epsilon is used to distinguish when a float is close enough to a number.
	Epsilon float32 = 0.000001
)

// Rad converts degrees to radians.
func Rad(deg float32) float32 { return deg * DegRad }

// Aeq (~=) almost-equals returns true if the difference between a and b is
// so small that it doesn't matter.
func Aeq(a, b float32) bool { return math32.Abs(a-b) < Epsilon }
