// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Matrix functions deal with 3x3 matrices used to pose model vertices.
//
// Row or Column Major order? This matrix implementation uses explicitly
// indexed, Row-Major, matrix members:
//
//	[Xx, Xy, Xz]  X-Axis
//	[Yx, Yy, Yz]  Y-Axis
//	[Zx, Zy, Zz]  Z-Axis
//
// A row vector (x, y, z) is posed by multiplying on the left of the
// matrix: x' = x*Xx + y*Yx + z*Zx, and similarly for y' and z'. See
// V3.MultvM. This convention must be used consistently end to end or
// the rotated model will come out wrong-handed.

import "github.com/chewxy/math32"

// M3 is a 3x3 matrix where the matrix elements are individually addressable.
type M3 struct {
	Xx, Xy, Xz float32
	Yx, Yy, Yz float32
	Zx, Zy, Zz float32
}

// M3I provides a reference identity matrix that can be used
// in calculations. It should never be changed.
var M3I = &M3{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1}

// Mult updates matrix m to be the multiplication of input matrices l, r.
//
//	[ lXx lXy lXz ] [ rXx rXy rXz ]    [ mXx mXy mXz ]
//	[ lYx lYy lYz ]x[ rYx rYy rYz ] => [ mYx mYy mYz ]
//	[ lZx lZy lZz ] [ rZx rZy rZz ]    [ mZx mZy mZz ]
//
// It is safe to use the calling matrix m as one or both of the parameters.
// The updated matrix m is returned.
func (m *M3) Mult(l, r *M3) *M3 {
	xx := l.Xx*r.Xx + l.Xy*r.Yx + l.Xz*r.Zx
	xy := l.Xx*r.Xy + l.Xy*r.Yy + l.Xz*r.Zy
	xz := l.Xx*r.Xz + l.Xy*r.Yz + l.Xz*r.Zz
	yx := l.Yx*r.Xx + l.Yy*r.Yx + l.Yz*r.Zx
	yy := l.Yx*r.Xy + l.Yy*r.Yy + l.Yz*r.Zy
	yz := l.Yx*r.Xz + l.Yy*r.Yz + l.Yz*r.Zz
	zx := l.Zx*r.Xx + l.Zy*r.Yx + l.Zz*r.Zx
	zy := l.Zx*r.Xy + l.Zy*r.Yy + l.Zz*r.Zy
	zz := l.Zx*r.Xz + l.Zy*r.Yz + l.Zz*r.Zz
	m.Xx, m.Xy, m.Xz = xx, xy, xz
	m.Yx, m.Yy, m.Yz = yx, yy, yz
	m.Zx, m.Zy, m.Zz = zx, zy, zz
	return m
}

// RotateX sets m to the standard right-handed rotation about the X axis,
// affecting the y/z plane. Angle is in degrees.
func (m *M3) RotateX(angle float32) *M3 {
	theta := Rad(angle)
	s, c := math32.Sincos(theta)
	m.Xx, m.Xy, m.Xz = 1, 0, 0
	m.Yx, m.Yy, m.Yz = 0, c, -s
	m.Zx, m.Zy, m.Zz = 0, s, c
	return m
}

// RotateY sets m to the standard right-handed rotation about the Y axis,
// affecting the x/z plane. Angle is in degrees.
func (m *M3) RotateY(angle float32) *M3 {
	theta := Rad(angle)
	s, c := math32.Sincos(theta)
	m.Xx, m.Xy, m.Xz = c, 0, s
	m.Yx, m.Yy, m.Yz = 0, 1, 0
	m.Zx, m.Zy, m.Zz = -s, 0, c
	return m
}

// RotateZ sets m to the standard right-handed rotation about the Z axis,
// affecting the x/y plane. Angle is in degrees.
func (m *M3) RotateZ(angle float32) *M3 {
	theta := Rad(angle)
	s, c := math32.Sincos(theta)
	m.Xx, m.Xy, m.Xz = c, -s, 0
	m.Yx, m.Yy, m.Yz = s, c, 0
	m.Zx, m.Zy, m.Zz = 0, 0, 1
	return m
}

// RotateX returns a new matrix set to the rotation described by RotateX.
func RotateX(angle float32) *M3 { return new(M3).RotateX(angle) }

// RotateY returns a new matrix set to the rotation described by RotateY.
func RotateY(angle float32) *M3 { return new(M3).RotateY(angle) }

// RotateZ returns a new matrix set to the rotation described by RotateZ.
func RotateZ(angle float32) *M3 { return new(M3).RotateZ(angle) }
