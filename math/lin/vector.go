// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

// Vector performs 3 element vector math needed to pose model vertices
// and derive back-face culling normals.

import "github.com/chewxy/math32"

// V3 is a 3 element vector. This can also be used as a point.
type V3 struct {
	X float32
	Y float32
	Z float32
}

// Eq (==) returns true if each element in the vector v has the same value
// as the corresponding element in vector a.
func (v *V3) Eq(a *V3) bool {
	return v.X == a.X && v.Y == a.Y && v.Z == a.Z
}

// SetS (=) sets the vector elements to the given values.
// The updated vector v is returned.
func (v *V3) SetS(x, y, z float32) *V3 {
	v.X, v.Y, v.Z = x, y, z
	return v
}

// Add (+) adds vectors a and b storing the results of the addition in v.
// Vector v may be used as one or both of the parameters.
// The updated vector v is returned.
func (v *V3) Add(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.X+b.X, a.Y+b.Y, a.Z+b.Z
	return v
}

// Sub (-) subtracts vector b from a storing the results in v.
// Vector v may be used as one or both of the parameters.
// The updated vector v is returned.
func (v *V3) Sub(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return v
}

// Scale (*=) updates the elements in vector v by multiplying the
// corresponding elements in vector a by the given scalar value.
// The updated vector v is returned.
func (v *V3) Scale(a *V3, s float32) *V3 {
	v.X, v.Y, v.Z = a.X*s, a.Y*s, a.Z*s
	return v
}

// Dot vector v with input vector a. Both vectors v and a are unchanged.
func (v *V3) Dot(a *V3) float32 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Cross updates v to be the cross product of vectors a and b.
// A cross product vector is perpendicular to both input vectors.
// Vector v may be used as either input parameter.
// The updated vector v is returned. The result is not normalized:
// face normals derived this way are used only for their sign when
// dotted against a view direction, never for lighting.
func (v *V3) Cross(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.Y*b.Z-a.Z*b.Y, a.Z*b.X-a.X*b.Z, a.X*b.Y-a.Y*b.X
	return v
}

// Len returns the length of vector v. The calling vector v is unchanged.
func (v *V3) Len() float32 { return math32.Sqrt(v.Dot(v)) }

// vector operations
// ============================================================================
// vector-matrix operations

// MultvM updates vector v to be the multiplication of row vector rv
// and matrix m. Vector v may be used as the input vector rv.
// The updated vector v is returned.
//
//	                [ Xx Xy Xz ]
//	[ vx vy vz ] x  [ Yx Yy Yz ] = [ vx' vy' vz' ]
//	                [ Zx Zy Zz ]
func (v *V3) MultvM(rv *V3, m *M3) *V3 {
	x := rv.X*m.Xx + rv.Y*m.Yx + rv.Z*m.Zx
	y := rv.X*m.Xy + rv.Y*m.Yy + rv.Z*m.Zy
	z := rv.X*m.Xz + rv.Y*m.Yz + rv.Z*m.Zz
	v.X, v.Y, v.Z = x, y, z
	return v
}

// NewV3 creates a new, all zero, 3D vector.
func NewV3() *V3 { return &V3{} }

// NewV3S creates a new 3D vector using the given scalars.
func NewV3S(x, y, z float32) *V3 { return &V3{x, y, z} }
