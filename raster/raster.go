// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package raster is a single-pass edge-walking scanline rasterizer for
// affine-textured triangles. It uses a fixed-point Bresenham DDA for
// the destination X coordinate and a floating-point DDA for texture
// coordinates, clipped to a rectangular viewport.
package raster

import "github.com/mdraster/md2view/pcx"

// ScreenPoint is an integer destination coordinate.
type ScreenPoint struct {
	X, Y int
}

// TexPoint is a fractional source coordinate into a skin image.
type TexPoint struct {
	X, Y float32
}

// Viewport is a clip rectangle, min inclusive, max exclusive.
type Viewport struct {
	Min, Max ScreenPoint
}

// Face is one projected, textured triangle ready to rasterize.
type Face struct {
	ScreenVerts [3]ScreenPoint
	SkinVerts   [3]TexPoint
	Texture     *pcx.Image
}

// Framebuffer is a mutable W x H grid of 0xFF_RR_GG_BB pixels,
// addressed buffer[y][x]. Ownership stays with the caller; the
// rasterizer only ever writes within its configured clip rect.
type Framebuffer struct {
	Width, Height int
	Pixels        []uint32 // row-major, index = y*Width+x
}

// NewFramebuffer allocates a zeroed W x H framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{Width: width, Height: height, Pixels: make([]uint32, width*height)}
}

// At returns the pixel at (x, y).
func (fb *Framebuffer) At(x, y int) uint32 { return fb.Pixels[y*fb.Width+x] }

func (fb *Framebuffer) set(x, y int, v uint32) { fb.Pixels[y*fb.Width+x] = v }

// Rasterizer draws textured triangles into a framebuffer, clipped to
// a configured viewport.
type Rasterizer struct {
	clip Viewport
}

// NewRasterizer returns a Rasterizer with a zero-sized clip rect; call
// SetClip before drawing.
func NewRasterizer() *Rasterizer { return &Rasterizer{} }

// SetClip stores the viewport subsequent draws are clipped to.
func (r *Rasterizer) SetClip(min, max ScreenPoint) {
	r.clip = Viewport{Min: min, Max: max}
}

// edgeScan tracks the incremental state of one triangle side as the
// scanline walks from its top vertex toward its bottom.
type edgeScan struct {
	direction      int
	remainingScans int
	currentEnd     int

	sourceX, sourceY         float32
	sourceStepX, sourceStepY float32

	destX         int
	destXIntStep  int
	destXDir      int
	destXErrTerm  int
	destXAdjUp    int
	destXAdjDown  int
}

// DrawTexturedTriangle fills the interior of face.ScreenVerts, sampling
// face.Texture via face.SkinVerts, clipped to the rasterizer's viewport.
// Degenerate triangles (zero vertical extent) are a silent no-op.
func (r *Rasterizer) DrawTexturedTriangle(face Face, fb *Framebuffer) {
	minY, maxY := 1<<31-1, -(1 << 31)
	minVert, maxVert := 0, 0
	for i := 0; i < 3; i++ {
		y := face.ScreenVerts[i].Y
		if y < minY {
			minY = y
			minVert = i
		}
		if y > maxY {
			maxY = y
			maxVert = i
		}
	}
	if minY >= maxY {
		return
	}

	left := &edgeScan{direction: -1}
	right := &edgeScan{direction: 1}
	if !setupEdge(left, face, minVert, maxVert) {
		return
	}
	if !setupEdge(right, face, minVert, maxVert) {
		return
	}

	for destY := minY; ; destY++ {
		if destY >= r.clip.Max.Y {
			return
		}
		if destY >= r.clip.Min.Y {
			r.scanRow(face, left, right, fb, destY)
		}
		if !stepEdge(left, face, maxVert) {
			return
		}
		if !stepEdge(right, face, maxVert) {
			return
		}
	}
}

// scanRow fills one destination row between the two edges' current X,
// stepping texture coordinates with a half-pixel sampling bias.
func (r *Rasterizer) scanRow(face Face, left, right *edgeScan, fb *Framebuffer, destY int) {
	destX := left.destX
	destXMax := right.destX

	if destXMax <= r.clip.Min.X || destX > r.clip.Max.X {
		return
	}
	if destXMax-destX <= 0 {
		return
	}

	sourceX, sourceY := left.sourceX, left.sourceY
	width := float32(destXMax - destX)
	stepX := (right.sourceX - sourceX) / width
	stepY := (right.sourceY - sourceY) / width

	sourceX += stepX * 0.5
	sourceY += stepY * 0.5

	if destXMax > r.clip.Max.X {
		destXMax = r.clip.Max.X
	}
	if destX < r.clip.Min.X {
		count := r.clip.Min.X - destX
		sourceX += stepX * float32(count)
		sourceY += stepY * float32(count)
		destX = r.clip.Min.X
	}

	tex := face.Texture
	for x := destX; x < destXMax; x++ {
		color := tex.At(sourceX, sourceY)
		fb.set(x, destY, 0xFF000000|uint32(color.R)<<16|uint32(color.G)<<8|uint32(color.B))
		sourceX += stepX
		sourceY += stepY
	}
}

// setupEdge seeks forward from startVertex in edge.direction for the
// first side with non-zero vertical extent and initializes its DDA
// state. It returns false once startVertex reaches maxVertex with no
// side left to walk.
func setupEdge(edge *edgeScan, face Face, startVertex, maxVertex int) bool {
	for {
		if startVertex == maxVertex {
			return false
		}
		nextVertex := startVertex + edge.direction
		if nextVertex > 2 {
			nextVertex = 0
		} else if nextVertex < 0 {
			nextVertex = 2
		}

		a := face.ScreenVerts[startVertex]
		b := face.ScreenVerts[nextVertex]
		edge.remainingScans = b.Y - a.Y
		if edge.remainingScans != 0 {
			height := float32(edge.remainingScans)
			edge.currentEnd = nextVertex
			edge.sourceX = face.SkinVerts[startVertex].X
			edge.sourceY = face.SkinVerts[startVertex].Y
			edge.sourceStepX = (face.SkinVerts[nextVertex].X - edge.sourceX) / height
			edge.sourceStepY = (face.SkinVerts[nextVertex].Y - edge.sourceY) / height
			edge.destX = a.X

			width := b.X - a.X
			if width < 0 {
				edge.destXDir = -1
				width = -width
				edge.destXErrTerm = 1 - edge.remainingScans
				edge.destXIntStep = -floorDiv(width, edge.remainingScans)
			} else {
				edge.destXDir = 1
				edge.destXErrTerm = 0
				edge.destXIntStep = floorDiv(width, edge.remainingScans)
			}
			edge.destXAdjUp = floorMod(width, edge.remainingScans)
			edge.destXAdjDown = edge.remainingScans
			return true
		}
		startVertex = nextVertex
	}
}

// stepEdge advances edge by one scanline, re-running setupEdge on the
// next triangle side once the current one is exhausted.
func stepEdge(edge *edgeScan, face Face, maxVertex int) bool {
	edge.remainingScans--
	if edge.remainingScans <= 0 {
		return setupEdge(edge, face, edge.currentEnd, maxVertex)
	}
	edge.sourceX += edge.sourceStepX
	edge.sourceY += edge.sourceStepY
	edge.destX += edge.destXIntStep
	edge.destXErrTerm += edge.destXAdjUp
	if edge.destXErrTerm > 0 {
		edge.destX += edge.destXDir
		edge.destXErrTerm -= edge.destXAdjDown
	}
	return true
}

// floorDiv and floorMod emulate Python's floor-toward-negative-infinity
// integer division, which the edge walk relies on for its direction
// near the triangle's apex. Go's / and % truncate toward zero instead.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}
