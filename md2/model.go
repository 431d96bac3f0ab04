// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package md2

import (
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/mdraster/md2view/math/lin"
	"github.com/mdraster/md2view/pcx"
	"github.com/mdraster/md2view/raster"
)

// defaultViewingDistance is the simplified perspective projection's
// distance term; negative because the camera looks down -Y.
const defaultViewingDistance float32 = -1500

// RenderType selects how triangles_in_frame culls and projects faces.
type RenderType int

const (
	// Textured performs back-face culling against object_viewer.
	Textured RenderType = iota
	// Wireframe takes every face as visible, skipping culling.
	Wireframe
)

// ProjectedTriangle is one culled, posed, and screen-projected face,
// ready to hand to a Rasterizer. Its Texture reference borrows the
// owning Model's PCX image and is only valid for the render call that
// produced it.
type ProjectedTriangle struct {
	ZCenter float32
	Face    raster.Face
}

// Option configures a Model at construction time.
type Option func(*Model)

// WithViewingDistance overrides the default -1500 projection constant.
func WithViewingDistance(d float32) Option {
	return func(m *Model) { m.viewingDistance = d }
}

// WithViewerOrigin overrides the default (0,150,0) object_viewer origin.
func WithViewerOrigin(origin lin.V3) Option {
	return func(m *Model) { m.viewerOrigin = origin }
}

// Model holds one decoded MD2 animation plus its PCX skin, and the
// mutable pose/frame state used to pull projected triangles from it.
type Model struct {
	data    *Data
	texture *pcx.Image

	rotation    lin.V3 // degrees
	scale       float32
	translation lin.V3

	currentFrame    int
	currentSequence int
	renderType      RenderType

	world        []lin.V3
	shouldRotate []bool

	viewingDistance float32
	viewerOrigin    lin.V3
}

// Load reads and decodes an MD2 model and its PCX skin from disk.
func Load(md2Path, pcxPath string, opts ...Option) (*Model, error) {
	md2File, err := os.Open(md2Path)
	if err != nil {
		return nil, fmt.Errorf("md2: open %s: %w", md2Path, err)
	}
	defer md2File.Close()

	pcxFile, err := os.Open(pcxPath)
	if err != nil {
		return nil, fmt.Errorf("md2: open %s: %w", pcxPath, err)
	}
	defer pcxFile.Close()

	return LoadFrom(md2File, pcxFile, opts...)
}

// LoadFrom decodes a model from already-open readers, for callers that
// don't have the data on a filesystem (e.g. tests, embedded assets).
func LoadFrom(md2r, pcxr io.Reader, opts ...Option) (*Model, error) {
	data, err := decodeReader(md2r)
	if err != nil {
		return nil, err
	}
	texture, err := pcx.Decode(pcxr)
	if err != nil {
		return nil, fmt.Errorf("md2: decode skin: %w", err)
	}
	return newModel(data, texture, opts...), nil
}

func newModel(data *Data, texture *pcx.Image, opts ...Option) *Model {
	m := &Model{
		data:            data,
		texture:         texture,
		scale:           1,
		renderType:      Textured,
		viewingDistance: defaultViewingDistance,
		viewerOrigin:    lin.V3{X: 0, Y: 150, Z: 0},
		world:           make([]lin.V3, data.Header.NumVertices),
		shouldRotate:    make([]bool, data.Header.NumVertices),
	}
	if len(data.Sequences) > 0 {
		m.currentFrame = data.Sequences[0].Start
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Data exposes the immutable decoded MD2 content.
func (m *Model) Data() *Data { return m.data }

// CurrentFrame is the index into Data().Frames the model will render next.
func (m *Model) CurrentFrame() int { return m.currentFrame }

// CurrentSequence is the index into Data().Sequences the model is playing.
func (m *Model) CurrentSequence() int { return m.currentSequence }

// Rotate replaces the pose rotation outright, in degrees about each axis.
func (m *Model) Rotate(ax, ay, az float32) { m.rotation = lin.V3{X: ax, Y: ay, Z: az} }

// SetScale replaces the pose's uniform scale outright.
func (m *Model) SetScale(s float32) { m.scale = s }

// Translate replaces the pose translation outright.
func (m *Model) Translate(tx, ty, tz float32) { m.translation = lin.V3{X: tx, Y: ty, Z: tz} }

// SetRenderType switches between Textured (culled) and Wireframe (all
// faces) triangle emission.
func (m *Model) SetRenderType(rt RenderType) { m.renderType = rt }

// AdvanceFrame moves to the next frame in the current sequence,
// wrapping back to the sequence's start once it runs past the end.
func (m *Model) AdvanceFrame() {
	seq := m.data.Sequences[m.currentSequence]
	m.currentFrame++
	if m.currentFrame >= seq.Start+seq.Count {
		m.currentFrame = seq.Start
	}
}

// AdvanceSequence moves to the next sequence, wrapping to 0, and resets
// the current frame to that sequence's first frame.
func (m *Model) AdvanceSequence() {
	m.currentSequence = (m.currentSequence + 1) % len(m.data.Sequences)
	m.currentFrame = m.data.Sequences[m.currentSequence].Start
}

// PreviousSequence moves to the prior sequence. It preserves a quirk of
// the source: the wrap check is "new index <= 0", not "< 0", so moving
// back from sequence 1 also wraps to the last sequence instead of
// landing on 0.
func (m *Model) PreviousSequence() {
	next := m.currentSequence - 1
	if next <= 0 {
		next = len(m.data.Sequences) - 1
	}
	m.currentSequence = next
	m.currentFrame = m.data.Sequences[next].Start
}

// TrianglesInFrame culls, poses, and projects the current frame's
// faces, yielding them lazily in face order. Each call re-evaluates
// culling against the model's current frame and pose; the sequence is
// not restartable once consumed.
func (m *Model) TrianglesInFrame() iter.Seq[ProjectedTriangle] {
	return func(yield func(ProjectedTriangle) bool) {
		frame := m.data.Frames[m.currentFrame]

		rx := lin.RotateX(m.rotation.X)
		ry := lin.RotateY(m.rotation.Y)
		rz := lin.RotateZ(m.rotation.Z)
		r := new(lin.M3).Mult(rx, new(lin.M3).Mult(ry, rz))

		objectViewer := new(lin.V3).MultvM(&m.viewerOrigin, r)

		for i := range m.shouldRotate {
			m.shouldRotate[i] = false
		}

		var visible []int
		switch m.renderType {
		case Wireframe:
			for i := range m.shouldRotate {
				m.shouldRotate[i] = true
			}
			visible = make([]int, len(m.data.Faces))
			for i := range visible {
				visible[i] = i
			}
		case Textured:
			for fi, face := range m.data.Faces {
				n := frame.FaceNormals[fi]
				if objectViewer.Dot(&n) < 0 {
					visible = append(visible, fi)
					m.shouldRotate[face.P1] = true
					m.shouldRotate[face.P2] = true
					m.shouldRotate[face.P3] = true
				}
			}
		}

		for i, v := range frame.Vertices {
			if !m.shouldRotate[i] {
				continue
			}
			scaled := lin.NewV3S(v.X*m.scale, v.Y*m.scale, v.Z*m.scale)
			rotated := new(lin.V3).MultvM(scaled, r)
			m.world[i] = *new(lin.V3).Add(rotated, &m.translation)
		}

		for _, fi := range visible {
			face := m.data.Faces[fi]
			w1, w2, w3 := m.world[face.P1], m.world[face.P2], m.world[face.P3]

			// Preserved from the source: only the third term is divided by 3.
			zCenter := w1.Y + w2.Y + w3.Y/3

			rf := raster.Face{
				ScreenVerts: [3]raster.ScreenPoint{
					m.project(w1), m.project(w2), m.project(w3),
				},
				SkinVerts: [3]raster.TexPoint{
					skinPoint(m.data.TexCoords[face.T1]),
					skinPoint(m.data.TexCoords[face.T2]),
					skinPoint(m.data.TexCoords[face.T3]),
				},
				Texture: m.texture,
			}
			if !yield(ProjectedTriangle{ZCenter: zCenter, Face: rf}) {
				return
			}
		}
	}
}

func (m *Model) project(w lin.V3) raster.ScreenPoint {
	return raster.ScreenPoint{
		X: int(w.X / w.Y * m.viewingDistance),
		Y: int(w.Z / w.Y * m.viewingDistance),
	}
}

func skinPoint(tc TexCoord) raster.TexPoint {
	return raster.TexPoint{X: float32(tc.S), Y: float32(tc.T)}
}
