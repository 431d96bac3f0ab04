// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package md2

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdraster/md2view/math/lin"
)

type frameSpec struct {
	name      string
	scale     [3]float32
	translate [3]float32
	vertices  [][4]byte
}

// buildMD2 assembles a minimal, valid MD2 file in memory from the given
// frames, faces, and texture coordinates. All frames must carry the
// same vertex count.
func buildMD2(t *testing.T, frames []frameSpec, faces []Face, texCoords []TexCoord) []byte {
	t.Helper()
	numVertices := len(frames[0].vertices)
	frameSize := 3*4 + 3*4 + frameNameSize + numVertices*4

	const prefixSize = 8 + 60 // magic+version, then 15 int32 header fields
	offsetTexCoords := int32(prefixSize)
	offsetFaces := offsetTexCoords + int32(len(texCoords)*4)
	offsetFrames := offsetFaces + int32(len(faces)*12)
	offsetEnd := offsetFrames + int32(len(frames)*frameSize)

	hdr := header{
		SkinWidth:       0,
		SkinHeight:      0,
		FrameSize:       int32(frameSize),
		NumSkins:        0,
		NumVertices:     int32(numVertices),
		NumTexCoords:    int32(len(texCoords)),
		NumFaces:        int32(len(faces)),
		NumGlCommands:   0,
		NumFrames:       int32(len(frames)),
		OffsetSkins:     0,
		OffsetTexCoords: offsetTexCoords,
		OffsetFaces:     offsetFaces,
		OffsetFrames:    offsetFrames,
		OffsetGlCmds:    0,
		OffsetEnd:       offsetEnd,
	}

	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, int32(magic)))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, int32(version)))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, hdr))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, texCoords))
	require.NoError(t, binary.Write(buf, binary.LittleEndian, faces))

	for _, f := range frames {
		require.NoError(t, binary.Write(buf, binary.LittleEndian, f.scale))
		require.NoError(t, binary.Write(buf, binary.LittleEndian, f.translate))
		var name [frameNameSize]byte
		copy(name[:], f.name)
		buf.Write(name[:])
		for _, v := range f.vertices {
			buf.Write(v[:])
		}
	}
	return buf.Bytes()
}

func singleTriangleFixture(names []string) ([]frameSpec, []Face, []TexCoord) {
	faces := []Face{{P1: 0, P2: 1, P3: 2, T1: 0, T2: 1, T3: 2}}
	texCoords := []TexCoord{{S: 0, T: 0}, {S: 1, T: 0}, {S: 0, T: 1}}
	frames := make([]frameSpec, len(names))
	for i, name := range names {
		frames[i] = frameSpec{
			name:      name,
			scale:     [3]float32{1, 1, 1},
			translate: [3]float32{0, 0, 0},
			vertices: [][4]byte{
				{0, 100, 0, 0},
				{10, 100, 0, 0},
				{0, 100, 10, 0},
			},
		}
	}
	return frames, faces, texCoords
}

// go test -run SequenceGrouping: S2.
func TestSequenceGrouping(t *testing.T) {
	frames, faces, texCoords := singleTriangleFixture([]string{"stand1", "stand2", "run1", "run2"})
	raw := buildMD2(t, frames, faces, texCoords)

	data, err := decode(raw)
	require.NoError(t, err)

	require.Len(t, data.Sequences, 2)
	assert.Equal(t, Sequence{Name: "stand", Start: 0, Count: 2}, data.Sequences[0])
	assert.Equal(t, Sequence{Name: "run", Start: 2, Count: 2}, data.Sequences[1])
}

// go test -run Dequantization: S3.
func TestDequantization(t *testing.T) {
	frames := []frameSpec{{
		name:      "pose1",
		scale:     [3]float32{2, 2, 2},
		translate: [3]float32{10, 20, 30},
		vertices:  [][4]byte{{1, 2, 3, 42}},
	}}
	faces := []Face{}
	texCoords := []TexCoord{}
	raw := buildMD2(t, frames, faces, texCoords)

	data, err := decode(raw)
	require.NoError(t, err)

	v := data.Frames[0].Vertices[0]
	assert.Equal(t, FrameVertex{X: 12, Y: 24, Z: 36, LightNormalIndex: 42}, v)
}

// go test -run FaceNormalInvariant: invariant 2.
func TestFaceNormalInvariant(t *testing.T) {
	frames, faces, texCoords := singleTriangleFixture([]string{"pose1"})
	raw := buildMD2(t, frames, faces, texCoords)

	data, err := decode(raw)
	require.NoError(t, err)

	v := data.Frames[0].Vertices
	a := lin.NewV3S(v[1].X-v[0].X, v[1].Y-v[0].Y, v[1].Z-v[0].Z)
	b := lin.NewV3S(v[2].X-v[1].X, v[2].Y-v[1].Y, v[2].Z-v[1].Z)
	want := new(lin.V3).Cross(a, b)

	assert.Equal(t, *want, data.Frames[0].FaceNormals[0])
}

// go test -run IndexOutOfRange
func TestFaceIndexOutOfRange(t *testing.T) {
	frames, faces, texCoords := singleTriangleFixture([]string{"pose1"})
	faces[0].P3 = 99
	raw := buildMD2(t, frames, faces, texCoords)

	_, err := decode(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

// go test -run Unsupported
func TestDecodeUnsupportedVersion(t *testing.T) {
	frames, faces, texCoords := singleTriangleFixture([]string{"pose1"})
	raw := buildMD2(t, frames, faces, texCoords)
	raw[4] = 7 // corrupt version

	_, err := decode(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
}

// go test -run AdvanceFramePeriodicity: invariant 3.
func TestAdvanceFramePeriodicity(t *testing.T) {
	data := &Data{Sequences: []Sequence{{Name: "run", Start: 2, Count: 3}}}
	m := &Model{data: data, currentFrame: 2, currentSequence: 0}

	start := m.currentFrame
	for i := 0; i < data.Sequences[0].Count; i++ {
		m.AdvanceFrame()
	}
	assert.Equal(t, start, m.currentFrame)
}

// go test -run AdvanceSequencePeriodicity: invariant 4.
func TestAdvanceSequencePeriodicity(t *testing.T) {
	data := &Data{Sequences: []Sequence{
		{Name: "a", Start: 0, Count: 1},
		{Name: "b", Start: 1, Count: 1},
		{Name: "c", Start: 2, Count: 1},
	}}
	m := &Model{data: data, currentSequence: 0}

	for i := 0; i < len(data.Sequences); i++ {
		m.AdvanceSequence()
	}
	assert.Equal(t, 0, m.currentSequence)
}

// go test -run PreviousSequenceQuirk: §9 note 2, stepping back from
// sequence index 1 wraps to the last sequence instead of landing on 0.
func TestPreviousSequenceQuirk(t *testing.T) {
	data := &Data{Sequences: []Sequence{
		{Name: "a", Start: 0, Count: 1},
		{Name: "b", Start: 1, Count: 1},
		{Name: "c", Start: 2, Count: 1},
	}}
	m := &Model{data: data, currentSequence: 1}

	m.PreviousSequence()
	assert.Equal(t, len(data.Sequences)-1, m.currentSequence)
}

// go test -run Projection: S4.
func TestProjection(t *testing.T) {
	m := &Model{viewingDistance: -1500}
	p := m.project(lin.V3{X: 100, Y: 500, Z: 200})
	assert.Equal(t, -300, p.X)
	assert.Equal(t, -600, p.Y)
}

// go test -run WireframeTexturedEquivalence: invariant 7.
func TestWireframeTexturedEquivalence(t *testing.T) {
	frames, faces, texCoords := singleTriangleFixture([]string{"pose1"})
	raw := buildMD2(t, frames, faces, texCoords)
	data, err := decode(raw)
	require.NoError(t, err)

	m := newModel(data, nil)
	m.SetRenderType(Wireframe)
	wireCount := 0
	for range m.TrianglesInFrame() {
		wireCount++
	}
	assert.Equal(t, len(faces), wireCount)

	m.SetRenderType(Textured)
	n := data.Frames[0].FaceNormals[0]
	objectViewer := &m.viewerOrigin // no rotation applied, identity pose
	expectVisible := objectViewer.Dot(&n) < 0

	texturedCount := 0
	for range m.TrianglesInFrame() {
		texturedCount++
	}
	if expectVisible {
		assert.Equal(t, 1, texturedCount)
	} else {
		assert.Equal(t, 0, texturedCount)
	}
}
