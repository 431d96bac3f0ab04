// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package md2 decodes Quake II MD2 character models: a binary header,
// a texture coordinate table, a face table, and per-frame 8-bit
// quantized vertex positions, grouped into named animation sequences.
package md2

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"regexp"

	"github.com/mdraster/md2view/math/lin"
)

// magic is the 4 byte file identifier, "IDP2" read as a little-endian u32.
const magic = 0x32504449

// version is the only supported MD2 revision.
const version = 8

// frameNameSize is the fixed width of a frame's NUL-padded name field.
const frameNameSize = 16

// header mirrors the 15 little-endian int32 fields of an MD2 file,
// immediately following the 8 byte magic+version prefix.
type header struct {
	SkinWidth       int32
	SkinHeight      int32
	FrameSize       int32
	NumSkins        int32
	NumVertices     int32
	NumTexCoords    int32
	NumFaces        int32
	NumGlCommands   int32
	NumFrames       int32
	OffsetSkins     int32
	OffsetTexCoords int32
	OffsetFaces     int32
	OffsetFrames    int32
	OffsetGlCmds    int32
	OffsetEnd       int32
}

// TexCoord is a raw texel coordinate into the skin image.
type TexCoord struct {
	S, T int16
}

// Face indexes three vertices and three texture coordinates. Winding
// order of p1,p2,p3 defines the outward face normal.
type Face struct {
	P1, P2, P3 int16
	T1, T2, T3 int16
}

// FrameVertex is one dequantized vertex position plus the lighting
// normal index the source format carries but this pipeline never uses.
type FrameVertex struct {
	X, Y, Z          float32
	LightNormalIndex uint8
}

// Frame is one fully decoded animation frame: a name, its dequantized
// vertices, and the per-face normals computed from those vertices.
type Frame struct {
	Name        string
	Vertices    []FrameVertex
	FaceNormals []lin.V3
}

// Sequence is a contiguous run of frames sharing a common name with
// every non-letter removed, e.g. "stand1".."stand9" collapse to "stand".
type Sequence struct {
	Name  string
	Start int
	Count int
}

// Data is the immutable, fully decoded content of one MD2 file.
type Data struct {
	Header     header
	TexCoords  []TexCoord
	Faces      []Face
	Frames     []Frame
	Sequences  []Sequence
}

var nonLetter = regexp.MustCompile(`[^A-Za-z]`)

// sequenceName strips every non-letter character from a frame name,
// collapsing e.g. "run1", "run2", ... to the shared sequence name "run".
func sequenceName(frameName string) string {
	return nonLetter.ReplaceAllString(frameName, "")
}

// decode parses a complete MD2 file already read into memory.
func decode(data []byte) (*Data, error) {
	r := bytes.NewReader(data)

	var magicVersion [2]int32
	if err := binary.Read(r, binary.LittleEndian, &magicVersion); err != nil {
		return nil, fmt.Errorf("md2: read magic: %w", err)
	}
	if magicVersion[0] != magic || magicVersion[1] != version {
		return nil, fmt.Errorf("md2: magic=%x version=%d: %w", magicVersion[0], magicVersion[1], ErrUnsupported)
	}

	var hdr header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("md2: read header: %w", err)
	}

	texCoords, err := decodeTexCoords(data, &hdr)
	if err != nil {
		return nil, err
	}
	faces, err := decodeFaces(data, &hdr, len(texCoords))
	if err != nil {
		return nil, err
	}
	frames, err := decodeFrames(data, &hdr, faces)
	if err != nil {
		return nil, err
	}
	sequences := deriveSequences(frames)

	return &Data{
		Header:    hdr,
		TexCoords: texCoords,
		Faces:     faces,
		Frames:    frames,
		Sequences: sequences,
	}, nil
}

// sliceAt returns the n*size bytes starting at offset, failing with
// ErrTruncated if that range runs past the end of data.
func sliceAt(data []byte, offset, n, size int) ([]byte, error) {
	end := offset + n*size
	if offset < 0 || n < 0 || end > len(data) {
		return nil, fmt.Errorf("md2: range [%d,%d) exceeds file length %d: %w", offset, end, len(data), ErrTruncated)
	}
	return data[offset:end], nil
}

func decodeTexCoords(data []byte, hdr *header) ([]TexCoord, error) {
	raw, err := sliceAt(data, int(hdr.OffsetTexCoords), int(hdr.NumTexCoords), 4)
	if err != nil {
		return nil, fmt.Errorf("md2: tex coords: %w", err)
	}
	out := make([]TexCoord, hdr.NumTexCoords)
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("md2: tex coords: %w", err)
	}
	return out, nil
}

func decodeFaces(data []byte, hdr *header, numTexCoords int) ([]Face, error) {
	raw, err := sliceAt(data, int(hdr.OffsetFaces), int(hdr.NumFaces), 12)
	if err != nil {
		return nil, fmt.Errorf("md2: faces: %w", err)
	}
	out := make([]Face, hdr.NumFaces)
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("md2: faces: %w", err)
	}
	for i, f := range out {
		if int(f.P1) >= int(hdr.NumVertices) || int(f.P2) >= int(hdr.NumVertices) || int(f.P3) >= int(hdr.NumVertices) ||
			f.P1 < 0 || f.P2 < 0 || f.P3 < 0 {
			return nil, fmt.Errorf("md2: face %d vertex index out of range: %w", i, ErrIndexOutOfRange)
		}
		if int(f.T1) >= numTexCoords || int(f.T2) >= numTexCoords || int(f.T3) >= numTexCoords ||
			f.T1 < 0 || f.T2 < 0 || f.T3 < 0 {
			return nil, fmt.Errorf("md2: face %d tex coord index out of range: %w", i, ErrIndexOutOfRange)
		}
	}
	return out, nil
}

func decodeFrames(data []byte, hdr *header, faces []Face) ([]Frame, error) {
	frameSize := int(hdr.FrameSize)
	numVertices := int(hdr.NumVertices)
	raw, err := sliceAt(data, int(hdr.OffsetFrames), int(hdr.NumFrames), frameSize)
	if err != nil {
		return nil, fmt.Errorf("md2: frames: %w", err)
	}

	frames := make([]Frame, hdr.NumFrames)
	for i := range frames {
		record := raw[i*frameSize : (i+1)*frameSize]
		frame, err := decodeFrame(record, numVertices)
		if err != nil {
			return nil, fmt.Errorf("md2: frame %d: %w", i, err)
		}
		frame.FaceNormals = computeFaceNormals(frame.Vertices, faces)
		frames[i] = frame
	}
	return frames, nil
}

// decodeFrame parses one frame record: scale, translate, name, then
// num_vertices packed (bx,by,bz,n) quads dequantized against scale/translate.
func decodeFrame(record []byte, numVertices int) (Frame, error) {
	const fixedPart = 3*4 + 3*4 + frameNameSize
	if len(record) < fixedPart+numVertices*4 {
		return Frame{}, ErrTruncated
	}

	r := bytes.NewReader(record)
	var scale, translate [3]float32
	if err := binary.Read(r, binary.LittleEndian, &scale); err != nil {
		return Frame{}, fmt.Errorf("scale: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &translate); err != nil {
		return Frame{}, fmt.Errorf("translate: %w", err)
	}
	var rawName [frameNameSize]byte
	if err := binary.Read(r, binary.LittleEndian, &rawName); err != nil {
		return Frame{}, fmt.Errorf("name: %w", err)
	}
	name := string(bytes.TrimRight(rawName[:], "\x00"))

	vertices := make([]FrameVertex, numVertices)
	for i := range vertices {
		var quad [4]byte
		if err := binary.Read(r, binary.LittleEndian, &quad); err != nil {
			return Frame{}, fmt.Errorf("vertex %d: %w", i, err)
		}
		vertices[i] = FrameVertex{
			X:                float32(quad[0])*scale[0] + translate[0],
			Y:                float32(quad[1])*scale[1] + translate[1],
			Z:                float32(quad[2])*scale[2] + translate[2],
			LightNormalIndex: quad[3],
		}
	}
	return Frame{Name: name, Vertices: vertices}, nil
}

// computeFaceNormals derives one unnormalized normal per face from a
// single frame's dequantized vertices: (v2-v1) x (v3-v2).
func computeFaceNormals(vertices []FrameVertex, faces []Face) []lin.V3 {
	normals := make([]lin.V3, len(faces))
	for i, f := range faces {
		v1 := vertices[f.P1]
		v2 := vertices[f.P2]
		v3 := vertices[f.P3]
		a := lin.NewV3S(v2.X-v1.X, v2.Y-v1.Y, v2.Z-v1.Z)
		b := lin.NewV3S(v3.X-v2.X, v3.Y-v2.Y, v3.Z-v2.Z)
		normals[i] = *new(lin.V3).Cross(a, b)
	}
	return normals
}

// deriveSequences groups frames into contiguous runs sharing the same
// letters-only name, closing the final run so Σcount == len(frames).
func deriveSequences(frames []Frame) []Sequence {
	if len(frames) == 0 {
		return nil
	}
	var sequences []Sequence
	start := 0
	name := sequenceName(frames[0].Name)
	for i := 1; i < len(frames); i++ {
		next := sequenceName(frames[i].Name)
		if next != name {
			sequences = append(sequences, Sequence{Name: name, Start: start, Count: i - start})
			start = i
			name = next
		}
	}
	sequences = append(sequences, Sequence{Name: name, Start: start, Count: len(frames) - start})
	return sequences
}

// decodeReader reads all of r and decodes it; LoadFrom uses it.
func decodeReader(r io.Reader) (*Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("md2: read: %w", err)
	}
	return decode(raw)
}
