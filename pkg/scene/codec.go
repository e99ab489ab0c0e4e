package scene

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Ext is the file extension of saved scenes.
const Ext = ".ocad"

// RecordSize is the size in bytes of one primitive record in an .ocad file.
//
//	offset  size  field
//	0       12    position (3 x float32)
//	12      12    half-size (3 x float32)
//	24      12    rotation (3 x float32)
//	36      4     corner radius
//	40      4     blob amount
//	44      3     color r, g, b
//	47      3     mirror x, y, z (0 or 1)
//	50      1     subtract (0 or 1)
//	51      1     padding
const RecordSize = 52

// headerSize is the int32 primitive count that precedes the records.
const headerSize = 4

// ErrCorruptScene is returned when .ocad data is truncated or malformed.
var ErrCorruptScene = errors.New("corrupt scene data")

// MarshalBinary encodes the scene in the .ocad layout. The selection is not
// persisted.
func (s *Scene) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize+RecordSize*len(s.Primitives))
	binary.LittleEndian.PutUint32(buf, uint32(int32(len(s.Primitives))))
	for i, p := range s.Primitives {
		putRecord(buf[headerSize+i*RecordSize:], p)
	}
	return buf, nil
}

// UnmarshalBinary replaces the scene contents with the decoded .ocad data.
// Loading always clears the selection. Trailing bytes beyond the declared
// record count are ignored.
func (s *Scene) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorruptScene, len(data))
	}
	n := int32(binary.LittleEndian.Uint32(data))
	if n < 0 {
		return fmt.Errorf("%w: negative primitive count %d", ErrCorruptScene, n)
	}
	need := headerSize + int(n)*RecordSize
	if len(data) < need {
		return fmt.Errorf("%w: %d primitives need %d bytes, have %d", ErrCorruptScene, n, need, len(data))
	}

	prims := make([]Primitive, n)
	for i := range prims {
		prims[i] = getRecord(data[headerSize+i*RecordSize:])
	}
	s.Primitives = prims
	s.Selected = NoSelection
	if s.lastColor == (Color{}) {
		s.lastColor = DefaultColor
	}
	return nil
}

// Encode writes the scene to w in the .ocad layout.
func (s *Scene) Encode(w io.Writer) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decode reads an .ocad scene from r.
func Decode(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s := New()
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads an .ocad scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := New()
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}

// ContentHash returns the 64-bit hash of the encoded scene. Identical
// scenes hash identically, so saved files can be deduplicated by name.
func (s *Scene) ContentHash() uint64 {
	data, _ := s.MarshalBinary()
	return xxhash.Sum64(data)
}

// FileName returns the content-addressed file name for the scene:
// <name>_<hash>.ocad with the hash in decimal.
func (s *Scene) FileName(name string) string {
	return name + "_" + strconv.FormatUint(s.ContentHash(), 10) + Ext
}

// SaveNamed writes the scene into dir under its content-addressed name and
// returns the full path.
func (s *Scene) SaveNamed(dir, name string) (string, error) {
	data, err := s.MarshalBinary()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name+"_"+strconv.FormatUint(xxhash.Sum64(data), 10)+Ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func putRecord(b []byte, p Primitive) {
	putVec3(b[0:], p.Position)
	putVec3(b[12:], p.HalfSize)
	putVec3(b[24:], p.Rotation)
	binary.LittleEndian.PutUint32(b[36:], math.Float32bits(p.CornerRadius))
	binary.LittleEndian.PutUint32(b[40:], math.Float32bits(p.BlobAmount))
	b[44], b[45], b[46] = p.Color.R, p.Color.G, p.Color.B
	b[47], b[48], b[49] = boolByte(p.Mirror.X), boolByte(p.Mirror.Y), boolByte(p.Mirror.Z)
	b[50] = boolByte(p.Subtract)
	b[51] = 0
}

func getRecord(b []byte) Primitive {
	return Primitive{
		Position:     getVec3(b[0:]),
		HalfSize:     getVec3(b[12:]),
		Rotation:     getVec3(b[24:]),
		CornerRadius: math.Float32frombits(binary.LittleEndian.Uint32(b[36:])),
		BlobAmount:   math.Float32frombits(binary.LittleEndian.Uint32(b[40:])),
		Color:        Color{R: b[44], G: b[45], B: b[46]},
		Mirror:       Mirror{X: b[47] != 0, Y: b[48] != 0, Z: b[49] != 0},
		Subtract:     b[50] != 0,
	}
}

func putVec3(b []byte, v Vec3) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}

func getVec3(b []byte) Vec3 {
	return Vec3{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
