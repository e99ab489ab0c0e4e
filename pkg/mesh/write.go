package mesh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Format selects the on-disk layout of an exported mesh.
type Format int

const (
	// FormatSoup is raw triangle soup: 9 little-endian float32 per
	// triangle, no header, no normals or indices.
	FormatSoup Format = iota
	// FormatSTL is binary STL.
	FormatSTL
	// FormatGLB is binary glTF with an indexed mesh and flat normals.
	FormatGLB
)

func (f Format) String() string {
	switch f {
	case FormatSoup:
		return "soup"
	case FormatSTL:
		return "stl"
	case FormatGLB:
		return "glb"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "soup", "raw":
		return FormatSoup, nil
	case "stl":
		return FormatSTL, nil
	case "glb", "gltf":
		return FormatGLB, nil
	}
	return 0, fmt.Errorf("unknown mesh format %q, expected soup, stl or glb", s)
}

// TriangleSize is the number of bytes one triangle occupies in soup format.
const TriangleSize = 9 * 4

// WriteSoup writes b as raw triangle soup. The output depends only on the
// buffer contents.
func WriteSoup(w io.Writer, b *Buffer) error {
	bw := bufio.NewWriter(w)
	var scratch [12]byte
	for _, v := range b.verts {
		binary.LittleEndian.PutUint32(scratch[0:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(scratch[4:], math.Float32bits(v[1]))
		binary.LittleEndian.PutUint32(scratch[8:], math.Float32bits(v[2]))
		if _, err := bw.Write(scratch[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadSoup parses raw triangle soup. A trailing partial triangle is an error.
func ReadSoup(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%TriangleSize != 0 {
		return nil, fmt.Errorf("soup length %d is not a multiple of %d", len(data), TriangleSize)
	}
	b := NewBuffer(len(data) / 12)
	for off := 0; off < len(data); off += 12 {
		b.verts = append(b.verts, Vertex{
			math.Float32frombits(binary.LittleEndian.Uint32(data[off:])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[off+4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(data[off+8:])),
		})
	}
	return b, nil
}

// stlHeader is the fixed 80-byte STL header text.
const stlHeader = "shapeup binary STL"

// WriteSTL writes b as binary STL with face normals.
func WriteSTL(w io.Writer, b *Buffer) error {
	bw := bufio.NewWriter(w)

	var header [84]byte
	copy(header[:80], stlHeader)
	binary.LittleEndian.PutUint32(header[80:], uint32(b.TriangleCount()))
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}

	var rec [50]byte
	for i := 0; i < b.TriangleCount(); i++ {
		tri := b.Triangle(i)
		n := FaceNormal(tri)
		putVertex(rec[0:], n)
		putVertex(rec[12:], tri[0])
		putVertex(rec[24:], tri[1])
		putVertex(rec[36:], tri[2])
		rec[48], rec[49] = 0, 0
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func putVertex(dst []byte, v Vertex) {
	binary.LittleEndian.PutUint32(dst[0:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(dst[4:], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(dst[8:], math.Float32bits(v[2]))
}

// WriteOptions controls WriteFile.
type WriteOptions struct {
	Format Format
	// Compress wraps soup and STL output in a zstd stream. GLB is always
	// written uncompressed.
	Compress bool
}

// WriteFile writes b to path in the requested format. The data goes to a
// temporary file in the same directory which is renamed over path only
// once it is complete, so an existing file at path is either replaced
// whole or left untouched.
func WriteFile(path string, b *Buffer, opts WriteOptions) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if opts.Format == FormatGLB {
		// The glTF encoder writes by path.
		if err := tmp.Close(); err != nil {
			return err
		}
		if err := WriteGLB(tmpPath, b); err != nil {
			return err
		}
		return os.Rename(tmpPath, path)
	}

	if err := writeStream(tmp, b, opts); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func writeStream(w io.Writer, b *Buffer, opts WriteOptions) error {
	var out io.Writer = w
	var enc *zstd.Encoder
	if opts.Compress {
		var err error
		enc, err = zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		out = enc
	}

	var err error
	switch opts.Format {
	case FormatSoup:
		err = WriteSoup(out, b)
	case FormatSTL:
		err = WriteSTL(out, b)
	default:
		err = fmt.Errorf("format %s cannot be streamed", opts.Format)
	}
	if err != nil {
		if enc != nil {
			enc.Close()
		}
		return err
	}
	if enc != nil {
		return enc.Close()
	}
	return nil
}
