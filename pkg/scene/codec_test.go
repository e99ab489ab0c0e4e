package scene

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleScene() *Scene {
	s := New()
	s.Primitives = []Primitive{
		{
			Position:     Vec3{1, 2, 3},
			HalfSize:     Vec3{0.5, 1, 1.5},
			Rotation:     Vec3{0, 45, 90},
			CornerRadius: 0.1,
			BlobAmount:   0.2,
			Color:        Color{R: 10, G: 20, B: 30},
			Mirror:       Mirror{X: true, Z: true},
		},
		{
			HalfSize:   Vec3{1, 1, 1},
			BlobAmount: MinBlobAmount,
			Subtract:   true,
		},
	}
	s.Selected = 1
	return s
}

func TestMarshalLayout(t *testing.T) {
	s := sampleScene()
	data, err := s.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if len(data) != 4+2*RecordSize {
		t.Fatalf("len = %d, want %d", len(data), 4+2*RecordSize)
	}
	if n := binary.LittleEndian.Uint32(data); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	rec := data[4:]
	if y := math.Float32frombits(binary.LittleEndian.Uint32(rec[4:])); y != 2 {
		t.Errorf("position.y = %g, want 2", y)
	}
	if r := math.Float32frombits(binary.LittleEndian.Uint32(rec[36:])); r != 0.1 {
		t.Errorf("corner radius = %g, want 0.1", r)
	}
	if !bytes.Equal(rec[44:52], []byte{10, 20, 30, 1, 0, 1, 0, 0}) {
		t.Errorf("color/flags = %v", rec[44:52])
	}
	if rec[RecordSize+50] != 1 {
		t.Error("subtract flag not set on second record")
	}
}

func TestRoundTripClearsSelection(t *testing.T) {
	s := sampleScene()
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Selected != NoSelection {
		t.Errorf("Selected = %d, want NoSelection", got.Selected)
	}
	if len(got.Primitives) != len(s.Primitives) {
		t.Fatalf("decoded %d primitives, want %d", len(got.Primitives), len(s.Primitives))
	}
	for i := range s.Primitives {
		if got.Primitives[i] != s.Primitives[i] {
			t.Errorf("primitive %d = %+v, want %+v", i, got.Primitives[i], s.Primitives[i])
		}
	}
}

func TestUnmarshalCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", []byte{1, 0}},
		{"truncated record", append([]byte{1, 0, 0, 0}, make([]byte, RecordSize-1)...)},
		{"negative count", []byte{0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().UnmarshalBinary(tt.data)
			if !errors.Is(err, ErrCorruptScene) {
				t.Errorf("err = %v, want ErrCorruptScene", err)
			}
		})
	}
}

func TestSaveNamedAndLoad(t *testing.T) {
	dir := t.TempDir()
	s := sampleScene()

	path, err := s.SaveNamed(dir, "model")
	if err != nil {
		t.Fatalf("SaveNamed: %v", err)
	}
	if filepath.Base(path) != s.FileName("model") {
		t.Errorf("saved as %s, want %s", filepath.Base(path), s.FileName("model"))
	}
	if !strings.HasPrefix(filepath.Base(path), "model_") || filepath.Ext(path) != Ext {
		t.Errorf("unexpected file name %s", path)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ContentHash() != s.ContentHash() {
		t.Error("loaded scene hashes differently from the saved one")
	}

	// Saving identical content again lands on the same file.
	again, err := s.SaveNamed(dir, "model")
	if err != nil {
		t.Fatal(err)
	}
	if again != path {
		t.Errorf("second save path %s, want %s", again, path)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d files, want 1", len(entries))
	}
}

func TestContentHashChangesWithContent(t *testing.T) {
	a := sampleScene()
	b := sampleScene()
	b.Primitives[0].Position.X += 1
	if a.ContentHash() == b.ContentHash() {
		t.Error("different scenes produced the same hash")
	}
	// Selection is not part of the persisted content.
	b = sampleScene()
	b.Selected = 0
	if a.ContentHash() != b.ContentHash() {
		t.Error("selection changed the content hash")
	}
}
