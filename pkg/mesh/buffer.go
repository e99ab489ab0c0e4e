// Package mesh collects triangle soup produced by the isosurface sweep and
// writes it out in the supported file formats.
package mesh

import (
	"errors"
	"fmt"
)

// Vertex is a single vertex position.
type Vertex [3]float32

// DefaultCapacity is the initial vertex capacity of a Buffer created with a
// non-positive capacity.
const DefaultCapacity = 1 << 16

// ErrCapacityExceeded is returned when growing a Buffer would take its
// capacity past the configured limit.
var ErrCapacityExceeded = errors.New("mesh buffer capacity exceeded")

// Buffer is an append-only sequence of vertices, grouped in consecutive
// triples as triangles. When an append does not fit, capacity at least
// doubles; earlier contents keep their values and order.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	verts []Vertex
	limit int
	grows int
}

// NewBuffer returns an empty buffer with room for capacity vertices.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{verts: make([]Vertex, 0, capacity)}
}

// SetLimit bounds the buffer to maxVertices. Growth stops at the limit
// instead of doubling past it, and an append that would hold more than
// maxVertices fails with ErrCapacityExceeded. Zero or negative means
// unbounded.
func (b *Buffer) SetLimit(maxVertices int) {
	b.limit = maxVertices
}

// Len returns the number of vertices.
func (b *Buffer) Len() int {
	return len(b.verts)
}

// Cap returns the current vertex capacity.
func (b *Buffer) Cap() int {
	return cap(b.verts)
}

// TriangleCount returns the number of complete triangles.
func (b *Buffer) TriangleCount() int {
	return len(b.verts) / 3
}

// IsEmpty returns true if the buffer holds no geometry.
func (b *Buffer) IsEmpty() bool {
	return len(b.verts) == 0
}

// Grows returns how many times the buffer has reallocated.
func (b *Buffer) Grows() int {
	return b.grows
}

// Vertices returns the stored vertices. The slice aliases the buffer and is
// only valid until the next append.
func (b *Buffer) Vertices() []Vertex {
	return b.verts
}

// Triangle returns triangle i.
func (b *Buffer) Triangle(i int) [3]Vertex {
	return [3]Vertex{b.verts[3*i], b.verts[3*i+1], b.verts[3*i+2]}
}

// AppendTriangle appends one triangle.
func (b *Buffer) AppendTriangle(v0, v1, v2 Vertex) error {
	if err := b.reserve(3); err != nil {
		return err
	}
	b.verts = append(b.verts, v0, v1, v2)
	return nil
}

// AppendBuffer appends every vertex of o, in order.
func (b *Buffer) AppendBuffer(o *Buffer) error {
	if err := b.reserve(len(o.verts)); err != nil {
		return err
	}
	b.verts = append(b.verts, o.verts...)
	return nil
}

// Reset empties the buffer but keeps its storage.
func (b *Buffer) Reset() {
	b.verts = b.verts[:0]
}

// reserve makes room for n more vertices, doubling capacity until they fit.
func (b *Buffer) reserve(n int) error {
	need := len(b.verts) + n
	if b.limit > 0 && need > b.limit {
		return fmt.Errorf("%w: need %d vertices, limit %d", ErrCapacityExceeded, need, b.limit)
	}
	if need <= cap(b.verts) {
		return nil
	}
	newCap := max(cap(b.verts), 1)
	for newCap < need {
		newCap *= 2
	}
	if b.limit > 0 {
		newCap = min(newCap, b.limit)
	}
	grown := make([]Vertex, len(b.verts), newCap)
	copy(grown, b.verts)
	b.verts = grown
	b.grows++
	return nil
}
