// Package scene defines the implicit-primitive scene that the exporter
// consumes: rounded boxes placed, rotated, blended and optionally cut out
// of one another. It also holds the editor-facing mutations and the
// fixed-record .ocad persistence format.
package scene
