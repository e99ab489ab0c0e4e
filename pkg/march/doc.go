// Package march implements table-driven marching cubes over a single grid
// cell: case classification, edge interpolation and triangle emission.
//
// Corner and edge numbering follow the usual convention. Corners 0-3 lie
// on the front depth and 4-7 on the back depth, each face counter-clockwise
// from the cell origin:
//
//	corner  offset      edge  corners
//	0       (0, 0, 0)   0     0-1
//	1       (1, 0, 0)   1     1-2
//	2       (1, 1, 0)   2     2-3
//	3       (0, 1, 0)   3     3-0
//	4       (0, 0, 1)   4-7   as 0-3, back face
//	5       (1, 0, 1)   8     0-4
//	6       (1, 1, 1)   9     1-5
//	7       (0, 1, 1)   10    2-6
//	                    11    3-7
package march
