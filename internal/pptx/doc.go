// Package pptx writes minimal PowerPoint (.pptx) packages: one blank-layout
// deck with solid slide backgrounds, wrapped text boxes, embedded PNG
// pictures, and optional per-slide speaker notes. Geometry is expressed in
// EMU; use Inch and Point to convert.
//
// The package writes the OOXML parts directly (archive/zip plus string
// templates) and supports exactly what slide reconstruction needs. It is not
// a general PPTX manipulation library.
package pptx
