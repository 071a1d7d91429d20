// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package plane

import (
	"fmt"
	"strings"
)

// A single channel of 8-bit samples, row-major. May be a view into a larger
// plane, in which case Stride exceeds Width.
type Plane struct {
	Width  int     // Number of columns
	Height int     // Number of rows
	Stride int     // Distance in Pix between vertically adjacent samples
	Pix    []uint8 // Sample data, row r starts at r*Stride
}

// Creates a zero-filled plane of given height and width
func NewPlane(height, width int) *Plane {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	return &Plane{
		Width:  width,
		Height: height,
		Stride: width,
		Pix:    make([]uint8, height*width),
	}
}

// Creates a plane from a slice of rows. All rows must have the same length
func NewPlaneFromRows(rows [][]uint8) (*Plane, error) {
	if len(rows) == 0 {
		return NewPlane(0, 0), nil
	}
	width := len(rows[0])
	p := NewPlane(len(rows), width)
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", r, len(row), width, ErrShapeMismatch)
		}
		copy(p.Pix[r*p.Stride:], row)
	}
	return p, nil
}

// Creates a plane of given size with every sample set to value
func NewUniformPlane(height, width int, value uint8) *Plane {
	p := NewPlane(height, width)
	for i := range p.Pix {
		p.Pix[i] = value
	}
	return p
}

// Returns the sample at the given row and column. No bounds checks beyond the slice's own
func (p *Plane) At(row, col int) uint8 {
	return p.Pix[row*p.Stride+col]
}

// Sets the sample at the given row and column
func (p *Plane) Set(row, col int, v uint8) {
	p.Pix[row*p.Stride+col] = v
}

// Returns the samples of the given row, without copying
func (p *Plane) Row(row int) []uint8 {
	start := row * p.Stride
	return p.Pix[start : start+p.Width]
}

// Returns true if both planes have the same dimensions
func (p *Plane) SameShape(o *Plane) bool {
	return p.Width == o.Width && p.Height == o.Height
}

// Returns a compact copy of the plane, with Stride equal to Width
func (p *Plane) Clone() *Plane {
	c := NewPlane(p.Height, p.Width)
	for r := 0; r < p.Height; r++ {
		copy(c.Pix[r*c.Stride:], p.Row(r))
	}
	return c
}

// Returns true if both planes have the same shape and samples
func (p *Plane) Equal(o *Plane) bool {
	if !p.SameShape(o) {
		return false
	}
	for r := 0; r < p.Height; r++ {
		a, b := p.Row(r), o.Row(r)
		for c := range a {
			if a[c] != b[c] {
				return false
			}
		}
	}
	return true
}

// Returns the rows of the plane as a freshly allocated slice of slices
func (p *Plane) Rows() [][]uint8 {
	rows := make([][]uint8, p.Height)
	for r := range rows {
		rows[r] = append([]uint8(nil), p.Row(r)...)
	}
	return rows
}

func (p *Plane) DimensionsToString() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// Formats the samples as rows of numbers, for test and debug output
func (p *Plane) String() string {
	b := strings.Builder{}
	for r := 0; r < p.Height; r++ {
		if r > 0 {
			b.WriteRune('\n')
		}
		fmt.Fprintf(&b, "%v", p.Row(r))
	}
	return b.String()
}
