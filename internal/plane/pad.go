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
)

// Returns a copy of the plane grown by padH rows at top and bottom and padW
// columns left and right. Samples outside the original bounds replicate the
// nearest edge sample, clamping the row first, then the column.
func Pad(p *Plane, padH, padW int) (*Plane, error) {
	if padH < 0 || padW < 0 {
		return nil, fmt.Errorf("padding %dx%d: %w", padW, padH, ErrInvalidKernelSize)
	}
	if p.Width == 0 || p.Height == 0 {
		if padH == 0 && padW == 0 {
			return p.Clone(), nil
		}
		return nil, fmt.Errorf("cannot edge-pad empty %s plane: %w", p.DimensionsToString(), ErrShapeMismatch)
	}

	padded := NewPlane(p.Height+2*padH, p.Width+2*padW)
	for r := 0; r < padded.Height; r++ {
		src := p.Row(clamp(r-padH, p.Height-1))
		dst := padded.Row(r)

		left := src[0]
		for c := 0; c < padW; c++ {
			dst[c] = left
		}
		copy(dst[padW:], src)
		right := src[p.Width-1]
		for c := padW + p.Width; c < padded.Width; c++ {
			dst[c] = right
		}
	}
	return padded, nil
}

// Pads the plane by half the given kernel side on each side. The kernel side
// must be odd and at least one.
func PadForKernel(p *Plane, kernelSize int) (*Plane, error) {
	if err := CheckKernelSize(kernelSize); err != nil {
		return nil, err
	}
	return Pad(p, kernelSize/2, kernelSize/2)
}

// Returns an error if the given kernel side is not odd and positive
func CheckKernelSize(size int) error {
	if size < 1 || size%2 == 0 {
		return fmt.Errorf("kernel size %d must be odd and at least 1: %w", size, ErrInvalidKernelSize)
	}
	return nil
}

// Returns the size x size neighborhood with top-left corner at (row, col) as
// a view sharing samples with p. The view must be treated as read-only.
func (p *Plane) Window(row, col, size int) Plane {
	if size <= 0 {
		return Plane{}
	}
	start := row*p.Stride + col
	end := start + (size-1)*p.Stride + size
	return Plane{
		Width:  size,
		Height: size,
		Stride: p.Stride,
		Pix:    p.Pix[start:end:end],
	}
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
