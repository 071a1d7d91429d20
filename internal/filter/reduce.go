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

package filter

import (
	"github.com/mlnoga/nightfilter/internal/kernel"
	"github.com/mlnoga/nightfilter/internal/plane"
)

// Reduces one neighborhood to a single output sample. Samples holds the
// window cells selected by non-zero kernel weights in row-major order, and
// weights the matching kernel weights. Reducers may reorder samples, but
// must not retain either slice.
type Reducer func(samples []uint8, weights []float64) uint8

// Applies a windowed reduction to the plane: pads it by half the kernel side
// with edge replication, extracts the kernel-sized window around every pixel,
// and stores the reduction of the selected cells. Returns a new plane of the
// same dimensions.
func Reduce(p *plane.Plane, k *kernel.Kernel, reduce Reducer) (*plane.Plane, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	out := plane.NewPlane(p.Height, p.Width)
	if p.Width == 0 || p.Height == 0 {
		return out, nil
	}

	size := k.Size()
	padded, err := plane.PadForKernel(p, size)
	if err != nil {
		return nil, err
	}

	// offsets of the selected cells within a window, and their weights
	type cell struct{ row, col int }
	cells, weights := []cell{}, []float64{}
	for i, w := range k.Weights() {
		if w != 0 {
			cells = append(cells, cell{i / size, i % size})
			weights = append(weights, w)
		}
	}

	samples := make([]uint8, len(cells))
	for row := 0; row < p.Height; row++ {
		dst := out.Row(row)
		for col := range dst {
			win := padded.Window(row, col, size)
			for i, c := range cells {
				samples[i] = win.At(c.row, c.col)
			}
			dst[col] = reduce(samples, weights)
		}
	}
	return out, nil
}
