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

package kernel

import (
	"fmt"
	"math"

	"github.com/mlnoga/nightfilter/internal/plane"
	"gonum.org/v1/gonum/mat"
)

// A square filter kernel of odd side length. Weights are stored in a gonum
// dense matrix, row-major, with the center cell at (Size()/2, Size()/2).
type Kernel struct {
	*mat.Dense
}

// Creates a kernel from given square weight rows. Side length must be odd
func New(rows [][]float64) (*Kernel, error) {
	size := len(rows)
	if err := plane.CheckKernelSize(size); err != nil {
		return nil, err
	}
	data := make([]float64, 0, size*size)
	for i, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("kernel row %d has %d weights, want %d: %w", i, len(row), size, plane.ErrInvalidKernelSize)
		}
		data = append(data, row...)
	}
	return &Kernel{mat.NewDense(size, size, data)}, nil
}

// Creates an all-ones structuring kernel of given side length, i.e. a square
// neighborhood without shape masking
func Ones(size int) (*Kernel, error) {
	if err := plane.CheckKernelSize(size); err != nil {
		return nil, err
	}
	data := make([]float64, size*size)
	for i := range data {
		data[i] = 1
	}
	return &Kernel{mat.NewDense(size, size, data)}, nil
}

// Generates a normalized 2D gaussian kernel of given odd side length and
// standard deviation. Weights sum to one.
func Gaussian(size int, sigma float64) (*Kernel, error) {
	if size < 1 || size%2 == 0 {
		return nil, fmt.Errorf("gaussian kernel size %d must be odd and at least 1: %w", size, plane.ErrInvalidParameter)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("gaussian sigma %g must be positive: %w", sigma, plane.ErrInvalidParameter)
	}

	c := size / 2
	twoSigmaSq := 2 * sigma * sigma
	scale := 1 / (math.Pi * twoSigmaSq)
	k := mat.NewDense(size, size, nil)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			di, dj := float64(i-c), float64(j-c)
			k.Set(i, j, math.Exp(-(di*di+dj*dj)/twoSigmaSq)*scale)
		}
	}

	// Normalize for the truncated tails of the distribution
	sum := mat.Sum(k)
	if !(sum > 0) {
		return nil, fmt.Errorf("gaussian kernel %dx%d with sigma %g underflows: %w", size, size, sigma, plane.ErrInvalidParameter)
	}
	k.Scale(1/sum, k)
	return &Kernel{k}, nil
}

// Returns the side length
func (k *Kernel) Size() int {
	r, _ := k.Dims()
	return r
}

// Returns the sum of all weights
func (k *Kernel) Sum() float64 {
	return mat.Sum(k.Dense)
}

// Returns the weights as a row-major slice. The slice is a copy
func (k *Kernel) Weights() []float64 {
	r, c := k.Dims()
	w := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		w = append(w, k.RawRowView(i)...)
	}
	return w
}

// Checks that the kernel is square with odd side, and selects at least one cell
func (k *Kernel) Validate() error {
	if k == nil || k.Dense == nil {
		return fmt.Errorf("missing kernel: %w", plane.ErrInvalidKernelSize)
	}
	r, c := k.Dims()
	if r != c {
		return fmt.Errorf("kernel %dx%d is not square: %w", c, r, plane.ErrInvalidKernelSize)
	}
	if err := plane.CheckKernelSize(r); err != nil {
		return err
	}
	for _, w := range k.Weights() {
		if w != 0 {
			return nil
		}
	}
	return fmt.Errorf("kernel %dx%d has no non-zero cells: %w", c, r, plane.ErrInvalidKernelSize)
}
