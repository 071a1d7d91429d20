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
	"fmt"
	"math"

	"github.com/mlnoga/nightfilter/internal/kernel"
	"github.com/mlnoga/nightfilter/internal/plane"
)

// Convolves the plane with the given kernel. Each output sample is the weighted
// sum of its neighborhood, rounded to the nearest integer and clamped to [0,255].
func Convolve(p *plane.Plane, k *kernel.Kernel) (*plane.Plane, error) {
	return Reduce(p, k, reduceWeightedSum)
}

// Applies a gaussian blur with a normalized kernel of given odd side and
// standard deviation.
func Gaussian(p *plane.Plane, size int, sigma float64) (*plane.Plane, error) {
	if err := plane.CheckKernelSize(size); err != nil {
		return nil, err
	}
	k, err := kernel.Gaussian(size, sigma)
	if err != nil {
		return nil, err
	}
	return Convolve(p, k)
}

// Applies a gaussian blur dimensioned after the given structuring kernel. Only
// the side length of the structuring kernel is used; its weights are replaced
// by the generated gaussian weights.
func GaussianLike(p *plane.Plane, structuring *kernel.Kernel, sigma float64) (*plane.Plane, error) {
	if structuring == nil || structuring.Dense == nil {
		return nil, fmt.Errorf("missing structuring kernel: %w", plane.ErrInvalidKernelSize)
	}
	r, c := structuring.Dims()
	if r != c {
		return nil, fmt.Errorf("structuring kernel %dx%d is not square: %w", c, r, plane.ErrInvalidKernelSize)
	}
	return Gaussian(p, r, sigma)
}

func reduceWeightedSum(samples []uint8, weights []float64) uint8 {
	sum := 0.0
	for i, s := range samples {
		sum += float64(s) * weights[i]
	}
	return roundClamp(sum)
}

// Rounds to the nearest integer and clamps to the range of a sample
func roundClamp(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
