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
	"github.com/mlnoga/nightfilter/internal/median"
	"github.com/mlnoga/nightfilter/internal/plane"
)

// Morphological erosion: each output sample is the minimum of its neighborhood,
// as selected by the non-zero cells of the structuring kernel. Shrinks bright
// regions and grows dark ones.
func Erode(p *plane.Plane, k *kernel.Kernel) (*plane.Plane, error) {
	return Reduce(p, k, reduceMin)
}

// Morphological dilation: each output sample is the maximum of its neighborhood.
// The dual of Erode.
func Dilate(p *plane.Plane, k *kernel.Kernel) (*plane.Plane, error) {
	return Reduce(p, k, reduceMax)
}

// Median filter: each output sample is the median of its neighborhood. With an
// even number of selected cells, the two central values are averaged and truncated.
func Median(p *plane.Plane, k *kernel.Kernel) (*plane.Plane, error) {
	return Reduce(p, k, reduceMedian)
}

func reduceMin(samples []uint8, _ []float64) uint8 {
	m := samples[0]
	for _, s := range samples[1:] {
		if s < m {
			m = s
		}
	}
	return m
}

func reduceMax(samples []uint8, _ []float64) uint8 {
	m := samples[0]
	for _, s := range samples[1:] {
		if s > m {
			m = s
		}
	}
	return m
}

func reduceMedian(samples []uint8, _ []float64) uint8 {
	return median.MedianUint8(samples)
}
