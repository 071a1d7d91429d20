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

package median

import (
	"github.com/mlnoga/nightfilter/internal/qsort"
)

// Window sizes from which on a counting histogram beats quickselect
const countingThreshold = 128

// Calculates the median of a uint8 slice of length nine
// Modifies the elements in place
// From https://stackoverflow.com/questions/45453537/optimal-9-element-sorting-network-that-reduces-to-an-optimal-median-of-9-network
// See also http://ndevilla.free.fr/median/median/src/optmed.c for other sizes
func MedianUint8Slice9(a []uint8) uint8 { // 30x min/max
	// function swap(i,j) {var tmp = MIN(a[i],a[j]); a[j] = MAX(a[i],a[j]); a[i] = tmp;}
	// function min(i,j) {a[i] = MIN(a[i],a[j]);}
	// function max(i,j) {a[j] = MAX(a[i],a[j]);}

	if a[0] > a[1] {
		a[0], a[1] = a[1], a[0]
	} // swap(a,0,1)
	if a[3] > a[4] {
		a[3], a[4] = a[4], a[3]
	} // swap(a,3,4)
	if a[6] > a[7] {
		a[6], a[7] = a[7], a[6]
	} // swap(a,6,7)
	if a[1] > a[2] {
		a[1], a[2] = a[2], a[1]
	} // swap(a,1,2)
	if a[4] > a[5] {
		a[4], a[5] = a[5], a[4]
	} // swap(a,4,5)
	if a[7] > a[8] {
		a[7], a[8] = a[8], a[7]
	} // swap(a,7,8)
	if a[0] > a[1] {
		a[0], a[1] = a[1], a[0]
	} // swap(a,0,1)
	if a[3] > a[4] {
		a[3], a[4] = a[4], a[3]
	} // swap(a,3,4)
	if a[6] > a[7] {
		a[6], a[7] = a[7], a[6]
	} // swap(a,6,7)
	if a[0] > a[3] {
		a[3] = a[0]
	} // max (a,0,3)
	if a[3] > a[6] {
		a[6] = a[3]
	} // max (a,3,6)
	if a[1] > a[4] {
		a[1], a[4] = a[4], a[1]
	} // swap(a,1,4)
	if a[4] > a[7] {
		a[4] = a[7]
	} // min (a,4,7)
	if a[1] > a[4] {
		a[4] = a[1]
	} // max (a,1,4)
	if a[5] > a[8] {
		a[5] = a[8]
	} // min (a,5,8)
	if a[2] > a[5] {
		a[2] = a[5]
	} // min (a,2,5)
	if a[2] > a[4] {
		a[2], a[4] = a[4], a[2]
	} // swap(a,2,4)
	if a[4] > a[6] {
		a[4] = a[6]
	} // min (a,4,6)
	if a[2] > a[4] {
		a[4] = a[2]
	} // max (a,2,4)
	return a[4]
}

// Calculates the median of a uint8 slice with a 256-bin counting histogram.
// Does not modify the input. Even lengths average the two central values, truncating
func MedianUint8Counting(a []uint8) uint8 {
	n := len(a)
	if n == 0 {
		return 0
	}
	var bins [256]int32
	for _, v := range a {
		bins[v]++
	}

	// find the value of the order statistic with 0-based rank n/2, and of its predecessor
	upperRank := int32(n / 2)
	lowerRank := upperRank
	if n&1 == 0 {
		lowerRank--
	}
	lower, upper := -1, -1
	seen := int32(0)
	for v, c := range bins {
		seen += c
		if lower < 0 && seen > lowerRank {
			lower = v
		}
		if seen > upperRank {
			upper = v
			break
		}
	}
	return uint8((lower + upper) / 2)
}

// Calculates the median of a uint8 slice
// Modifies the elements in place
func MedianUint8(a []uint8) uint8 {
	switch {
	case len(a) == 0:
		return 0
	case len(a) == 9:
		return MedianUint8Slice9(a)
	case len(a) >= countingThreshold:
		return MedianUint8Counting(a)
	}
	return qsort.QSelectMedianUint8(a)
}
