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

package qsort

// Returns the k-th smallest element of a (0-based) via Hoare's quickselect.
// Reorders the elements of a in place, such that a[:k] <= a[k] <= a[k+1:].
// Panics if k is out of range.
func QSelectUint8(a []uint8, k int) uint8 {
	left, right := 0, len(a)-1
	for left < right {
		// median of three pivot, guards against sorted inputs
		mid := left + (right-left)/2
		if a[mid] < a[left] {
			a[mid], a[left] = a[left], a[mid]
		}
		if a[right] < a[left] {
			a[right], a[left] = a[left], a[right]
		}
		if a[right] < a[mid] {
			a[right], a[mid] = a[mid], a[right]
		}
		pivot := a[mid]

		i, j := left, right
		for i <= j {
			for a[i] < pivot {
				i++
			}
			for a[j] > pivot {
				j--
			}
			if i <= j {
				a[i], a[j] = a[j], a[i]
				i++
				j--
			}
		}
		if k <= j {
			right = j
		} else if k >= i {
			left = i
		} else {
			return a[k]
		}
	}
	return a[k]
}

// Returns the median of a. For an even number of elements, returns the mean
// of the two central elements, truncated towards zero. Reorders a in place.
// Returns 0 for an empty slice
func QSelectMedianUint8(a []uint8) uint8 {
	n := len(a)
	if n == 0 {
		return 0
	}
	upper := QSelectUint8(a, n/2)
	if n&1 != 0 {
		return upper
	}

	// the lower central element is the maximum of the left partition
	lower := a[0]
	for _, v := range a[1 : n/2] {
		if v > lower {
			lower = v
		}
	}
	return uint8((uint16(lower) + uint16(upper)) / 2)
}
