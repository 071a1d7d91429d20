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

import (
	"testing"

	"github.com/valyala/fastrand"
)

func TestMedian(t *testing.T) {
	rng := fastrand.RNG{}
	for i := 1; i < 256; i++ {
		// prepare array of given length with a random permutation of 1..n
		arr := make([]uint8, i)
		for j := 0; j < len(arr); j++ {
			arr[j] = uint8(j + 1)
		}
		for j := 0; j < len(arr); j++ {
			k := rng.Uint32n(uint32(len(arr)))
			arr[j], arr[k] = arr[k], arr[j]
		}

		// calculate expected result
		var expect uint8
		if (i & 1) != 0 {
			expect = uint8((i + 1) / 2)
		} else {
			expect = uint8((i/2 + i/2 + 1) / 2)
		}

		// calculate actual result and compare
		res := QSelectMedianUint8(arr)
		if res != expect {
			t.Errorf("median(1..%d) got %d expect %d", i, res, expect)
		}
	}
}

func TestSelectWithDuplicates(t *testing.T) {
	rng := fastrand.RNG{}
	for round := 0; round < 200; round++ {
		n := 1 + int(rng.Uint32n(60))
		arr := make([]uint8, n)
		var counts [4]int
		for j := range arr {
			v := uint8(rng.Uint32n(4))
			arr[j] = v
			counts[v]++
		}
		k := int(rng.Uint32n(uint32(n)))

		// k-th smallest from the counts
		expect, seen := uint8(0), 0
		for v, c := range counts {
			if k < seen+c {
				expect = uint8(v)
				break
			}
			seen += c
		}

		if res := QSelectUint8(arr, k); res != expect {
			t.Errorf("round %d: select(%d of %d) got %d expect %d", round, k, n, res, expect)
		}
		for j := 0; j < k; j++ {
			if arr[j] > arr[k] {
				t.Errorf("round %d: arr[%d]=%d > arr[k=%d]=%d after select", round, j, arr[j], k, arr[k])
			}
		}
	}
}

func TestMedianEmpty(t *testing.T) {
	if res := QSelectMedianUint8(nil); res != 0 {
		t.Errorf("median(nil)=%d; want 0", res)
	}
}
