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

package preview

import (
	"errors"
	"testing"

	"github.com/mlnoga/nightfilter/internal/plane"
)

func TestContactSheet(t *testing.T) {
	orig := plane.NewImage(20, 40)
	for i := range orig.Pix {
		if i%plane.Channels == 0 {
			orig.Pix[i] = 255
		}
	}
	filtered := plane.NewImageFromImage(orig)

	sheet, err := ContactSheet(orig, filtered, 10)
	if err != nil {
		t.Fatal(err)
	}
	if sheet.Width != 40 || sheet.Height != 10 {
		t.Fatalf("sheet=%s; want 40x10", sheet.DimensionsToString())
	}
	// composite cell is red, R cell is white, G and B cells are black
	checks := []struct {
		col  int
		want [3]uint8
	}{
		{2, [3]uint8{255, 0, 0}}, {12, [3]uint8{255, 255, 255}}, {22, [3]uint8{0, 0, 0}}, {32, [3]uint8{0, 0, 0}},
	}
	for _, c := range checks {
		for ch := 0; ch < plane.Channels; ch++ {
			if got := sheet.At(2, c.col, ch); got != c.want[ch] {
				t.Errorf("col %d ch %d=%d; want %d", c.col, ch, got, c.want[ch])
			}
		}
	}

	single, err := ContactSheet(orig, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if single.Height != 5 {
		t.Errorf("single row height=%d; want 5", single.Height)
	}

	if _, err := ContactSheet(orig, nil, 0); !errors.Is(err, plane.ErrInvalidParameter) {
		t.Errorf("zero width err=%v; want ErrInvalidParameter", err)
	}
	if _, err := ContactSheet(plane.NewImage(0, 0), nil, 10); !errors.Is(err, plane.ErrShapeMismatch) {
		t.Errorf("empty err=%v; want ErrShapeMismatch", err)
	}
}

func TestHistogramChart(t *testing.T) {
	orig := plane.NewImage(4, 4)
	chart, err := HistogramChart(orig, orig, 300, 100)
	if err != nil {
		t.Fatal(err)
	}
	if chart.Width != 300 || chart.Height != 100 {
		t.Fatalf("chart=%s; want 300x100", chart.DimensionsToString())
	}
	// all samples are zero, so only the leftmost column of each cell has a full bar
	if chart.At(49, 0, 0) == 255 && chart.At(49, 0, 1) == 255 && chart.At(49, 0, 2) == 255 {
		t.Errorf("bar at column 0 missing")
	}
	for ch := 0; ch < plane.Channels; ch++ {
		if chart.At(49, 50, ch) != 255 {
			t.Errorf("background at column 50 not white")
		}
	}
	if _, err := HistogramChart(orig, nil, 2, 10); !errors.Is(err, plane.ErrInvalidParameter) {
		t.Errorf("narrow chart err=%v; want ErrInvalidParameter", err)
	}
}
