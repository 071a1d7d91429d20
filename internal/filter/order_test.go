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
	"errors"
	"testing"

	"github.com/mlnoga/nightfilter/internal/kernel"
	"github.com/mlnoga/nightfilter/internal/plane"
	"github.com/valyala/fastrand"
)

func randomPlane(rng *fastrand.RNG, height, width int) *plane.Plane {
	p := plane.NewPlane(height, width)
	for i := range p.Pix {
		p.Pix[i] = uint8(rng.Uint32n(256))
	}
	return p
}

func invert(p *plane.Plane) *plane.Plane {
	inv := plane.NewPlane(p.Height, p.Width)
	for i, v := range p.Pix {
		inv.Pix[i] = 255 - v
	}
	return inv
}

func mustOnes(t *testing.T, size int) *kernel.Kernel {
	t.Helper()
	k, err := kernel.Ones(size)
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func mustPlane(t *testing.T, rows [][]uint8) *plane.Plane {
	t.Helper()
	p, err := plane.NewPlaneFromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOrderFiltersOnUniformPlane(t *testing.T) {
	p := plane.NewUniformPlane(3, 3, 100)
	k := mustOnes(t, 3)
	for name, f := range map[string]func(*plane.Plane, *kernel.Kernel) (*plane.Plane, error){
		"erode": Erode, "dilate": Dilate, "median": Median,
	} {
		res, err := f(p, k)
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		if !res.Equal(p) {
			t.Errorf("%s(uniform 100)=\n%s\nwant\n%s", name, res, p)
		}
	}
}

func TestErodeDilateKnownValues(t *testing.T) {
	p := mustPlane(t, [][]uint8{
		{10, 20, 30},
		{40, 50, 60},
		{70, 80, 90},
	})
	k := mustOnes(t, 3)

	eroded, err := Erode(p, k)
	if err != nil {
		t.Fatal(err)
	}
	wantEroded := mustPlane(t, [][]uint8{
		{10, 10, 20},
		{10, 10, 20},
		{40, 40, 50},
	})
	if !eroded.Equal(wantEroded) {
		t.Errorf("erode=\n%s\nwant\n%s", eroded, wantEroded)
	}

	dilated, err := Dilate(p, k)
	if err != nil {
		t.Fatal(err)
	}
	wantDilated := mustPlane(t, [][]uint8{
		{50, 60, 60},
		{80, 90, 90},
		{80, 90, 90},
	})
	if !dilated.Equal(wantDilated) {
		t.Errorf("dilate=\n%s\nwant\n%s", dilated, wantDilated)
	}
}

func TestMedianRemovesImpulse(t *testing.T) {
	p := plane.NewUniformPlane(5, 5, 40)
	p.Set(2, 2, 255)
	p.Set(0, 4, 0)
	res, err := Median(p, mustOnes(t, 3))
	if err != nil {
		t.Fatal(err)
	}
	if want := plane.NewUniformPlane(5, 5, 40); !res.Equal(want) {
		t.Errorf("median=\n%s\nwant\n%s", res, want)
	}
}

func TestErodeDilateDuality(t *testing.T) {
	rng := &fastrand.RNG{}
	for _, size := range []int{1, 3, 5} {
		k := mustOnes(t, size)
		p := randomPlane(rng, 9, 13)
		dilated, err := Dilate(p, k)
		if err != nil {
			t.Fatal(err)
		}
		erodedInv, err := Erode(invert(p), k)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range dilated.Pix {
			if v != 255-erodedInv.Pix[i] {
				t.Errorf("size=%d: dilate[%d]=%d; want 255-erode(255-p)=%d", size, i, v, 255-erodedInv.Pix[i])
			}
		}
	}
}

func TestKernelSizeMonotonicity(t *testing.T) {
	rng := &fastrand.RNG{}
	p := randomPlane(rng, 12, 10)
	var prevErode, prevDilate *plane.Plane
	for _, size := range []int{1, 3, 5, 7} {
		k := mustOnes(t, size)
		e, err := Erode(p, k)
		if err != nil {
			t.Fatal(err)
		}
		d, err := Dilate(p, k)
		if err != nil {
			t.Fatal(err)
		}
		if prevErode != nil {
			for i := range e.Pix {
				if e.Pix[i] > prevErode.Pix[i] {
					t.Errorf("size=%d: erode[%d]=%d increased from %d", size, i, e.Pix[i], prevErode.Pix[i])
				}
				if d.Pix[i] < prevDilate.Pix[i] {
					t.Errorf("size=%d: dilate[%d]=%d decreased from %d", size, i, d.Pix[i], prevDilate.Pix[i])
				}
			}
		}
		prevErode, prevDilate = e, d
	}
}

func TestStructuringMask(t *testing.T) {
	// cross-shaped structuring element ignores the diagonal neighbors
	cross, err := kernel.New([][]float64{
		{0, 1, 0},
		{1, 1, 1},
		{0, 1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	p := plane.NewUniformPlane(3, 3, 200)
	p.Set(0, 0, 0)
	res, err := Erode(p, cross)
	if err != nil {
		t.Fatal(err)
	}
	if res.At(1, 1) != 200 {
		t.Errorf("cross erode center=%d; want 200", res.At(1, 1))
	}
	if res.At(0, 1) != 0 || res.At(1, 0) != 0 {
		t.Errorf("cross erode edge neighbors=%d,%d; want 0,0", res.At(0, 1), res.At(1, 0))
	}

	// four selected cells make the median an average of the central two
	corners, err := kernel.New([][]float64{
		{1, 0, 1},
		{0, 0, 0},
		{1, 0, 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	q := mustPlane(t, [][]uint8{
		{10, 0, 21},
		{0, 0, 0},
		{30, 0, 45},
	})
	med, err := Median(q, corners)
	if err != nil {
		t.Fatal(err)
	}
	if med.At(1, 1) != 25 {
		t.Errorf("corner median center=%d; want 25", med.At(1, 1))
	}
}

func TestShapePreservation(t *testing.T) {
	rng := &fastrand.RNG{}
	for _, dims := range [][2]int{{1, 1}, {1, 7}, {6, 1}, {4, 9}, {0, 0}} {
		p := randomPlane(rng, dims[0], dims[1])
		k := mustOnes(t, 5)
		outs := []*plane.Plane{}
		for _, f := range []func(*plane.Plane, *kernel.Kernel) (*plane.Plane, error){Erode, Dilate, Median, Convolve} {
			o, err := f(p, k)
			if err != nil {
				t.Fatalf("dims=%v: %s", dims, err)
			}
			outs = append(outs, o)
		}
		g, err := Gaussian(p, 5, 2)
		if err != nil {
			t.Fatalf("dims=%v gaussian: %s", dims, err)
		}
		l, _ := Lighting(p, 2)
		gc, _ := Gamma(p, 0.5)
		b, _ := Binarize(p, 128)
		outs = append(outs, g, l, gc, b)
		for i, o := range outs {
			if !o.SameShape(p) {
				t.Errorf("dims=%v filter %d: shape %s; want %s", dims, i, o.DimensionsToString(), p.DimensionsToString())
			}
		}
	}
}

func TestFiltersDoNotMutateInput(t *testing.T) {
	rng := &fastrand.RNG{}
	p := randomPlane(rng, 8, 8)
	orig := p.Clone()
	k := mustOnes(t, 3)
	Erode(p, k)
	Dilate(p, k)
	Median(p, k)
	Gaussian(p, 3, 1)
	Lighting(p, 3)
	Gamma(p, 2)
	Binarize(p, 10)
	if !p.Equal(orig) {
		t.Errorf("input plane was modified")
	}
}

func TestInvalidKernels(t *testing.T) {
	p := plane.NewUniformPlane(4, 4, 1)
	emptied, _ := kernel.New([][]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}})
	emptied.Dense = nil
	if _, err := Erode(p, emptied); !errors.Is(err, plane.ErrInvalidKernelSize) {
		t.Errorf("erode with empty kernel err=%v; want ErrInvalidKernelSize", err)
	}
	if _, err := Gaussian(p, 4, 2); !errors.Is(err, plane.ErrInvalidKernelSize) {
		t.Errorf("gaussian size 4 err=%v; want ErrInvalidKernelSize", err)
	}
	if _, err := Gaussian(p, 0, 2); !errors.Is(err, plane.ErrInvalidKernelSize) {
		t.Errorf("gaussian size 0 err=%v; want ErrInvalidKernelSize", err)
	}
	if _, err := Gaussian(p, 3, 0); !errors.Is(err, plane.ErrInvalidParameter) {
		t.Errorf("gaussian sigma 0 err=%v; want ErrInvalidParameter", err)
	}
}
