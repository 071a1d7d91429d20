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

func TestGaussianOnUniformPlane(t *testing.T) {
	p := plane.NewUniformPlane(7, 5, 50)
	for _, size := range []int{1, 3, 5, 7, 11} {
		for _, sigma := range []float64{0.3, 1, 2, 10} {
			res, err := Gaussian(p, size, sigma)
			if err != nil {
				t.Fatalf("size=%d sigma=%g: %s", size, sigma, err)
			}
			if !res.Equal(p) {
				t.Errorf("size=%d sigma=%g: gaussian(uniform 50)=\n%s", size, sigma, res)
			}
		}
	}
}

func TestGaussianSmoothsImpulse(t *testing.T) {
	p := plane.NewPlane(5, 5)
	p.Set(2, 2, 255)
	res, err := Gaussian(p, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	center, edge, corner := res.At(2, 2), res.At(1, 2), res.At(1, 1)
	if !(center > edge && edge > corner && corner > 0) {
		t.Errorf("center=%d edge=%d corner=%d; want strictly decreasing and positive", center, edge, corner)
	}
	if res.At(0, 0) != 0 {
		t.Errorf("res[0,0]=%d; want 0 outside the kernel footprint", res.At(0, 0))
	}
}

func TestGaussianLikeUsesOnlySize(t *testing.T) {
	rng := &fastrand.RNG{}
	p := randomPlane(rng, 6, 6)
	structuring, err := kernel.New([][]float64{
		{0, 9, 0, 0, 0},
		{0, 0, 0, 0, 3},
		{0, 0, 1, 0, 0},
		{7, 0, 0, 0, 0},
		{0, 0, 0, 5, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	a, err := GaussianLike(p, structuring, 2)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Gaussian(p, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Errorf("GaussianLike differs from Gaussian of the same size")
	}
	if _, err := GaussianLike(p, nil, 2); !errors.Is(err, plane.ErrInvalidKernelSize) {
		t.Errorf("nil structuring err=%v; want ErrInvalidKernelSize", err)
	}
}

func TestConvolveClamps(t *testing.T) {
	sharpen, err := kernel.New([][]float64{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	p := plane.NewPlane(3, 3)
	p.Set(1, 1, 200)
	res, err := Convolve(p, sharpen)
	if err != nil {
		t.Fatal(err)
	}
	if res.At(1, 1) != 255 {
		t.Errorf("center=%d; want 255", res.At(1, 1))
	}
	if res.At(0, 1) != 0 {
		t.Errorf("edge=%d; want 0", res.At(0, 1))
	}
}
