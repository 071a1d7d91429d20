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
	"math"
	"testing"

	"github.com/mlnoga/nightfilter/internal/plane"
	"github.com/valyala/fastrand"
)

func TestBinarizeScenario(t *testing.T) {
	p := mustPlane(t, [][]uint8{{0, 127}, {128, 255}})
	res, err := Binarize(p, 128)
	if err != nil {
		t.Fatal(err)
	}
	want := mustPlane(t, [][]uint8{{0, 0}, {255, 255}})
	if !res.Equal(want) {
		t.Errorf("binarize=\n%s\nwant\n%s", res, want)
	}
}

func TestBinarizeIdempotent(t *testing.T) {
	rng := &fastrand.RNG{}
	p := randomPlane(rng, 16, 16)
	for _, threshold := range []int{0, 1, 64, 128, 254, 255} {
		once, err := Binarize(p, threshold)
		if err != nil {
			t.Fatal(err)
		}
		twice, err := Binarize(once, threshold)
		if err != nil {
			t.Fatal(err)
		}
		if !twice.Equal(once) {
			t.Errorf("threshold=%d: binarize is not idempotent", threshold)
		}
	}
}

func TestBinarizeErrors(t *testing.T) {
	p := plane.NewPlane(1, 1)
	for _, threshold := range []int{-1, 256, 1000} {
		if _, err := Binarize(p, threshold); !errors.Is(err, plane.ErrInvalidParameter) {
			t.Errorf("threshold=%d err=%v; want ErrInvalidParameter", threshold, err)
		}
	}
}

func allSamples() *plane.Plane {
	p := plane.NewPlane(16, 16)
	for i := range p.Pix {
		p.Pix[i] = uint8(i)
	}
	return p
}

func TestGammaIdentity(t *testing.T) {
	p := allSamples()
	res, err := Gamma(p, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Equal(p) {
		t.Errorf("gamma 1.0 is not the identity")
	}
}

func TestGammaDirection(t *testing.T) {
	p := allSamples()
	bright, _ := Gamma(p, 0.5)
	dark, _ := Gamma(p, 2)
	for i := 1; i < 255; i++ {
		if bright.Pix[i] < p.Pix[i] {
			t.Errorf("gamma 0.5 of %d=%d; want >= input", p.Pix[i], bright.Pix[i])
		}
		if dark.Pix[i] > p.Pix[i] {
			t.Errorf("gamma 2 of %d=%d; want <= input", p.Pix[i], dark.Pix[i])
		}
	}
	if bright.Pix[0] != 0 || bright.Pix[255] != 255 {
		t.Errorf("gamma 0.5 endpoints=%d,%d; want 0,255", bright.Pix[0], bright.Pix[255])
	}
	// 255*sqrt(64/255) = 127.75
	if bright.Pix[64] != 128 {
		t.Errorf("gamma 0.5 of 64=%d; want 128", bright.Pix[64])
	}
}

func TestLighting(t *testing.T) {
	p := allSamples()
	same, err := Lighting(p, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !same.Equal(p) {
		t.Errorf("brightness 1.0 is not the identity")
	}

	doubled, err := Lighting(p, 2)
	if err != nil {
		t.Fatal(err)
	}
	if doubled.Pix[200] != 255 {
		t.Errorf("brightness 2 of 200=%d; want 255", doubled.Pix[200])
	}
	if doubled.Pix[100] != 200 {
		t.Errorf("brightness 2 of 100=%d; want 200", doubled.Pix[100])
	}
	halved, _ := Lighting(p, 0.5)
	if halved.Pix[3] != 1 {
		t.Errorf("brightness 0.5 of 3=%d; want 1", halved.Pix[3])
	}
}

func TestPointTransformErrors(t *testing.T) {
	p := plane.NewPlane(1, 1)
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Gamma(p, v); !errors.Is(err, plane.ErrInvalidParameter) {
			t.Errorf("gamma=%g err=%v; want ErrInvalidParameter", v, err)
		}
		if _, err := Lighting(p, v); !errors.Is(err, plane.ErrInvalidParameter) {
			t.Errorf("brightness=%g err=%v; want ErrInvalidParameter", v, err)
		}
	}
}
