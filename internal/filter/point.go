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

	"github.com/mlnoga/nightfilter/internal/plane"
)

// A lookup table mapping every input sample to an output sample
type LUT [256]uint8

// Applies a per-sample lookup table to the plane. Returns a new plane
func ApplyLUT(p *plane.Plane, lut *LUT) *plane.Plane {
	out := plane.NewPlane(p.Height, p.Width)
	for row := 0; row < p.Height; row++ {
		src, dst := p.Row(row), out.Row(row)
		for i, v := range src {
			dst[i] = lut[v]
		}
	}
	return out
}

// Multiplies each sample by the brightness factor, clamping to [0,255] and
// truncating fractions
func Lighting(p *plane.Plane, brightness float64) (*plane.Plane, error) {
	lut, err := LightingLUT(brightness)
	if err != nil {
		return nil, err
	}
	return ApplyLUT(p, lut), nil
}

func LightingLUT(brightness float64) (*LUT, error) {
	if !(brightness > 0) || math.IsInf(brightness, 0) {
		return nil, fmt.Errorf("brightness %g must be positive: %w", brightness, plane.ErrInvalidParameter)
	}
	lut := &LUT{}
	for v := range lut {
		corrected := float64(v) * brightness
		if corrected > 255 {
			corrected = 255
		}
		lut[v] = uint8(corrected)
	}
	return lut, nil
}

// Applies gamma correction 255*(v/255)^gamma to each sample, rounding to the
// nearest integer. Gamma below one brightens midtones, above one darkens them.
func Gamma(p *plane.Plane, gamma float64) (*plane.Plane, error) {
	lut, err := GammaLUT(gamma)
	if err != nil {
		return nil, err
	}
	return ApplyLUT(p, lut), nil
}

func GammaLUT(gamma float64) (*LUT, error) {
	if !(gamma > 0) || math.IsInf(gamma, 0) {
		return nil, fmt.Errorf("gamma %g must be positive: %w", gamma, plane.ErrInvalidParameter)
	}
	lut := &LUT{}
	for v := range lut {
		lut[v] = roundClamp(255 * math.Pow(float64(v)/255, gamma))
	}
	return lut, nil
}

// Sets samples at or above the threshold to 255, and all others to 0
func Binarize(p *plane.Plane, threshold int) (*plane.Plane, error) {
	lut, err := BinarizeLUT(threshold)
	if err != nil {
		return nil, err
	}
	return ApplyLUT(p, lut), nil
}

func BinarizeLUT(threshold int) (*LUT, error) {
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("threshold %d outside [0,255]: %w", threshold, plane.ErrInvalidParameter)
	}
	lut := &LUT{}
	for v := threshold; v < len(lut); v++ {
		lut[v] = 255
	}
	return lut, nil
}
