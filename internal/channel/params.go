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

package channel

import (
	"fmt"
	"math"

	"github.com/mlnoga/nightfilter/internal/plane"
)

// Parameters of a filter invocation. Each filter kind reads only the fields
// relevant to it.
type Params struct {
	KernelSize int     `json:"kernelSize"` // Odd side length of the neighborhood, spatial filters only
	Sigma      float64 `json:"sigma"`      // Standard deviation of the gaussian kernel
	Brightness float64 `json:"brightness"` // Multiplier for lighting correction
	Gamma      float64 `json:"gamma"`      // Exponent for gamma correction
	Threshold  int     `json:"threshold"`  // Binarization threshold, inclusive on the high side
}

// Returns the default parameters
func DefaultParams() Params {
	return Params{
		KernelSize: 3,
		Sigma:      2,
		Brightness: 2,
		Gamma:      0.5,
		Threshold:  128,
	}
}

// Checks the parameters relevant for the given filter kind
func (p Params) Validate(k Kind) error {
	if !k.Valid() {
		return fmt.Errorf("%w %s", ErrUnknownFilter, k.String())
	}
	if k.IsSpatial() {
		if err := plane.CheckKernelSize(p.KernelSize); err != nil {
			return err
		}
	}
	switch k {
	case KindGaussian:
		if !positive(p.Sigma) {
			return fmt.Errorf("sigma %g must be positive: %w", p.Sigma, plane.ErrInvalidParameter)
		}
	case KindLighting:
		if !positive(p.Brightness) {
			return fmt.Errorf("brightness %g must be positive: %w", p.Brightness, plane.ErrInvalidParameter)
		}
	case KindGamma:
		if !positive(p.Gamma) {
			return fmt.Errorf("gamma %g must be positive: %w", p.Gamma, plane.ErrInvalidParameter)
		}
	case KindBinarize:
		if p.Threshold < 0 || p.Threshold > 255 {
			return fmt.Errorf("threshold %d outside [0,255]: %w", p.Threshold, plane.ErrInvalidParameter)
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Returns a human readable summary of the parameters used by the given kind
func (p Params) Describe(k Kind) string {
	switch k {
	case KindErode, KindDilate, KindMedian:
		return fmt.Sprintf("kernel %dx%d", p.KernelSize, p.KernelSize)
	case KindGaussian:
		return fmt.Sprintf("kernel %dx%d sigma %g", p.KernelSize, p.KernelSize, p.Sigma)
	case KindLighting:
		return fmt.Sprintf("brightness %g", p.Brightness)
	case KindGamma:
		return fmt.Sprintf("gamma %g", p.Gamma)
	case KindBinarize:
		return fmt.Sprintf("threshold %d", p.Threshold)
	}
	return ""
}
