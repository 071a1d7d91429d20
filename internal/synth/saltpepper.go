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

package synth

import (
	"fmt"
	"math"

	"github.com/mlnoga/nightfilter/internal/plane"
	"github.com/valyala/fastrand"
)

// Returns a copy of the image with salt and pepper noise. Each pixel is hit with
// the given probability in [0,1], and then set to black or white in all
// channels with equal chance. A nil rng uses the global generator
func SaltAndPepper(img *plane.Image, density float64, rng *fastrand.RNG) (*plane.Image, error) {
	if math.IsNaN(density) || density < 0 || density > 1 {
		return nil, fmt.Errorf("noise density %g outside [0,1]: %w", density, plane.ErrInvalidParameter)
	}
	next := fastrand.Uint32n
	if rng != nil {
		next = rng.Uint32n
	}

	res := plane.NewImageFromImage(img)
	threshold := uint32(math.Round(density * (1 << 24)))
	for i := 0; i < len(res.Pix); i += plane.Channels {
		if next(1<<24) >= threshold {
			continue
		}
		v := uint8(0)
		if next(2) == 1 {
			v = 255
		}
		res.Pix[i], res.Pix[i+1], res.Pix[i+2] = v, v, v
	}
	return res, nil
}
