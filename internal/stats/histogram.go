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

package stats

import (
	"errors"
	"math"

	"github.com/mlnoga/nightfilter/internal/plane"
	"gonum.org/v1/gonum/optimize"
)

// Number of bins in an 8-bit histogram, one per sample value
const NumBins = 256

// Raised when fitting a histogram without samples
var ErrEmptyHistogram = errors.New("empty histogram")

// Calculate histogram of the plane's samples, one bin per value
func Histogram(p *plane.Plane) (bins [NumBins]int32) {
	for _, v := range p.Pix {
		bins[v]++
	}
	return bins
}

// Calculate per-channel histograms of the image, in R, G, B order
func ChannelHistograms(img *plane.Image) (bins [plane.Channels][NumBins]int32) {
	for i, v := range img.Pix {
		bins[i%plane.Channels][v]++
	}
	return bins
}

// Returns the total number of samples in the histogram
func Count(bins []int32) int64 {
	n := int64(0)
	for _, b := range bins {
		n += int64(b)
	}
	return n
}

// Returns the location and the value of the histogram peak. Ties go to the lowest value
func GetPeak(bins []int32) (x, y float64) {
	maxIndex, maxValue := 0, int32(math.MinInt32)
	for i, v := range bins {
		if v > maxValue {
			maxIndex, maxValue = i, v
		}
	}
	return float64(maxIndex), float64(maxValue)
}

// Calculates the mode and the standard deviation of the given histogram, by
// fitting a normal distribution with Nelder-Mead
func GetModeStdDevFromHistogram(bins []int32) (mode, stdDev float64, err error) {
	n := Count(bins)
	if n == 0 {
		return 0, 0, ErrEmptyHistogram
	}

	// Take an educated initial guess: the histogram peak, and the moment-based spread
	peak, _ := GetPeak(bins)
	sigma0 := momentStdDev(bins, n)
	if sigma0 < 1 {
		sigma0 = 1
	}

	// Now minimize the distance between the histogram and a normal distribution
	x0 := []float64{float64(n), peak, sigma0}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			alpha, mu, sigma := x[0], x[1], math.Abs(x[2])
			if sigma < 1e-3 {
				sigma = 1e-3
			}
			scaler := alpha / (sigma * math.Sqrt(2*math.Pi))
			sumSqDiff := 0.0
			for i, y := range bins {
				xmusig := (float64(i) - mu) / sigma
				diff := float64(y) - scaler*math.Exp(-0.5*xmusig*xmusig)
				sumSqDiff += diff * diff
			}
			return math.Sqrt(sumSqDiff / float64(len(bins)))
		},
	}
	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return -1, -1, err
	}
	return result.X[1], math.Abs(result.X[2]), nil
}

func momentStdDev(bins []int32, n int64) float64 {
	mean := 0.0
	for i, b := range bins {
		mean += float64(i) * float64(b)
	}
	mean /= float64(n)
	variance := 0.0
	for i, b := range bins {
		d := float64(i) - mean
		variance += d * d * float64(b)
	}
	return math.Sqrt(variance / float64(n))
}
