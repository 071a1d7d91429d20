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
	"fmt"

	"github.com/mlnoga/nightfilter/internal/median"
	"github.com/mlnoga/nightfilter/internal/plane"
	"gonum.org/v1/gonum/stat"
)

// Basic statistics on an 8-bit plane
type Stats struct {
	Min    uint8   // Minimum
	Max    uint8   // Maximum
	Mean   float64 // Mean (average)
	StdDev float64 // Sample standard deviation
	Median uint8   // Median, truncating for even counts

	Mode  float64 // Location of the fitted histogram peak
	Noise float64 // Immerkær noise estimate
}

// Calculate statistics for the given plane. Empty planes yield all zeroes
func NewStats(p *plane.Plane) *Stats {
	s := &Stats{}
	if len(p.Pix) == 0 {
		return s
	}
	bins := Histogram(p)

	s.Min, s.Max = 255, 0
	values, weights := make([]float64, 0, NumBins), make([]float64, 0, NumBins)
	for v, b := range bins {
		if b == 0 {
			continue
		}
		if uint8(v) < s.Min {
			s.Min = uint8(v)
		}
		s.Max = uint8(v)
		values, weights = append(values, float64(v)), append(weights, float64(b))
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, weights)
	if len(p.Pix) == 1 {
		s.StdDev = 0
	}

	tmp := append([]uint8(nil), p.Pix...)
	s.Median = median.MedianUint8(tmp)

	if mode, _, err := GetModeStdDevFromHistogram(bins[:]); err == nil && mode >= 0 && mode <= 255 {
		s.Mode = mode
	} else {
		s.Mode, _ = GetPeak(bins[:])
	}
	s.Noise = EstimateNoise(p)
	return s
}

// Calculate statistics for each channel of the image, in R, G, B order
func ChannelStats(img *plane.Image) (s [plane.Channels]*Stats) {
	for ch, p := range plane.Split(img) {
		s[ch] = NewStats(p)
	}
	return s
}

// Pretty print stats to string
func (s *Stats) String() string {
	return fmt.Sprintf("Min %d Max %d Mean %.6g StdDev %.6g Median %d Mode %.4g Noise %.4g",
		s.Min, s.Max, s.Mean, s.StdDev, s.Median, s.Mode, s.Noise)
}

// Pretty print stats to CSV header
func (s *Stats) ToCSVHeader() string {
	return "Min,Max,Mean,StdDev,Median,Mode,Noise"
}

// Pretty print stats to CSV line item
func (s *Stats) ToCSVLine() string {
	return fmt.Sprintf("%d,%d,%.6g,%.6g,%d,%.4g,%.4g",
		s.Min, s.Max, s.Mean, s.StdDev, s.Median, s.Mode, s.Noise)
}
