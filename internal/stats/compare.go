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

	"github.com/mlnoga/nightfilter/internal/plane"
)

// Statistics of one channel before and after filtering
type Comparison struct {
	Channel string
	Before  *Stats
	After   *Stats
}

// Compares per-channel statistics of an image before and after filtering.
// The images may differ in size.
func CompareImages(before, after *plane.Image) ([plane.Channels]Comparison, error) {
	var res [plane.Channels]Comparison
	if before == nil || after == nil {
		return res, fmt.Errorf("comparing images: missing image: %w", plane.ErrShapeMismatch)
	}
	b, a := ChannelStats(before), ChannelStats(after)
	for ch := range res {
		res[ch] = Comparison{Channel: plane.ChannelNames[ch], Before: b[ch], After: a[ch]}
	}
	return res, nil
}

// Pretty print the comparison, one line for each side
func (c Comparison) String() string {
	return fmt.Sprintf("%s before: %s\n%s after:  %s", c.Channel, c.Before, c.Channel, c.After)
}
