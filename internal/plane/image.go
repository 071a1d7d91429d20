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

package plane

import (
	"fmt"
)

// Number of color channels in an Image
const Channels = 3

// Channel names, in storage order
var ChannelNames = [Channels]string{"R", "G", "B"}

// An 8-bit RGB image, stored as a (Height, Width, 3) grid with the channel
// varying fastest.
type Image struct {
	ID       int    // Sequential ID number, for log output
	FileName string // Original file name, if any, for log output

	Width  int
	Height int
	Pix    []uint8 // len(Pix) == Height*Width*Channels
}

// Creates a zero-filled image of given height and width
func NewImage(height, width int) *Image {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, height*width*Channels),
	}
}

// Creates an image with the given ID and file name, and a freshly allocated
// copy of the source's pixels
func NewImageFromImage(img *Image) *Image {
	return &Image{
		ID:       img.ID,
		FileName: img.FileName,
		Width:    img.Width,
		Height:   img.Height,
		Pix:      append([]uint8(nil), img.Pix...),
	}
}

// Returns the sample at the given row, column and channel
func (img *Image) At(row, col, ch int) uint8 {
	return img.Pix[(row*img.Width+col)*Channels+ch]
}

// Sets the sample at the given row, column and channel
func (img *Image) Set(row, col, ch int, v uint8) {
	img.Pix[(row*img.Width+col)*Channels+ch] = v
}

// Returns true if both images have the same shape and samples. Metadata is ignored
func (img *Image) Equal(o *Image) bool {
	if img.Width != o.Width || img.Height != o.Height || len(img.Pix) != len(o.Pix) {
		return false
	}
	for i, v := range img.Pix {
		if o.Pix[i] != v {
			return false
		}
	}
	return true
}

func (img *Image) DimensionsToString() string {
	return fmt.Sprintf("%dx%dx%d", img.Width, img.Height, Channels)
}

// Splits the image into its R, G and B planes. Each plane is a new allocation
func Split(img *Image) [Channels]*Plane {
	var planes [Channels]*Plane
	for ch := range planes {
		planes[ch] = ExtractChannel(img, ch)
	}
	return planes
}

// Copies a single channel of the image into a new plane
func ExtractChannel(img *Image, ch int) *Plane {
	p := NewPlane(img.Height, img.Width)
	for i := range p.Pix {
		p.Pix[i] = img.Pix[i*Channels+ch]
	}
	return p
}

// Stacks R, G and B planes into a new image. All planes must share the same
// dimensions.
func Merge(r, g, b *Plane) (*Image, error) {
	if r == nil || g == nil || b == nil {
		return nil, fmt.Errorf("merging channels: missing plane: %w", ErrShapeMismatch)
	}
	if !r.SameShape(g) || !r.SameShape(b) {
		return nil, fmt.Errorf("merging channels of size %s, %s and %s: %w",
			r.DimensionsToString(), g.DimensionsToString(), b.DimensionsToString(), ErrShapeMismatch)
	}

	img := NewImage(r.Height, r.Width)
	for ch, p := range [Channels]*Plane{r, g, b} {
		i := ch
		for row := 0; row < p.Height; row++ {
			for _, v := range p.Row(row) {
				img.Pix[i] = v
				i += Channels
			}
		}
	}
	return img, nil
}
