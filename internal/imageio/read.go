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

package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mlnoga/nightfilter/internal/plane"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Raised for image files which cannot be decoded, or output formats which are not supported
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Load an image from file. PNG, JPEG, GIF, TIFF and BMP are supported
func Load(fileName string, id int) (*plane.Image, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	img.ID, img.FileName = id, fileName
	return img, nil
}

// Decode an image from the given reader, in any of the supported formats
func Decode(r io.Reader) (*plane.Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, err.Error())
	}
	img := FromImage(src)
	if img.Width == 0 || img.Height == 0 {
		return nil, fmt.Errorf("%w: empty %s image", ErrUnsupportedFormat, format)
	}
	return img, nil
}

// Converts a Golang image into an 8-bit RGB image. Premultiplied alpha is
// undone, and fully transparent pixels become black
func FromImage(src image.Image) *plane.Image {
	bounds := src.Bounds()
	img := plane.NewImage(bounds.Dy(), bounds.Dx())
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(src.At(x, y))
			if ok {
				img.Pix[i], img.Pix[i+1], img.Pix[i+2] = c.Clamped().RGB255()
			}
			i += plane.Channels
		}
	}
	return img
}

// Converts an 8-bit RGB image into an opaque Golang RGBA image
func ToRGBA(img *plane.Image) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for i, j := 0, 0; i < len(img.Pix); i, j = i+plane.Channels, j+4 {
		rgba.Pix[j], rgba.Pix[j+1], rgba.Pix[j+2], rgba.Pix[j+3] = img.Pix[i], img.Pix[i+1], img.Pix[i+2], 255
	}
	return rgba
}

// Converts a single plane into a Golang grayscale image
func PlaneToGray(p *plane.Plane) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for row := 0; row < p.Height; row++ {
		copy(gray.Pix[row*gray.Stride:], p.Row(row))
	}
	return gray
}
