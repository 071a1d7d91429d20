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
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlnoga/nightfilter/internal/plane"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Output formats
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatTIFF = "tiff"
	FormatBMP  = "bmp"
)

// Quality setting for JPEG output
const JPEGQuality = 95

// Returns the output format matching the file name suffix
func FormatFromFileName(fileName string) (string, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(fileName), "."))
}

// Parses a format name or common file suffix, case insensitively
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(name) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	}
	return "", fmt.Errorf("%w '%s'", ErrUnsupportedFormat, name)
}

// Returns the MIME content type for the given format
func ContentType(format string) string {
	switch format {
	case FormatJPEG:
		return "image/jpeg"
	case FormatTIFF:
		return "image/tiff"
	case FormatBMP:
		return "image/bmp"
	}
	return "image/png"
}

// Save an image to file, in the format given by the file name suffix
func Save(img *plane.Image, fileName string) error {
	format, err := FormatFromFileName(fileName)
	if err != nil {
		return err
	}

	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := Encode(writer, img, format); err != nil {
		return err
	}
	return writer.Flush()
}

// Encode an image in the given format
func Encode(w io.Writer, img *plane.Image, format string) error {
	rgba := ToRGBA(img)
	switch format {
	case FormatPNG:
		return png.Encode(w, rgba)
	case FormatJPEG:
		return jpeg.Encode(w, rgba, &jpeg.Options{Quality: JPEGQuality})
	case FormatTIFF:
		return tiff.Encode(w, rgba, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		return bmp.Encode(w, rgba)
	}
	return fmt.Errorf("%w '%s'", ErrUnsupportedFormat, format)
}
