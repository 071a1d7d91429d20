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
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlnoga/nightfilter/internal/plane"
	"github.com/valyala/fastrand"
)

func randomImage(height, width int) *plane.Image {
	rng := &fastrand.RNG{}
	img := plane.NewImage(height, width)
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Uint32n(256))
	}
	return img
}

func TestLosslessRoundTrip(t *testing.T) {
	img := randomImage(9, 14)
	for _, format := range []string{FormatPNG, FormatTIFF, FormatBMP} {
		var buf bytes.Buffer
		if err := Encode(&buf, img, format); err != nil {
			t.Fatalf("%s: %s", format, err)
		}
		got, err := Decode(&buf)
		if err != nil {
			t.Fatalf("%s: %s", format, err)
		}
		if !got.Equal(img) {
			t.Errorf("%s: decoded image differs", format)
		}
	}
}

func TestJPEGRoundTripIsClose(t *testing.T) {
	img := plane.NewImage(16, 16)
	for i := range img.Pix {
		img.Pix[i] = []uint8{200, 100, 50}[i%plane.Channels]
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, FormatJPEG); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range got.Pix {
		if d := int(v) - int(img.Pix[i]); d < -4 || d > 4 {
			t.Fatalf("sample %d=%d; want %d +-4", i, v, img.Pix[i])
		}
	}
}

func TestSaveLoad(t *testing.T) {
	img := randomImage(5, 7)
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.TIF", "c.bmp"} {
		fileName := filepath.Join(dir, name)
		if err := Save(img, fileName); err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		got, err := Load(fileName, 3)
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		if got.ID != 3 || got.FileName != fileName {
			t.Errorf("%s: id=%d file=%s; want 3 %s", name, got.ID, got.FileName, fileName)
		}
		if !got.Equal(img) {
			t.Errorf("%s: loaded image differs", name)
		}
	}

	if err := Save(img, filepath.Join(dir, "d.xyz")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("save .xyz err=%v; want ErrUnsupportedFormat", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.png"), 0); err == nil {
		t.Errorf("loading a missing file succeeded")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode(strings.NewReader("not an image")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err=%v; want ErrUnsupportedFormat", err)
	}
}

func TestParseFormat(t *testing.T) {
	tcs := []struct{ in, want string }{
		{"png", FormatPNG}, {"JPG", FormatJPEG}, {"jpeg", FormatJPEG},
		{"tif", FormatTIFF}, {"tiff", FormatTIFF}, {"bmp", FormatBMP},
	}
	for _, tc := range tcs {
		if got, err := ParseFormat(tc.in); err != nil || got != tc.want {
			t.Errorf("ParseFormat(%s)=%s, %v; want %s", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParseFormat("webp"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("webp err=%v; want ErrUnsupportedFormat", err)
	}
	if got, _ := FormatFromFileName("dir/x.Jpeg"); got != FormatJPEG {
		t.Errorf("FormatFromFileName=%s; want jpeg", got)
	}
}

func TestFromImageAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{200, 100, 50, 0})
	src.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 128})
	img := FromImage(src)
	if img.At(0, 0, 0) != 0 || img.At(0, 0, 1) != 0 || img.At(0, 0, 2) != 0 {
		t.Errorf("transparent pixel=%v; want black", img.Pix[:3])
	}
	for ch, want := range []int{200, 100, 50} {
		if d := int(img.At(0, 1, ch)) - want; d < -1 || d > 1 {
			t.Errorf("channel %d=%d; want %d +-1", ch, img.At(0, 1, ch), want)
		}
	}
}

func TestPlaneToGray(t *testing.T) {
	p, _ := plane.NewPlaneFromRows([][]uint8{{1, 2, 3}, {4, 5, 6}})
	gray := PlaneToGray(p)
	if gray.Bounds().Dx() != 3 || gray.Bounds().Dy() != 2 {
		t.Fatalf("bounds=%v; want 3x2", gray.Bounds())
	}
	if v := gray.GrayAt(2, 1).Y; v != 6 {
		t.Errorf("gray(2,1)=%d; want 6", v)
	}
}
