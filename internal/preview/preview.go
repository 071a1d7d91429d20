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

package preview

import (
	"fmt"
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mlnoga/nightfilter/internal/imageio"
	"github.com/mlnoga/nightfilter/internal/plane"
	"github.com/mlnoga/nightfilter/internal/stats"
	"golang.org/x/image/draw"
)

// Number of cells per row of a contact sheet: the image itself, then R, G and B
const SheetColumns = 1 + plane.Channels

// Renders a contact sheet with the image and its channels in the first row, and
// the same for the filtered image in the second row. A nil filtered image yields
// a single row. Cells are cellWidth pixels wide and preserve the aspect ratio.
func ContactSheet(orig, filtered *plane.Image, cellWidth int) (*plane.Image, error) {
	if cellWidth < 1 {
		return nil, fmt.Errorf("cell width %d: %w", cellWidth, plane.ErrInvalidParameter)
	}
	if orig == nil || orig.Width == 0 || orig.Height == 0 {
		return nil, fmt.Errorf("contact sheet of empty image: %w", plane.ErrShapeMismatch)
	}
	rows := []*plane.Image{orig}
	if filtered != nil {
		rows = append(rows, filtered)
	}

	cellHeight := (cellWidth*orig.Height + orig.Width/2) / orig.Width
	if cellHeight < 1 {
		cellHeight = 1
	}
	sheet := image.NewRGBA(image.Rect(0, 0, SheetColumns*cellWidth, len(rows)*cellHeight))
	draw.Draw(sheet, sheet.Bounds(), image.White, image.Point{}, draw.Src)

	for r, img := range rows {
		cells := []image.Image{imageio.ToRGBA(img)}
		for _, p := range plane.Split(img) {
			cells = append(cells, imageio.PlaneToGray(p))
		}
		for c, cell := range cells {
			dst := image.Rect(c*cellWidth, r*cellHeight, (c+1)*cellWidth, (r+1)*cellHeight)
			draw.CatmullRom.Scale(sheet, dst, cell, cell.Bounds(), draw.Src, nil)
		}
	}
	return imageio.FromImage(sheet), nil
}

// Channel hues for histogram bars, in degrees
var channelHues = [plane.Channels]float64{0, 120, 240}

// Renders per-channel histograms, one column per channel. The first row shows
// the original image in lighter colors, the optional second row the filtered one.
func HistogramChart(orig, filtered *plane.Image, width, height int) (*plane.Image, error) {
	if orig == nil {
		return nil, fmt.Errorf("histogram chart of missing image: %w", plane.ErrShapeMismatch)
	}
	rows := []*plane.Image{orig}
	if filtered != nil {
		rows = append(rows, filtered)
	}
	cellWidth, cellHeight := width/plane.Channels, height/len(rows)
	if cellWidth < 1 || cellHeight < 1 {
		return nil, fmt.Errorf("chart size %dx%d: %w", width, height, plane.ErrInvalidParameter)
	}

	chart := image.NewRGBA(image.Rect(0, 0, cellWidth*plane.Channels, cellHeight*len(rows)))
	draw.Draw(chart, chart.Bounds(), image.White, image.Point{}, draw.Src)

	for r, img := range rows {
		saturation := 1.0
		if r == 0 && len(rows) > 1 {
			saturation = 0.4
		}
		for ch, bins := range stats.ChannelHistograms(img) {
			bar := colorful.Hsv(channelHues[ch], saturation, 0.9)
			cell := image.Rect(ch*cellWidth, r*cellHeight, (ch+1)*cellWidth, (r+1)*cellHeight)
			drawHistogram(chart, cell, bins[:], bar)
		}
	}
	return imageio.FromImage(chart), nil
}

// Draws histogram bars scaled to the tallest bin into the given cell
func drawHistogram(dst draw.Image, cell image.Rectangle, bins []int32, c color.Color) {
	peak := int32(0)
	for _, b := range bins {
		if b > peak {
			peak = b
		}
	}
	if peak == 0 {
		return
	}
	w, h := cell.Dx(), cell.Dy()
	for x := 0; x < w; x++ {
		// maximum over all bins falling into this column
		lo, hi := x*len(bins)/w, (x+1)*len(bins)/w
		if hi <= lo {
			hi = lo + 1
		}
		v := int32(0)
		for _, b := range bins[lo:hi] {
			if b > v {
				v = b
			}
		}
		barHeight := int(int64(v) * int64(h) / int64(peak))
		if barHeight == 0 && v > 0 {
			barHeight = 1
		}
		for y := 0; y < barHeight; y++ {
			dst.Set(cell.Min.X+x, cell.Max.Y-1-y, c)
		}
	}
}
