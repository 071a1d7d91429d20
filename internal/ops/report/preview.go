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

package report

import (
	"encoding/json"
	"fmt"

	"github.com/mlnoga/nightfilter/internal/imageio"
	"github.com/mlnoga/nightfilter/internal/ops"
	"github.com/mlnoga/nightfilter/internal/plane"
	"github.com/mlnoga/nightfilter/internal/preview"
)

// Writes a contact sheet of each image and its channels, and optionally a
// chart of the channel histograms. File patterns expand %d to the image ID
type OpPreview struct {
	ops.OpUnaryBase
	FilePattern      string `json:"filePattern"`
	HistogramPattern string `json:"histogramPattern"`
	CellWidth        int    `json:"cellWidth"`
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpPreviewDefault() }) } // register the operator for JSON decoding

func NewOpPreviewDefault() *OpPreview { return NewOpPreview("preview%d.png", "", 256) }

func NewOpPreview(filePattern, histogramPattern string, cellWidth int) *OpPreview {
	op := OpPreview{
		OpUnaryBase:      ops.OpUnaryBase{OpBase: ops.OpBase{Type: "preview", Active: true}},
		FilePattern:      filePattern,
		HistogramPattern: histogramPattern,
		CellWidth:        cellWidth,
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return &op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpPreview) UnmarshalJSON(data []byte) error {
	type defaults OpPreview
	def := defaults(*NewOpPreviewDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpPreview(def)
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpPreview) Apply(img *plane.Image, c *ops.Context) (result *plane.Image, err error) {
	log := c.Log.WithField("id", img.ID)
	if op.FilePattern != "" {
		sheet, err := preview.ContactSheet(img, nil, op.CellWidth)
		if err != nil {
			return nil, fmt.Errorf("%d: %w", img.ID, err)
		}
		fileName := ops.ExpandPattern(op.FilePattern, img.ID)
		log.Infof("Writing %s pixel contact sheet to %s", sheet.DimensionsToString(), fileName)
		if err := imageio.Save(sheet, fileName); err != nil {
			return nil, fmt.Errorf("%d: %w", img.ID, err)
		}
	}
	if op.HistogramPattern != "" {
		chart, err := preview.HistogramChart(img, nil, 3*op.CellWidth, op.CellWidth)
		if err != nil {
			return nil, fmt.Errorf("%d: %w", img.ID, err)
		}
		fileName := ops.ExpandPattern(op.HistogramPattern, img.ID)
		log.Infof("Writing histogram chart to %s", fileName)
		if err := imageio.Save(chart, fileName); err != nil {
			return nil, fmt.Errorf("%d: %w", img.ID, err)
		}
	}
	return img, nil
}
