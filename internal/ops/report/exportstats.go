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
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/mlnoga/nightfilter/internal/ops"
	"github.com/mlnoga/nightfilter/internal/plane"
	"github.com/mlnoga/nightfilter/internal/stats"
)

// Appends per-channel statistics of each image to a CSV file. The file is
// created with a header on the first image, and appended to afterwards
type OpExportStats struct {
	ops.OpUnaryBase
	FileName string `json:"fileName"`

	mutex   sync.Mutex
	started bool
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpExportStatsDefault() }) } // register the operator for JSON decoding

func NewOpExportStatsDefault() *OpExportStats { return NewOpExportStats("stats.csv") }

func NewOpExportStats(fileName string) *OpExportStats {
	op := &OpExportStats{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: "exportStats", Active: true}},
		FileName:    fileName,
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpExportStats) UnmarshalJSON(data []byte) error {
	var def struct {
		ops.OpBase
		FileName string `json:"fileName"`
	}
	d := NewOpExportStatsDefault()
	def.OpBase, def.FileName = d.OpBase, d.FileName
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	op.OpBase, op.FileName, op.started = def.OpBase, def.FileName, false
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op
	return nil
}

const csvHeaderPrefix = "ID,File,Channel,"

func (op *OpExportStats) Apply(img *plane.Image, c *ops.Context) (result *plane.Image, err error) {
	if op.FileName == "" {
		c.Log.WithField("id", img.ID).Warn("exportStats empty fileName")
		return img, nil
	}
	s := stats.ChannelStats(img) // outside the lock

	op.mutex.Lock()         // lock so a single thread is active
	defer op.mutex.Unlock() // always release lock on exit

	flags := os.O_WRONLY | os.O_APPEND
	if !op.started {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	file, err := os.OpenFile(op.FileName, flags, 0666)
	if err != nil {
		return nil, fmt.Errorf("error opening file %s: %w", op.FileName, err)
	}
	defer file.Close()
	writer := bufio.NewWriter(file)

	if !op.started {
		c.Log.Infof("Writing statistics header to file %s", op.FileName)
		fmt.Fprintf(writer, "%s%s\n", csvHeaderPrefix, s[0].ToCSVHeader())
		op.started = true
	}
	c.Log.WithField("id", img.ID).Infof("Writing statistics to file %s", op.FileName)
	for ch, cs := range s {
		fmt.Fprintf(writer, "%d,%q,%s,%s\n", img.ID, img.FileName, plane.ChannelNames[ch], cs.ToCSVLine())
	}
	if err := writer.Flush(); err != nil {
		return nil, fmt.Errorf("error writing file %s: %w", op.FileName, err)
	}
	return img, nil
}
