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

package enhance

import (
	"encoding/json"

	"github.com/mlnoga/nightfilter/internal/ops"
	"github.com/mlnoga/nightfilter/internal/plane"
	"github.com/mlnoga/nightfilter/internal/synth"
)

// Adds salt and pepper noise to each image, for testing filters
type OpSaltAndPepper struct {
	ops.OpUnaryBase
	Density float64 `json:"density"` // Fraction of pixels hit
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpSaltAndPepperDefault() }) } // register the operator for JSON decoding

func NewOpSaltAndPepperDefault() *OpSaltAndPepper { return NewOpSaltAndPepper(0.05) }

func NewOpSaltAndPepper(density float64) *OpSaltAndPepper {
	op := OpSaltAndPepper{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: "saltAndPepper", Active: true}},
		Density:     density,
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return &op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpSaltAndPepper) UnmarshalJSON(data []byte) error {
	type defaults OpSaltAndPepper
	def := defaults(*NewOpSaltAndPepperDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpSaltAndPepper(def)
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpSaltAndPepper) Apply(img *plane.Image, c *ops.Context) (result *plane.Image, err error) {
	result, err = synth.SaltAndPepper(img, op.Density, nil)
	if err != nil {
		return nil, err
	}
	c.Log.WithField("id", img.ID).Infof("Added salt and pepper noise with density %g", op.Density)
	return result, nil
}
