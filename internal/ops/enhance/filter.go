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
	"fmt"

	"github.com/mlnoga/nightfilter/internal/channel"
	"github.com/mlnoga/nightfilter/internal/ops"
	"github.com/mlnoga/nightfilter/internal/plane"
)

// Applies one of the per-channel filters to each image. The operator type is
// the filter name, e.g. "median" or "gamma_correction"
type OpFilter struct {
	ops.OpUnaryBase
	channel.Params
	kind channel.Kind
}

func init() { // register one operator per filter kind for JSON decoding
	for _, k := range channel.Kinds() {
		k := k
		ops.SetOperatorFactory(func() ops.Operator { return NewOpFilterDefault(k) })
	}
}

func NewOpFilterDefault(k channel.Kind) *OpFilter { return NewOpFilter(k, channel.DefaultParams()) }

func NewOpFilter(k channel.Kind, params channel.Params) *OpFilter {
	op := OpFilter{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: k.String(), Active: true}},
		Params:      params,
		kind:        k,
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return &op
}

// Returns a filter operator for the given filter name
func NewOpFilterByName(name string, params channel.Params) (*OpFilter, error) {
	k, err := channel.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return NewOpFilter(k, params), nil
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpFilter) UnmarshalJSON(data []byte) error {
	type defaults OpFilter
	def := defaults(*NewOpFilterDefault(op.kind))
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	k, err := channel.ParseKind(def.Type)
	if err != nil {
		return err
	}
	*op = OpFilter(def)
	op.kind = k
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpFilter) Kind() channel.Kind { return op.kind }

func (op *OpFilter) Apply(img *plane.Image, c *ops.Context) (result *plane.Image, err error) {
	if err := op.Params.Validate(op.kind); err != nil {
		return nil, fmt.Errorf("%d: %s: %w", img.ID, op.kind, err)
	}
	kernelSize := 1
	if op.kind.IsSpatial() {
		kernelSize = op.KernelSize
	}
	threads := c.ChannelThreads(img.Width, img.Height, kernelSize)

	log := c.Log.WithField("id", img.ID)
	log.WithField("threads", threads).Debugf("Applying %s with %s", op.kind, op.Params.Describe(op.kind))
	result, err = channel.ApplyKind(img, op.kind, op.Params, threads)
	if err != nil {
		return nil, fmt.Errorf("%d: %w", img.ID, err)
	}
	log.Infof("Applied %s with %s to %s image", op.kind, op.Params.Describe(op.kind), img.DimensionsToString())
	return result, nil
}
