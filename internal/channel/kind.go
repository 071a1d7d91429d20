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

package channel

import (
	"errors"
	"fmt"
)

// Raised when dispatching a filter name that is not recognized
var ErrUnknownFilter = errors.New("unknown filter")

// A filter kind the orchestrator can dispatch to
type Kind int

const (
	KindErode Kind = iota
	KindDilate
	KindMedian
	KindGaussian
	KindLighting
	KindGamma
	KindBinarize
	numKinds
)

var kindNames = [numKinds]string{
	KindErode:    "erode",
	KindDilate:   "dilate",
	KindMedian:   "median",
	KindGaussian: "gaussian",
	KindLighting: "lighting_correction",
	KindGamma:    "gamma_correction",
	KindBinarize: "binarization",
}

// Returns all recognized filter kinds, in declaration order
func Kinds() []Kind {
	ks := make([]Kind, numKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// Parses a filter name into its kind
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return -1, fmt.Errorf("%w '%s'", ErrUnknownFilter, name)
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// Returns true for filters which read a neighborhood, and hence take a kernel size
func (k Kind) IsSpatial() bool {
	switch k {
	case KindErode, KindDilate, KindMedian, KindGaussian:
		return true
	}
	return false
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w %s", ErrUnknownFilter, k.String())
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
