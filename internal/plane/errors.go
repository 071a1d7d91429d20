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
	"errors"
)

// Error taxonomy shared by all filters. Callers test with errors.Is, since
// the returned errors carry context wrapped around these sentinels.
var (
	// Kernel side length is even, below one, or the kernel selects no cells
	ErrInvalidKernelSize = errors.New("invalid kernel size")

	// A scalar filter parameter is out of its valid range
	ErrInvalidParameter = errors.New("invalid parameter")

	// Planes of unequal dimensions were combined
	ErrShapeMismatch = errors.New("shape mismatch")
)
