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
	"fmt"

	"github.com/mlnoga/nightfilter/internal/filter"
	"github.com/mlnoga/nightfilter/internal/kernel"
	"github.com/mlnoga/nightfilter/internal/plane"
)

// A filter operating on a single plane. Must not modify its input
type PlaneFunc func(p *plane.Plane) (*plane.Plane, error)

// Returns the plane filter for the given kind with validated parameters.
// Structuring kernels and lookup tables are built once, and shared read-only
// by all channels.
func PlaneFilter(k Kind, params Params) (PlaneFunc, error) {
	if err := params.Validate(k); err != nil {
		return nil, err
	}

	switch k {
	case KindErode, KindDilate, KindMedian:
		structuring, err := kernel.Ones(params.KernelSize)
		if err != nil {
			return nil, err
		}
		reduce := map[Kind]func(*plane.Plane, *kernel.Kernel) (*plane.Plane, error){
			KindErode:  filter.Erode,
			KindDilate: filter.Dilate,
			KindMedian: filter.Median,
		}[k]
		return func(p *plane.Plane) (*plane.Plane, error) { return reduce(p, structuring) }, nil

	case KindGaussian:
		return func(p *plane.Plane) (*plane.Plane, error) {
			return filter.Gaussian(p, params.KernelSize, params.Sigma)
		}, nil

	case KindLighting:
		lut, err := filter.LightingLUT(params.Brightness)
		if err != nil {
			return nil, err
		}
		return lutFunc(lut), nil

	case KindGamma:
		lut, err := filter.GammaLUT(params.Gamma)
		if err != nil {
			return nil, err
		}
		return lutFunc(lut), nil

	case KindBinarize:
		lut, err := filter.BinarizeLUT(params.Threshold)
		if err != nil {
			return nil, err
		}
		return lutFunc(lut), nil
	}
	return nil, fmt.Errorf("%w %s", ErrUnknownFilter, k.String())
}

func lutFunc(lut *filter.LUT) PlaneFunc {
	return func(p *plane.Plane) (*plane.Plane, error) { return filter.ApplyLUT(p, lut), nil }
}

// Applies the named filter with given parameters to each color channel of the
// image independently, and recombines the results into a new image. Fails
// with ErrUnknownFilter for unrecognized names, before touching any channel.
func Apply(img *plane.Image, name string, params Params) (*plane.Image, error) {
	k, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return ApplyKind(img, k, params, 1)
}

// Applies the filter of given kind to each color channel of the image. Up to
// maxThreads channels are processed concurrently; values below two process
// them sequentially.
func ApplyKind(img *plane.Image, k Kind, params Params, maxThreads int) (*plane.Image, error) {
	f, err := PlaneFilter(k, params)
	if err != nil {
		return nil, err
	}
	out, err := PerChannel(img, f, maxThreads)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k.String(), err)
	}
	return out, nil
}

// Splits the image into planes, applies the plane filter to each, and merges
// the filtered planes. Each channel is filtered in its own goroutine, with
// concurrency limited to maxThreads.
func PerChannel(img *plane.Image, f PlaneFunc, maxThreads int) (*plane.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("missing image: %w", plane.ErrShapeMismatch)
	}
	if len(img.Pix) != img.Width*img.Height*plane.Channels {
		return nil, fmt.Errorf("image %s has %d samples: %w", img.DimensionsToString(), len(img.Pix), plane.ErrShapeMismatch)
	}
	if maxThreads < 1 {
		maxThreads = 1
	}
	if maxThreads > plane.Channels {
		maxThreads = plane.Channels
	}

	ins := plane.Split(img)
	var outs [plane.Channels]*plane.Plane
	var errs [plane.Channels]error

	limiter := make(chan bool, maxThreads)
	for ch := range ins {
		limiter <- true
		go func(ch int) {
			defer func() { <-limiter }()
			outs[ch], errs[ch] = f(ins[ch])
		}(ch)
	}
	for i := 0; i < cap(limiter); i++ { // wait for goroutines to finish
		limiter <- true
	}

	// all channels share parameters, so the first failure carries the cause
	for ch, e := range errs {
		if e != nil {
			return nil, fmt.Errorf("channel %s: %w", plane.ChannelNames[ch], e)
		}
	}

	merged, err := plane.Merge(outs[0], outs[1], outs[2])
	if err != nil {
		return nil, err
	}
	merged.ID, merged.FileName = img.ID, img.FileName
	return merged, nil
}

// Estimates the peak number of bytes a single channel worker allocates when
// filtering a plane of given size with the given kernel side
func WorkingSetBytes(width, height, kernelSize int) int64 {
	if kernelSize < 1 {
		kernelSize = 1
	}
	padded := int64(width+kernelSize-1) * int64(height+kernelSize-1)
	return padded + 2*int64(width)*int64(height) // padded copy, split plane, output
}
