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

package ops

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/klauspost/cpuid"
	"github.com/mlnoga/nightfilter/internal/channel"
	"github.com/mlnoga/nightfilter/internal/plane"
	"github.com/pbnjay/memory"
	"github.com/sirupsen/logrus"
)

// An execution context for operators
type Context struct {
	Log        *logrus.Logger
	MemoryMB   int // memory.TotalMemory()/1024/1024
	FilterMB   int // MemoryMB*7/10, budget for concurrent channel workers
	MaxThreads int `json:"maxThreads"`
}

func NewContext(log *logrus.Logger) *Context {
	memoryMB := int(memory.TotalMemory() / 1024 / 1024)
	maxThreads := runtime.GOMAXPROCS(0)
	if cores := cpuid.CPU.LogicalCores; cores > 0 && cores < maxThreads {
		maxThreads = cores
	}
	return &Context{
		Log:        log,
		MemoryMB:   memoryMB,
		FilterMB:   memoryMB * 7 / 10,
		MaxThreads: maxThreads,
	}
}

// Returns how many channels of an image with given size may be filtered
// concurrently, within both thread and memory budget. At least one
func (c *Context) ChannelThreads(width, height, kernelSize int) int {
	threads := c.MaxThreads
	if threads > plane.Channels {
		threads = plane.Channels
	}
	if c.FilterMB > 0 {
		perWorker := channel.WorkingSetBytes(width, height, kernelSize)
		if perWorker > 0 {
			if fit := int64(c.FilterMB) * 1024 * 1024 / perWorker; fit < int64(threads) {
				threads = int(fit)
			}
		}
	}
	if threads < 1 {
		threads = 1
	}
	return threads
}

// A promise for an image. Returns a materialized image, or an error
type Promise func() (img *plane.Image, err error)

// Materializes all promises with given concurrency limit
func MaterializeAll(ins []Promise, maxThreads int, forget bool) (outs []*plane.Image, err error) {
	if len(ins) == 0 {
		return nil, nil
	}
	if maxThreads < 1 {
		maxThreads = 1
	}
	if !forget {
		outs = make([]*plane.Image, len(ins))
	}
	limiter := make(chan bool, maxThreads)
	errs := make(chan error, len(ins))
	for i, in := range ins {
		limiter <- true
		go func(i int, theIn Promise) {
			defer func() { <-limiter }()
			img, err := theIn() // materialize the promise
			if err != nil {
				errs <- err
				return
			}
			if !forget {
				outs[i] = img
			}
			errs <- nil
		}(i, in)
	}
	for i := 0; i < cap(limiter); i++ { // wait for goroutines to finish
		limiter <- true
	}
	for i := 0; i < len(ins); i++ { // collect errors
		if e := <-errs; e != nil {
			if err == nil {
				err = e
			} else {
				err = fmt.Errorf("%w; %w", err, e)
			}
		}
	}
	return RemoveNils(outs), err
}

// Remove nils from an array of images, editing the underlying array in place
func RemoveNils(imgs []*plane.Image) []*plane.Image {
	o := 0
	for i := 0; i < len(imgs); i++ {
		if imgs[i] != nil {
			imgs[o] = imgs[i]
			o++
		}
	}
	for i := o; i < len(imgs); i++ {
		imgs[i] = nil
	}
	return imgs[:o]
}

// An general image processing operator: takes n promises as inputs,
// and produces m promises as output or an error
type Operator interface {
	GetType() string
	IsActive() bool
	MakePromises(ins []Promise, c *Context) (outs []Promise, err error)
}

// Base type for operators, including type information for JSON serializing/deserializing
type OpBase struct {
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

func (op *OpBase) GetType() string { return op.Type }
func (op *OpBase) IsActive() bool  { return op.Active }

// Factory method for operators. For JSON serializing/deserializing
type OperatorFactory func() Operator

// Mapping from operator type strings to factory method for the type
var operatorFactories = map[string]OperatorFactory{}

// Returns the operator factory for a given type string, or nil
func GetOperatorFactory(t string) OperatorFactory {
	return operatorFactories[t]
}

// Registers a given type string for a given type of Operator, identified via an exemplar generator
func SetOperatorFactory(f OperatorFactory) {
	op := f()
	t := op.GetType()
	if GetOperatorFactory(t) != nil {
		panic(fmt.Sprintf("error: re-registering operator key %s\n", t))
	}
	operatorFactories[t] = f
}

// Returns a new operator for the given type string. Fails for unregistered types
func NewOperator(t string) (Operator, error) {
	factory := GetOperatorFactory(t)
	if factory == nil {
		return nil, fmt.Errorf("%w: operator type '%s'", channel.ErrUnknownFilter, t)
	}
	return factory(), nil
}

// A unary image processing operator: given n promises as inputs,
// applies itself to each of them individually and returns n output promises or an error
type OperatorUnary interface {
	Operator
	Apply(img *plane.Image, c *Context) (result *plane.Image, err error)
}

// Abstract base type for unary operators. Uses golang workaround for abstract classes
// from https://golangbyexample.com/go-abstract-class/
type OpUnaryBase struct {
	OpBase
	Apply func(img *plane.Image, c *Context) (result *plane.Image, err error) `json:"-"`
}

func (op *OpUnaryBase) MakePromises(ins []Promise, c *Context) (outs []Promise, err error) {
	if len(ins) == 0 {
		return nil, fmt.Errorf("%s operator with %d inputs", op.Type, len(ins))
	}
	outs = make([]Promise, len(ins))
	for i, in := range ins {
		outs[i] = op.MakePromise(in, c)
	}
	return outs, nil
}

// Wraps a single input promise. Inactive operators pass images through,
// and nil images are passed on without applying the operator
func (op *OpUnaryBase) MakePromise(in Promise, c *Context) (out Promise) {
	return func() (img *plane.Image, err error) {
		if img, err = in(); err != nil || img == nil { // materialize input promise
			return nil, err
		}
		if !op.Active {
			return img, nil
		}
		if op.Apply == nil {
			return nil, errors.New("unary operator " + op.Type + " without implementation")
		}
		return op.Apply(img, c) // apply unary operator
	}
}
