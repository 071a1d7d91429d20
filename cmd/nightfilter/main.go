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

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/klauspost/cpuid"
	"github.com/mlnoga/nightfilter/internal/channel"
	"github.com/mlnoga/nightfilter/internal/imageio"
	"github.com/mlnoga/nightfilter/internal/logging"
	"github.com/mlnoga/nightfilter/internal/ops"
	"github.com/mlnoga/nightfilter/internal/ops/enhance"
	"github.com/mlnoga/nightfilter/internal/ops/report"
	"github.com/mlnoga/nightfilter/internal/plane"
	"github.com/mlnoga/nightfilter/internal/preview"
	"github.com/mlnoga/nightfilter/internal/rest"
	"github.com/mlnoga/nightfilter/internal/stats"
	"github.com/pbnjay/memory"
	"github.com/sirupsen/logrus"
)

const version = "0.1.0"

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

var out = flag.String("out", "out%d.png", "save output with given filename pattern, %d expands to the image ID. Suffix selects png, jpg, tif or bmp")
var logFile = flag.String("log", "", "save log output to `file`. `%auto` replaces suffix of output file with .log")
var debugLog = flag.Bool("debug", false, "log debug messages as text instead of JSON")
var threads = flag.Int("threads", 0, "maximum number of images to process concurrently, 0=auto")

var filterName = flag.String("filter", "median", "filter to apply, one of erode, dilate, median, gaussian, lighting_correction, gamma_correction, binarization")
var kernelSize = flag.Int("kernel", 3, "odd kernel side length for spatial filters")
var sigma = flag.Float64("sigma", 2, "standard deviation of the gaussian kernel")
var brightness = flag.Float64("brightness", 2, "multiplier for lighting correction")
var gamma = flag.Float64("gamma", 0.5, "exponent for gamma correction")
var threshold = flag.Int("threshold", 128, "threshold for binarization, in [0,255]")

var previewPattern = flag.String("preview", "", "save contact sheet of original and filtered channels with given filename pattern, e.g. `preview%d.png`")
var histoPattern = flag.String("histo", "", "save histograms of original and filtered channels with given filename pattern, e.g. `histo%d.png`")
var cellWidth = flag.Int("cellWidth", 256, "width of a single preview cell in pixels")

var pipeline = flag.String("pipeline", "", "run the pipeline from given JSON or YAML `file`")
var density = flag.Float64("density", 0.05, "fraction of pixels hit by salt and pepper noise")

var chroot = flag.String("chroot", "", "chroot to given directory before serving (requires root)")
var setuid = flag.Int("setuid", -1, "change to given user ID before serving, -1=keep")
var addr = flag.String("addr", ":8080", "listen on given address when serving")

func main() {
	start := time.Now()
	flag.Usage = func() {
		fmt.Fprintf(os.Stdout, `Nightfilter Copyright (c) 2020 Markus L. Noga
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (filter|pipeline|stats|noise|filters|serve|legal|version) (img0.png ... imgn.png)

Commands:
  filter   Apply the filter given by -filter to each color channel of the input images
  pipeline Run the pipeline given by -pipeline on the input images
  stats    Show per-channel statistics of the input images
  noise    Add salt and pepper noise to the input images
  filters  List available filters with default parameters
  serve    Serve the REST API and upload page
  legal    Show license and attribution information
  version  Show version information

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Initialize logging to file in addition to stdout, if selected
	if *logFile == "%auto" {
		if *out != "" {
			*logFile = strings.ReplaceAll(strings.TrimSuffix(*out, filepath.Ext(*out)), "%d", "") + ".log"
		} else {
			*logFile = ""
		}
	}
	log, logSink, err := logging.New(*debugLog, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open logfile '%s': %s\n", *logFile, err.Error())
		os.Exit(1)
	}
	defer logSink.Close()

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("Could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("Could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	c := ops.NewContext(log)
	if *threads > 0 {
		c.MaxThreads = *threads
	}

	// run actions
	switch args[0] {
	case "filter":
		err = cmdFilter(args[1:], c)

	case "pipeline":
		err = cmdPipeline(args[1:], c)

	case "stats":
		err = run(ops.NewOpSequence(ops.NewOpLoadMany(args[1:]), report.NewOpStats()), c)

	case "noise":
		err = run(ops.NewOpSequence(
			ops.NewOpLoadMany(args[1:]),
			enhance.NewOpSaltAndPepper(*density),
			ops.NewOpSave(*out),
		), c)

	case "filters":
		cmdFilters()

	case "serve":
		if err = rest.MakeSandbox(*chroot, *setuid, log); err == nil {
			err = rest.Serve(*addr, c)
		}

	case "legal":
		cmdLegal()

	case "version":
		cmdVersion(c)

	case "help", "?":
		flag.Usage()

	default:
		fmt.Fprintf(os.Stdout, "Unknown command '%s'\n\n", args[0])
		flag.Usage()
		return
	}

	log.Infof("Done after %v", time.Since(start))

	// Store memory profile if flagged
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal("Could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			log.Fatal("Could not write allocation profile: ", err)
		}
	}

	if err != nil {
		log.Error(err.Error())
		logSink.Close()
		os.Exit(-1)
	}
}

// Materializes all promises of the given operator, discarding the images
func run(op ops.Operator, c *ops.Context) error {
	promises, err := op.MakePromises(nil, c)
	if err != nil {
		return err
	}
	_, err = ops.MaterializeAll(promises, c.MaxThreads, true)
	return err
}

// Applies the selected filter to each input, saving results and optional previews
func cmdFilter(fileNames []string, c *ops.Context) error {
	params := channel.Params{
		KernelSize: *kernelSize,
		Sigma:      *sigma,
		Brightness: *brightness,
		Gamma:      *gamma,
		Threshold:  *threshold,
	}
	opFilter, err := enhance.NewOpFilterByName(*filterName, params)
	if err != nil {
		return err
	}
	if err := params.Validate(opFilter.Kind()); err != nil {
		return fmt.Errorf("%s: %w", opFilter.Kind(), err)
	}
	opSave := ops.NewOpSave(*out)

	loads, err := ops.NewOpLoadMany(fileNames).MakePromises(nil, c)
	if err != nil {
		return err
	}
	promises := make([]ops.Promise, len(loads))
	for i, load := range loads {
		promises[i] = comparePromise(load, opFilter, opSave, c)
	}
	_, err = ops.MaterializeAll(promises, c.MaxThreads, true)
	return err
}

// Filters and saves the image, then renders and logs the comparison of
// original and filtered image
func comparePromise(in ops.Promise, opFilter *enhance.OpFilter, opSave *ops.OpSave, c *ops.Context) ops.Promise {
	return func() (*plane.Image, error) {
		orig, err := in()
		if err != nil {
			return nil, err
		}
		filtered, err := opFilter.Apply(orig, c)
		if err != nil {
			return nil, err
		}
		if filtered, err = opSave.Apply(filtered, c); err != nil {
			return nil, err
		}

		if c.Log.IsLevelEnabled(logrus.DebugLevel) {
			cmp, err := stats.CompareImages(orig, filtered)
			if err != nil {
				return nil, err
			}
			for _, cc := range cmp {
				c.Log.WithField("id", orig.ID).Debug(cc.String())
			}
		}
		if *previewPattern != "" {
			sheet, err := preview.ContactSheet(orig, filtered, *cellWidth)
			if err != nil {
				return nil, err
			}
			if err := saveReport(sheet, *previewPattern, orig.ID, c); err != nil {
				return nil, err
			}
		}
		if *histoPattern != "" {
			chart, err := preview.HistogramChart(orig, filtered, 3*(*cellWidth), 2*(*cellWidth))
			if err != nil {
				return nil, err
			}
			if err := saveReport(chart, *histoPattern, orig.ID, c); err != nil {
				return nil, err
			}
		}
		return filtered, nil
	}
}

func saveReport(img *plane.Image, pattern string, id int, c *ops.Context) error {
	fileName := ops.ExpandPattern(pattern, id)
	c.Log.WithField("id", id).Infof("Writing %s pixel preview to %s", img.DimensionsToString(), fileName)
	return imageio.Save(img, fileName)
}

// Runs a pipeline from file. Input file arguments are loaded before the first step
func cmdPipeline(fileNames []string, c *ops.Context) error {
	if *pipeline == "" {
		return errors.New("missing -pipeline file")
	}
	data, err := os.ReadFile(*pipeline)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(*pipeline))
	seq, err := ops.ParsePipeline(data, ext == ".yaml" || ext == ".yml")
	if err != nil {
		return fmt.Errorf("%s: %w", *pipeline, err)
	}
	var op ops.Operator = seq
	if len(fileNames) > 0 {
		op = ops.NewOpSequence(ops.NewOpLoadMany(fileNames), seq)
	}
	return run(op, c)
}

func cmdFilters() {
	def := channel.DefaultParams()
	for _, k := range channel.Kinds() {
		fmt.Fprintf(os.Stdout, "%-20s %s\n", k.String(), def.Describe(k))
	}
}

func cmdVersion(c *ops.Context) {
	fmt.Fprintf(os.Stdout, "Version %s\n", version)
	fmt.Fprintf(os.Stdout, "CPU %s with %d physical and %d logical cores, AVX2 %v\n",
		cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores, cpuid.CPU.AVX2())
	fmt.Fprintf(os.Stdout, "Memory %d MiB total, %d MiB for filtering, %d threads\n",
		memory.TotalMemory()/1024/1024, c.FilterMB, c.MaxThreads)
}
