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

package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlnoga/nightfilter/internal/channel"
	"github.com/mlnoga/nightfilter/internal/imageio"
	"github.com/mlnoga/nightfilter/internal/ops"
	"github.com/mlnoga/nightfilter/internal/plane"
	"github.com/mlnoga/nightfilter/web"
	"github.com/sirupsen/logrus"

	_ "github.com/mlnoga/nightfilter/internal/ops/enhance" // register operators
	_ "github.com/mlnoga/nightfilter/internal/ops/report"
)

// Maximum size of uploaded images held in memory, larger parts go to temporary files
const maxMultipartMemory = 32 << 20

// Serves the REST API on the given address, e.g. ":8080"
func Serve(addr string, c *ops.Context) error {
	c.Log.Infof("Listening on %s", addr)
	return NewRouter(c).Run(addr)
}

// Creates the router for the REST API and the upload page
func NewRouter(c *ops.Context) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(c.Log), gin.Recovery())
	r.MaxMultipartMemory = maxMultipartMemory

	s := &server{ctx: c}
	r.GET("/", getIndex)
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.GET("/filters", getFilters)
			v1.POST("/filter/:name", s.postFilter)
			v1.POST("/pipeline", s.postPipeline)
		}
	}
	return r
}

type server struct {
	ctx *ops.Context
}

// Logs each request with method, path, status and latency
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		}).Info("request")
	}
}

func getIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
}

func getPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

type filterInfo struct {
	Name     string         `json:"name"`
	Spatial  bool           `json:"spatial"`
	Defaults channel.Params `json:"defaults"`
}

func getFilters(c *gin.Context) {
	infos := make([]filterInfo, 0, len(channel.Kinds()))
	for _, k := range channel.Kinds() {
		infos = append(infos, filterInfo{Name: k.String(), Spatial: k.IsSpatial(), Defaults: channel.DefaultParams()})
	}
	c.JSON(http.StatusOK, infos)
}

// Form fields of a filter request. Missing fields keep their defaults
type filterForm struct {
	KernelSize int     `form:"kernelSize"`
	Sigma      float64 `form:"sigma"`
	Brightness float64 `form:"brightness"`
	Gamma      float64 `form:"gamma"`
	Threshold  int     `form:"threshold"`
	Format     string  `form:"format"`
}

func (s *server) postFilter(c *gin.Context) {
	k, err := channel.ParseKind(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	def := channel.DefaultParams()
	form := filterForm{
		KernelSize: def.KernelSize,
		Sigma:      def.Sigma,
		Brightness: def.Brightness,
		Gamma:      def.Gamma,
		Threshold:  def.Threshold,
		Format:     imageio.FormatPNG,
	}
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	format, err := imageio.ParseFormat(form.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params := channel.Params{
		KernelSize: form.KernelSize,
		Sigma:      form.Sigma,
		Brightness: form.Brightness,
		Gamma:      form.Gamma,
		Threshold:  form.Threshold,
	}
	if err := params.Validate(k); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image: " + err.Error()})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()
	img, err := imageio.Decode(file)
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	}
	img.FileName = header.Filename

	threads := s.ctx.ChannelThreads(img.Width, img.Height, params.KernelSize)
	res, err := channel.ApplyKind(img, k, params, threads)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, plane.ErrInvalidParameter) || errors.Is(err, plane.ErrInvalidKernelSize) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, res, format); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.ctx.Log.WithField("file", img.FileName).Infof("Applied %s with %s to %s image", k, params.Describe(k), img.DimensionsToString())
	c.Data(http.StatusOK, imageio.ContentType(format), buf.Bytes())
}

type postPipelineArgs struct {
	FilePatterns []string          `json:"filePatterns" binding:"required"`
	Steps        []json.RawMessage `json:"steps"`
}

func printArgs(logWriter io.Writer, prefix, suffix string, args interface{}) error {
	m, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(logWriter, "%s%s%s", prefix, string(m), suffix)
	return nil
}

func (s *server) postPipeline(c *gin.Context) {
	var args postPipelineArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if args.Steps == nil {
		args.Steps = []json.RawMessage{}
	}
	stepsJSON, err := json.Marshal(args.Steps)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	seq, err := ops.ParsePipeline(stepsJSON, false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logWriter := c.Writer
	header := logWriter.Header()
	header.Set("Content-Type", "text/plain")
	logWriter.WriteHeader(http.StatusOK)

	if err := printArgs(logWriter, "Arguments:\n", "\n", args); err != nil {
		fmt.Fprintf(logWriter, "Error printing arguments: %s\n", err.Error())
		return
	}

	// log this request's progress into the response
	log := logrus.New()
	log.SetOutput(logWriter)
	log.SetLevel(s.ctx.Log.GetLevel())
	log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	rc := *s.ctx
	rc.Log = log

	full := ops.NewOpSequence(ops.NewOpLoadMany(args.FilePatterns), seq)
	promises, err := full.MakePromises(nil, &rc)
	if err != nil {
		fmt.Fprintf(logWriter, "error: %s\n", err.Error())
		logWriter.Flush()
		return
	}
	if _, err := ops.MaterializeAll(promises, rc.MaxThreads, true); err != nil {
		fmt.Fprintf(logWriter, "error: %s\n", err.Error())
	} else {
		fmt.Fprintf(logWriter, "Processed %d images\n", len(promises))
	}
	logWriter.Flush()
}
