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

package logging

import (
	"bufio"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Optional log file, written alongside stdout. Buffered, so it must be
// synced or closed before exiting
type File struct {
	os  *os.File
	buf *bufio.Writer
}

// Creates a logger writing to stdout, and optionally also to the named file.
// Debug mode logs debug messages as human readable text with full timestamps,
// otherwise info and above are logged as JSON.
func New(debug bool, fileName string) (*logrus.Logger, *File, error) {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if debug {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	}
	if fileName == "" {
		return log, nil, nil
	}

	f, err := AlsoToFile(log, fileName)
	if err != nil {
		return nil, nil, err
	}
	return log, f, nil
}

// Enables logging to file in addition to the logger's current output.
// Fatal log entries close the file before exiting
func AlsoToFile(log *logrus.Logger, fileName string) (*File, error) {
	osFile, err := os.OpenFile(fileName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return nil, err
	}
	f := &File{os: osFile, buf: bufio.NewWriter(osFile)}
	log.SetOutput(io.MultiWriter(log.Out, f.buf))
	log.ExitFunc = func(code int) {
		f.Close()
		os.Exit(code)
	}
	return f, nil
}

// Flushes buffered entries to disk
func (f *File) Sync() error {
	if f == nil {
		return nil
	}
	if err := f.buf.Flush(); err != nil {
		return err
	}
	return f.os.Sync()
}

// Flushes and closes the log file
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	if err := f.buf.Flush(); err != nil {
		f.os.Close()
		return err
	}
	return f.os.Close()
}
