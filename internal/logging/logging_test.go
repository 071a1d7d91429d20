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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevels(t *testing.T) {
	log, f, err := New(true, "")
	if err != nil {
		t.Fatal(err)
	}
	if f != nil {
		t.Errorf("file=%v; want nil without file name", f)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level=%s; want debug", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("formatter=%T; want text", log.Formatter)
	}

	log, _, _ = New(false, "")
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level=%s; want info", log.GetLevel())
	}
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter=%T; want JSON", log.Formatter)
	}
}

func TestAlsoToFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "run.log")
	log, f, err := New(false, fileName)
	if err != nil {
		t.Fatal(err)
	}
	log.WithField("id", 7).Info("filtered")
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"filtered"`) || !strings.Contains(string(data), `"id":7`) {
		t.Errorf("log file=%q; want the JSON entry", data)
	}

	if _, _, err := New(false, filepath.Join(t.TempDir(), "missing", "run.log")); err == nil {
		t.Errorf("opening a log file in a missing directory succeeded")
	}
	var nilFile *File
	if nilFile.Sync() != nil || nilFile.Close() != nil {
		t.Errorf("nil file operations failed")
	}
}
