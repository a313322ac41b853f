// Copyright (c) 2025 The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-cdcodec.
//
// go-cdcodec is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-cdcodec is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-cdcodec.  If not, see <https://www.gnu.org/licenses/>.

package cdcodec

import (
	"io"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/ZaparooProject/go-cdcodec/sector"
)

// Options configures image verification.
type Options struct {
	// Logger receives progress and per-sector diagnostics. Nil discards.
	Logger logrus.FieldLogger

	// ExpectedMode, when set, counts sectors whose detected mode differs.
	ExpectedMode *sector.Mode

	// SectorSize is sector.RawSize or sector.RawWithSubchannelSize. Zero
	// detects it from the image size.
	SectorSize int

	// StartLBA is the address of the first sector of the image.
	StartLBA int

	// Workers bounds the number of concurrently checked batches.
	Workers int

	// BatchSectors is the number of sectors read and checked per batch.
	BatchSectors int

	// MaxReported caps Report.BadSectors. Negative means unlimited.
	MaxReported int
}

// DefaultOptions returns the options used by the command line tool.
func DefaultOptions() Options {
	return Options{
		Logger:       discardLogger(),
		Workers:      runtime.NumCPU(),
		BatchSectors: 256,
		MaxReported:  100,
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// normalize fills zero values with defaults.
func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	if o.BatchSectors <= 0 {
		o.BatchSectors = def.BatchSectors
	}
	return o
}
