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

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	cdcodec "github.com/ZaparooProject/go-cdcodec"
	"github.com/ZaparooProject/go-cdcodec/sector"
	"github.com/ZaparooProject/go-cdcodec/source"
)

// extractBatch is the number of sectors read per Extract call.
const extractBatch = 256

// readChunk fills buf from off. A short read is io.ErrUnexpectedEOF unless the
// reader reported a more specific error.
func readChunk(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err //nolint:wrapcheck // wrapped by the caller
}

type extractFlags struct {
	mode       string
	output     string
	sectorSize int
}

func (a *app) extractCmd() *cobra.Command {
	var flags extractFlags
	cmd := &cobra.Command{
		Use:   "extract <image> <field>",
		Short: "Copy one field out of every sector",
		Long: "Copy one field (sync, header, subheader, eccp, eccq, ecc, edc, subchannel, userdata)\n" +
			"out of every sector. Without --mode the mode of each sector is detected.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(cmd, args[0], args[1], flags)
		},
	}
	cmd.Flags().StringVar(&flags.mode, "mode", "", "Sector mode of the whole image (detected per sector if empty)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().IntVar(&flags.sectorSize, "sector-size", 0, "Sector size, 2352 or 2448 (0 detects it)")
	return cmd
}

func (a *app) runExtract(cmd *cobra.Command, path, field string, flags extractFlags) error {
	tag, err := sector.ParseTag(field)
	if err != nil {
		return err //nolint:wrapcheck // parse errors name the value
	}
	var fixed *sector.Mode
	if flags.mode != "" {
		mode, err := sector.ParseMode(flags.mode)
		if err != nil {
			return err //nolint:wrapcheck // parse errors name the value
		}
		fixed = &mode
	}

	img, err := source.Open(a.fs, path)
	if err != nil {
		return err //nolint:wrapcheck // source errors name the path
	}
	defer func() { _ = img.Close() }()

	sectorSize := flags.sectorSize
	if sectorSize == 0 {
		sectorSize = cdcodec.DetectSectorSize(img.Size)
	}

	var out io.Writer = cmd.OutOrStdout()
	if flags.output != "" {
		f, err := a.fs.Create(flags.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	w := bufio.NewWriter(out)

	total := img.Sectors(sectorSize)
	a.logger.WithField("sectors", total).Debugf("extracting %s", tag)

	buf := make([]byte, extractBatch*sectorSize)
	for first := int64(0); first < total; first += extractBatch {
		n := min(int64(extractBatch), total-first)
		chunk := buf[:n*int64(sectorSize)]
		if err := readChunk(img, chunk, first*int64(sectorSize)); err != nil {
			return fmt.Errorf("read sectors at %d: %w", first, err)
		}

		if fixed != nil {
			data, err := sector.Extract(chunk, sectorSize, *fixed, tag)
			if err != nil {
				return err //nolint:wrapcheck // extract errors name the field
			}
			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			continue
		}

		for i := range n {
			raw := chunk[i*int64(sectorSize) : (i+1)*int64(sectorSize)]
			data, err := sector.Extract(raw, sectorSize, sector.DetectMode(raw), tag)
			if err != nil {
				return fmt.Errorf("sector %d: %w", first+i, err)
			}
			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
