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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	cdcodec "github.com/ZaparooProject/go-cdcodec"
	"github.com/ZaparooProject/go-cdcodec/sector"
	"github.com/ZaparooProject/go-cdcodec/source"
	"github.com/ZaparooProject/go-cdcodec/subchannel"
)

var errVerifyFailed = errors.New("image failed verification")

type verifyFlags struct {
	mode       string
	sectorSize int
	startLBA   int
	maxBad     int
}

func (a *app) verifyCmd() *cobra.Command {
	var flags verifyFlags
	cmd := &cobra.Command{
		Use:   "verify <image>",
		Short: "Check the EDC, ECC and Q subchannel of every sector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify(cmd, args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.mode, "mode", "", "Expected sector mode (audio, mode1, mode2, mode2form1, mode2form2)")
	cmd.Flags().IntVar(&flags.sectorSize, "sector-size", 0, "Sector size, 2352 or 2448 (0 detects it)")
	cmd.Flags().IntVar(&flags.startLBA, "start-lba", 0, "Address of the first sector")
	cmd.Flags().IntVar(&flags.maxBad, "max-bad", 100, "Bad sectors to list (-1 lists all)")
	return cmd
}

func (a *app) runVerify(cmd *cobra.Command, path string, flags verifyFlags) error {
	img, err := source.Open(a.fs, path)
	if err != nil {
		return err //nolint:wrapcheck // source errors name the path
	}
	defer func() { _ = img.Close() }()

	opts := cdcodec.DefaultOptions()
	opts.Logger = a.logger.WithField("image", img.Name)
	opts.SectorSize = flags.sectorSize
	opts.StartLBA = flags.startLBA
	opts.MaxReported = flags.maxBad
	if a.opts.workers > 0 {
		opts.Workers = a.opts.workers
	}
	if flags.mode != "" {
		mode, err := sector.ParseMode(flags.mode)
		if err != nil {
			return err //nolint:wrapcheck // parse errors name the value
		}
		opts.ExpectedMode = &mode
	}

	report, err := cdcodec.VerifyImage(cmd.Context(), img, img.Size, opts)
	if err != nil {
		return fmt.Errorf("verify %s: %w", img.Name, err)
	}

	err = a.emit(cmd.OutOrStdout(), report, func(w io.Writer) error {
		return writeReport(w, img.Name, report)
	})
	if err != nil {
		return err
	}
	if !report.OK() {
		return errVerifyFailed
	}
	return nil
}

func writeReport(w io.Writer, name string, r *cdcodec.Report) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Image: %s\n", name)
	fmt.Fprintf(&sb, "Sectors: %d of %d bytes\n", r.Sectors, r.SectorSize)
	fmt.Fprintf(&sb, "Good: %d\n", r.Good)
	fmt.Fprintf(&sb, "Bad: %d\n", r.Bad)
	fmt.Fprintf(&sb, "Without sync: %d\n", r.NoSync)
	fmt.Fprintf(&sb, "Modes: mode 0 %d, mode 1 %d, mode 2 form 1 %d, mode 2 form 2 %d\n",
		r.Mode0, r.Mode1, r.Mode2Form1, r.Mode2Form2)
	if r.ModeMismatches > 0 {
		fmt.Fprintf(&sb, "Unexpected mode: %d\n", r.ModeMismatches)
	}
	if r.QFrames > 0 {
		fmt.Fprintf(&sb, "Q frames: %d, CRC errors %d, address mismatches %d\n",
			r.QFrames, r.QCRCErrors, r.QAddressMismatch)
	}
	if r.MCN != "" {
		fmt.Fprintf(&sb, "MCN: %s\n", r.MCN)
	}
	for _, isrc := range r.ISRC {
		fmt.Fprintf(&sb, "ISRC: %s\n", isrc)
	}
	for _, bad := range r.BadSectors {
		res := bad.Result
		fmt.Fprintf(&sb, "Bad sector %d: mode %d, EDC %s, ECC P %s, ECC Q %s\n",
			bad.LBA, res.Mode, res.EDC, res.EccP, res.EccQ)
	}
	if r.OK() {
		sb.WriteString("Result: OK\n")
	} else {
		sb.WriteString("Result: FAILED\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err //nolint:wrapcheck // writer errors pass through
}

type qRecord struct {
	Q     subchannel.QInfo `json:"q" yaml:"q"`
	Index int64            `json:"index" yaml:"index"`
}

func (a *app) subqCmd() *cobra.Command {
	var first, count int64
	cmd := &cobra.Command{
		Use:   "subq <image>",
		Short: "Decode the Q subchannel of a 2448-byte sector image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := source.Open(a.fs, args[0])
			if err != nil {
				return err //nolint:wrapcheck // source errors name the path
			}
			defer func() { _ = img.Close() }()

			out := cmd.OutOrStdout()
			var records []qRecord
			err = cdcodec.ScanSubchannel(cmd.Context(), img, img.Size, first, count,
				func(index int64, q subchannel.QInfo) error {
					if a.opts.format != formatText {
						records = append(records, qRecord{Index: index, Q: q})
						return nil
					}
					_, err := fmt.Fprintf(out, "%8d %s\n", index, q)
					return err //nolint:wrapcheck // writer errors pass through
				})
			if err != nil {
				return fmt.Errorf("scan %s: %w", img.Name, err)
			}
			if a.opts.format == formatText {
				return nil
			}
			return a.emit(out, records, nil)
		},
	}
	cmd.Flags().Int64Var(&first, "first", 0, "First sector to decode")
	cmd.Flags().Int64Var(&count, "count", -1, "Sectors to decode (-1 decodes to the end)")
	return cmd
}

func (a *app) layoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout <mode> <field>",
		Short: "Show where a field lives inside a sector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := sector.ParseMode(args[0])
			if err != nil {
				return err //nolint:wrapcheck // parse errors name the value
			}
			tag, err := sector.ParseTag(args[1])
			if err != nil {
				return err //nolint:wrapcheck // parse errors name the value
			}
			layout, err := sector.LayoutFor(mode, tag)
			if err != nil {
				return err //nolint:wrapcheck // unsupported field errors name both
			}
			text := fmt.Sprintf("%s %s: offset %d, length %d, skip %d\n",
				mode, tag, layout.Offset, layout.Length, layout.Skip)
			return a.emitString(cmd.OutOrStdout(), layout, text)
		},
	}
}
