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

// Package cdcodec verifies raw CD images: it checks the EDC and ECC of every
// data sector and, for images carrying subchannel, the CRC and addresses of
// every Q frame. The codec itself lives in the checksum, msf, subchannel,
// sector, atip, toc and cdtext packages.
package cdcodec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ZaparooProject/go-cdcodec/sector"
	"github.com/ZaparooProject/go-cdcodec/subchannel"
)

// ErrEmptyImage indicates an image smaller than one sector.
var ErrEmptyImage = errors.New("image holds no whole sector")

// BadSector is a sector that failed its checks.
type BadSector struct {
	Result sector.Result `json:"result" yaml:"result"`
	LBA    int           `json:"lba" yaml:"lba"`
}

// Report summarises the verification of an image.
type Report struct {
	MCN              string      `json:"mcn,omitempty" yaml:"mcn,omitempty"`
	ISRC             []string    `json:"isrc,omitempty" yaml:"isrc,omitempty"`
	BadSectors       []BadSector `json:"bad_sectors,omitempty" yaml:"bad_sectors,omitempty"`
	Sectors          int64       `json:"sectors" yaml:"sectors"`
	SectorSize       int         `json:"sector_size" yaml:"sector_size"`
	Good             int64       `json:"good" yaml:"good"`
	Bad              int64       `json:"bad" yaml:"bad"`
	NoSync           int64       `json:"no_sync" yaml:"no_sync"`
	Mode0            int64       `json:"mode0" yaml:"mode0"`
	Mode1            int64       `json:"mode1" yaml:"mode1"`
	Mode2Form1       int64       `json:"mode2_form1" yaml:"mode2_form1"`
	Mode2Form2       int64       `json:"mode2_form2" yaml:"mode2_form2"`
	ModeMismatches   int64       `json:"mode_mismatches" yaml:"mode_mismatches"`
	QFrames          int64       `json:"q_frames" yaml:"q_frames"`
	QCRCErrors       int64       `json:"q_crc_errors" yaml:"q_crc_errors"`
	QAddressMismatch int64       `json:"q_address_mismatches" yaml:"q_address_mismatches"`

	// mcnLBA is the address of the frame MCN was taken from.
	mcnLBA int
}

// OK reports whether every checked sector and Q frame passed.
func (r *Report) OK() bool {
	return r.Bad == 0 && r.QCRCErrors == 0 && r.QAddressMismatch == 0 && r.ModeMismatches == 0
}

// DetectSectorSize picks the raw sector size of an image from its size,
// preferring 2352 when both divide it.
func DetectSectorSize(size int64) int {
	if size%sector.RawSize != 0 && size%sector.RawWithSubchannelSize == 0 {
		return sector.RawWithSubchannelSize
	}
	return sector.RawSize
}

// VerifyImage checks every sector of the raw image in r. Batches of sectors
// are checked concurrently; the report does not depend on the worker count.
func VerifyImage(ctx context.Context, r io.ReaderAt, size int64, opts Options) (*Report, error) {
	opts = opts.normalize()
	sectorSize := opts.SectorSize
	if sectorSize == 0 {
		sectorSize = DetectSectorSize(size)
	}
	if sectorSize != sector.RawSize && sectorSize != sector.RawWithSubchannelSize {
		return nil, fmt.Errorf("%w: sector size %d", sector.ErrInvalidLength, sectorSize)
	}

	count := size / int64(sectorSize)
	if count == 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrEmptyImage, size)
	}

	log := opts.Logger.WithFields(logrus.Fields{
		"sectors":     count,
		"sector_size": sectorSize,
		"workers":     opts.Workers,
	})
	log.Debug("verifying image")

	report := &Report{Sectors: count, SectorSize: sectorSize}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	batch := int64(opts.BatchSectors)
	for first := int64(0); first < count; first += batch {
		n := min(batch, count-first)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err //nolint:wrapcheck // context cancellation passthrough
			}
			part, err := verifyBatch(r, first, n, sectorSize, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			report.merge(part)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // batch errors are already wrapped
	}

	slices.SortFunc(report.BadSectors, func(a, b BadSector) int { return a.LBA - b.LBA })
	if opts.MaxReported >= 0 && len(report.BadSectors) > opts.MaxReported {
		report.BadSectors = report.BadSectors[:opts.MaxReported]
	}
	slices.Sort(report.ISRC)
	report.ISRC = slices.Compact(report.ISRC)

	log.WithFields(logrus.Fields{
		"good":          report.Good,
		"bad":           report.Bad,
		"no_sync":       report.NoSync,
		"q_crc_errors":  report.QCRCErrors,
		"q_mismatches":  report.QAddressMismatch,
		"mode_mismatch": report.ModeMismatches,
	}).Info("verification complete")
	return report, nil
}

func verifyBatch(r io.ReaderAt, first, n int64, sectorSize int, opts Options) (*Report, error) {
	buf := make([]byte, n*int64(sectorSize))
	read, err := r.ReadAt(buf, first*int64(sectorSize))
	if err != nil && !(errors.Is(err, io.EOF) && int64(read) == int64(len(buf))) {
		return nil, fmt.Errorf("read sectors %d-%d: %w", first, first+n-1, err)
	}

	part := &Report{}
	for i := range n {
		raw := buf[i*int64(sectorSize) : (i+1)*int64(sectorSize)]
		lba := opts.StartLBA + int(first+i)

		res, err := sector.Check(raw)
		if err != nil {
			return nil, fmt.Errorf("check sector %d: %w", lba, err)
		}
		part.tally(res)
		if res.Sync && !res.Overall {
			opts.Logger.WithFields(logrus.Fields{
				"lba":  lba,
				"mode": res.Mode,
				"edc":  res.EDC,
				"eccp": res.EccP,
				"eccq": res.EccQ,
			}).Debug("bad sector")
			part.BadSectors = append(part.BadSectors, BadSector{LBA: lba, Result: res})
		}
		if opts.ExpectedMode != nil && sector.DetectMode(raw) != *opts.ExpectedMode {
			part.ModeMismatches++
		}

		if sectorSize == sector.RawWithSubchannelSize {
			part.checkQ(raw[sector.RawSize:], lba)
		}
	}
	return part, nil
}

func (r *Report) tally(res sector.Result) {
	switch {
	case !res.Sync:
		r.NoSync++
		return
	case res.Overall:
		r.Good++
	default:
		r.Bad++
	}

	switch {
	case res.Mode == 0:
		r.Mode0++
	case res.Mode == 1:
		r.Mode1++
	case res.Form == 1:
		r.Mode2Form1++
	case res.Form == 2:
		r.Mode2Form2++
	}
}

func (r *Report) checkQ(raw []byte, lba int) {
	q, err := subchannel.QFrame(raw)
	if err != nil {
		return
	}
	info := subchannel.DecodeQ(q, true)
	r.QFrames++
	if !info.CRCOK {
		r.QCRCErrors++
		return
	}

	switch info.ADR {
	case subchannel.ADRPosition:
		if info.Area != subchannel.AreaLeadIn && info.LBA != lba {
			r.QAddressMismatch++
		}
	case subchannel.ADRMCN:
		if r.MCN == "" || lba < r.mcnLBA {
			r.MCN, r.mcnLBA = info.MCN, lba
		}
	case subchannel.ADRISRC:
		r.ISRC = append(r.ISRC, info.ISRC)
	}
}

func (r *Report) merge(part *Report) {
	r.Good += part.Good
	r.Bad += part.Bad
	r.NoSync += part.NoSync
	r.Mode0 += part.Mode0
	r.Mode1 += part.Mode1
	r.Mode2Form1 += part.Mode2Form1
	r.Mode2Form2 += part.Mode2Form2
	r.ModeMismatches += part.ModeMismatches
	r.QFrames += part.QFrames
	r.QCRCErrors += part.QCRCErrors
	r.QAddressMismatch += part.QAddressMismatch
	r.BadSectors = append(r.BadSectors, part.BadSectors...)
	r.ISRC = append(r.ISRC, part.ISRC...)
	if part.MCN != "" && (r.MCN == "" || part.mcnLBA < r.mcnLBA) {
		r.MCN, r.mcnLBA = part.MCN, part.mcnLBA
	}
}
