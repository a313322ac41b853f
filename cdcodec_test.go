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
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaparooProject/go-cdcodec/sector"
	"github.com/ZaparooProject/go-cdcodec/subchannel"
)

// buildImage returns count reconstructed Mode 1 sectors of track 1 starting at
// LBA 0, each followed by generated subchannel when withSub is set.
func buildImage(t *testing.T, count int, withSub bool) []byte {
	t.Helper()

	size := sector.RawSize
	if withSub {
		size = sector.RawWithSubchannelSize
	}
	img := make([]byte, count*size)
	for lba := range count {
		raw := img[lba*size : (lba+1)*size]
		for i := 16; i < 2064; i++ {
			raw[i] = byte(lba + i)
		}
		require.NoError(t, sector.Reconstruct(raw, sector.Mode1, lba))
		if withSub {
			sub := subchannel.Generate(lba, 1, 0, 0, subchannel.ControlData, 1)
			copy(raw[sector.RawSize:], sub[:])
		}
	}
	return img
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Workers = 4
	opts.BatchSectors = 3
	return opts
}

func TestVerifyImageClean(t *testing.T) {
	t.Parallel()

	img := buildImage(t, 10, true)
	report, err := VerifyImage(context.Background(), bytes.NewReader(img), int64(len(img)), testOptions())
	require.NoError(t, err)

	assert.Equal(t, int64(10), report.Sectors)
	assert.Equal(t, sector.RawWithSubchannelSize, report.SectorSize)
	assert.Equal(t, int64(10), report.Good)
	assert.Equal(t, int64(10), report.Mode1)
	assert.Equal(t, int64(10), report.QFrames)
	assert.Zero(t, report.QCRCErrors)
	assert.Zero(t, report.QAddressMismatch)
	assert.Empty(t, report.BadSectors)
	assert.True(t, report.OK())
}

func TestVerifyImageBadSectors(t *testing.T) {
	t.Parallel()

	img := buildImage(t, 12, false)
	img[7*sector.RawSize+100] ^= 0xFF
	img[3*sector.RawSize+2000] ^= 0x01

	opts := testOptions()
	report, err := VerifyImage(context.Background(), bytes.NewReader(img), int64(len(img)), opts)
	require.NoError(t, err)

	assert.Equal(t, sector.RawSize, report.SectorSize)
	assert.Equal(t, int64(10), report.Good)
	assert.Equal(t, int64(2), report.Bad)
	require.Len(t, report.BadSectors, 2)
	assert.Equal(t, 3, report.BadSectors[0].LBA)
	assert.Equal(t, 7, report.BadSectors[1].LBA)
	assert.Equal(t, sector.Bad, report.BadSectors[0].Result.EDC)
	assert.False(t, report.OK())

	opts.MaxReported = 1
	report, err = VerifyImage(context.Background(), bytes.NewReader(img), int64(len(img)), opts)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Bad)
	require.Len(t, report.BadSectors, 1)
	assert.Equal(t, 3, report.BadSectors[0].LBA)
}

func TestVerifyImageWorkerIndependence(t *testing.T) {
	t.Parallel()

	img := buildImage(t, 17, true)
	img[5*sector.RawWithSubchannelSize+500] ^= 0x10
	img[11*sector.RawWithSubchannelSize+sector.RawSize] ^= 0x40

	var reports []*Report
	for _, workers := range []int{1, 2, 8} {
		opts := testOptions()
		opts.Workers = workers
		report, err := VerifyImage(context.Background(), bytes.NewReader(img), int64(len(img)), opts)
		require.NoError(t, err)
		reports = append(reports, report)
	}
	assert.Equal(t, reports[0], reports[1])
	assert.Equal(t, reports[0], reports[2])
	assert.Equal(t, int64(1), reports[0].Bad)
	assert.Equal(t, int64(1), reports[0].QCRCErrors)
}

func TestVerifyImageAddressMismatch(t *testing.T) {
	t.Parallel()

	img := buildImage(t, 4, true)
	opts := testOptions()
	opts.StartLBA = 100

	report, err := VerifyImage(context.Background(), bytes.NewReader(img), int64(len(img)), opts)
	require.NoError(t, err)
	assert.Equal(t, int64(4), report.QAddressMismatch)
	assert.Empty(t, report.BadSectors)
}

func TestVerifyImageExpectedMode(t *testing.T) {
	t.Parallel()

	img := buildImage(t, 4, false)
	opts := testOptions()
	mode := sector.Mode2Form1
	opts.ExpectedMode = &mode

	report, err := VerifyImage(context.Background(), bytes.NewReader(img), int64(len(img)), opts)
	require.NoError(t, err)
	assert.Equal(t, int64(4), report.ModeMismatches)
	assert.False(t, report.OK())
}

func TestVerifyImageAudioAndMCN(t *testing.T) {
	t.Parallel()

	img := make([]byte, 2*sector.RawWithSubchannelSize)
	for i := range sector.RawSize {
		img[i] = byte(i)
	}

	q, err := subchannel.EncodeMCN("0123456789012", 0, 5)
	require.NoError(t, err)
	flat := make([]byte, subchannel.BlockSize)
	copy(flat[subchannel.ChannelSize:], q[:])
	raw, err := subchannel.Interleave(flat)
	require.NoError(t, err)
	copy(img[sector.RawSize:], raw)

	report, err := VerifyImage(context.Background(), bytes.NewReader(img), int64(len(img)), testOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.NoSync)
	assert.Zero(t, report.Good)
	assert.Equal(t, "0123456789012", report.MCN)
	assert.Equal(t, int64(1), report.QCRCErrors, "the all-zero Q frame has a bad CRC")
}

func TestVerifyImageErrors(t *testing.T) {
	t.Parallel()

	_, err := VerifyImage(context.Background(), bytes.NewReader(nil), 100, testOptions())
	require.ErrorIs(t, err, ErrEmptyImage)

	opts := testOptions()
	opts.SectorSize = 2048
	_, err = VerifyImage(context.Background(), bytes.NewReader(nil), 4096, opts)
	require.ErrorIs(t, err, sector.ErrInvalidLength)

	_, err = VerifyImage(context.Background(), bytes.NewReader(make([]byte, 10)), 2*sector.RawSize, testOptions())
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	img := buildImage(t, 4, false)
	_, err = VerifyImage(ctx, bytes.NewReader(img), int64(len(img)), testOptions())
	require.ErrorIs(t, err, context.Canceled)
}

func TestVerifyImageLogs(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	img := buildImage(t, 3, false)
	img[sector.RawSize+50] ^= 0x01

	opts := testOptions()
	opts.Logger = logger
	_, err := VerifyImage(context.Background(), bytes.NewReader(img), int64(len(img)), opts)
	require.NoError(t, err)

	var messages []string
	for _, entry := range hook.AllEntries() {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "verifying image")
	assert.Contains(t, messages, "bad sector")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "verification complete", hook.LastEntry().Message)
	assert.Equal(t, int64(1), hook.LastEntry().Data["bad"])
}

func TestDetectSectorSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sector.RawSize, DetectSectorSize(3*sector.RawSize))
	assert.Equal(t, sector.RawWithSubchannelSize, DetectSectorSize(3*sector.RawWithSubchannelSize))
	assert.Equal(t, sector.RawSize, DetectSectorSize(sector.RawSize*sector.RawWithSubchannelSize))
	assert.Equal(t, sector.RawSize, DetectSectorSize(1000))
}

func TestScanSubchannel(t *testing.T) {
	t.Parallel()

	img := buildImage(t, 6, true)
	r := bytes.NewReader(img)

	var lbas []int
	err := ScanSubchannel(context.Background(), r, int64(len(img)), 2, 3, func(index int64, q subchannel.QInfo) error {
		assert.True(t, q.CRCOK)
		assert.Equal(t, byte(1), q.Track)
		assert.Equal(t, int(index), q.LBA)
		lbas = append(lbas, q.LBA)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, lbas)

	visited := 0
	err = ScanSubchannel(context.Background(), r, int64(len(img)), 0, -1, func(int64, subchannel.QInfo) error {
		visited++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 6, visited)

	stop := errors.New("stop")
	err = ScanSubchannel(context.Background(), r, int64(len(img)), 0, -1, func(int64, subchannel.QInfo) error {
		return stop
	})
	require.ErrorIs(t, err, stop)

	err = ScanSubchannel(context.Background(), r, 5*sector.RawSize, 0, -1, nil)
	require.ErrorIs(t, err, ErrNoSubchannel)
}

func TestReadSector(t *testing.T) {
	t.Parallel()

	img := buildImage(t, 2, false)
	raw, err := ReadSector(bytes.NewReader(img), 1, sector.RawSize)
	require.NoError(t, err)
	assert.Equal(t, img[sector.RawSize:], raw)

	_, err = ReadSector(bytes.NewReader(img), 2, sector.RawSize)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func putMCN(t *testing.T, img []byte, index int, mcn string) {
	t.Helper()

	q, err := subchannel.EncodeMCN(mcn, subchannel.ControlData, 0)
	require.NoError(t, err)
	flat := make([]byte, subchannel.BlockSize)
	copy(flat[subchannel.ChannelSize:], q[:])
	raw, err := subchannel.Interleave(flat)
	require.NoError(t, err)
	copy(img[index*sector.RawWithSubchannelSize+sector.RawSize:], raw)
}

func TestVerifyImageFirstMCNWins(t *testing.T) {
	t.Parallel()

	img := buildImage(t, 12, true)
	putMCN(t, img, 3, "1111111111111")
	putMCN(t, img, 9, "2222222222222")

	for _, workers := range []int{1, 3, 8} {
		for _, batch := range []int{1, 2, 5} {
			opts := testOptions()
			opts.Workers = workers
			opts.BatchSectors = batch
			report, err := VerifyImage(context.Background(), bytes.NewReader(img), int64(len(img)), opts)
			require.NoError(t, err)
			assert.Equal(t, "1111111111111", report.MCN, "workers %d, batch %d", workers, batch)
			assert.Zero(t, report.QCRCErrors)
		}
	}
}
