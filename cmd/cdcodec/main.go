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

// Command cdcodec verifies raw CD images and decodes the metadata a drive
// reports about a disc.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var version = "dev"

var errUnknownFormat = errors.New("unknown output format")

type rootOptions struct {
	format  string
	verbose bool
	workers int
}

// app carries state shared by all subcommands.
type app struct {
	fs     afero.Fs
	opts   rootOptions
	logger *logrus.Logger
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, logger: logrus.New()}

	rootCmd := &cobra.Command{
		Use:           "cdcodec",
		Short:         "Inspect raw CD images and drive metadata dumps.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.opts.format, "format", "f", "text", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&a.opts.verbose, "verbose", "v", false, "Log per-sector diagnostics")
	rootCmd.PersistentFlags().IntVarP(&a.opts.workers, "workers", "w", 0, "Concurrent verification workers (0 uses every CPU)")

	rootCmd.AddCommand(
		a.verifyCmd(),
		a.subqCmd(),
		a.extractCmd(),
		a.layoutCmd(),
		a.atipCmd(),
		a.tocCmd(),
		a.sessionCmd(),
		a.fullTOCCmd(),
		a.cdtextCmd(),
		versionCmd(),
	)
	return rootCmd
}

func (a *app) setup(stderr io.Writer) error {
	switch a.opts.format {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, a.opts.format)
	}

	a.logger.SetOutput(stderr)
	a.logger.SetLevel(logrus.WarnLevel)
	if a.opts.verbose {
		a.logger.SetLevel(logrus.DebugLevel)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "cdcodec version: %s\n", version)
			return nil
		},
		DisableFlagsInUseLine: true,
	}
}

func main() {
	rootCmd := newRootCmd(afero.NewOsFs())
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cdcodec: %s\n", err.Error())
		os.Exit(1)
	}
}
