// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command rawdump inspects instrument raw files from the shell: file
// metadata, a single scan's peaks, or a chromatogram.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/msraw/rawfile"
)

var (
	includeProfile bool
	includeCharge  bool
)

func main() {
	root := &cobra.Command{
		Use:   "rawdump [command]",
		Short: "Inspect vendor mass-spectrometry raw files",
	}
	root.PersistentFlags().BoolVar(&includeProfile, "profile", false, "decode profile data alongside centroids")
	root.PersistentFlags().BoolVar(&includeCharge, "charge", false, "decode per-peak charge states")

	root.AddCommand(infoCmd())
	root.AddCommand(scanCmd())
	root.AddCommand(ticCmd())
	root.AddCommand(bpcCmd())
	root.AddCommand(xicCmd())
	root.AddCommand(xicMS1Cmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openFile(path string) (*rawfile.RawFile, error) {
	opts := &rawfile.Options{Decode: rawfile.DecodeOptions{
		IncludeProfile: includeProfile,
		IncludeCharge:  includeCharge,
	}}
	return rawfile.Open(path, opts)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print file header and run header metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := openFile(args[0])
			if err != nil {
				return err
			}
			defer rf.Close()

			printJSON(struct {
				Version   uint32
				Signature string
				RunHeader rawfile.RunHeader
				NumScans  int
				NumEvents int
			}{
				Version:   rf.Header.Version,
				Signature: rf.Header.Signature,
				RunHeader: rf.RunHeader,
				NumScans:  len(rf.ScanIndex),
				NumEvents: len(rf.ScanEvents),
			})
			return nil
		},
	}
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <file> <scan-number>",
		Short: "Decode and print one scan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid scan number %q: %w", args[1], err)
			}
			rf, err := openFile(args[0])
			if err != nil {
				return err
			}
			defer rf.Close()

			s, err := rf.Scan(int32(n))
			if err != nil {
				return err
			}
			printJSON(s)
			return nil
		},
	}
}

func ticCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tic <file>",
		Short: "Print the total-ion-current chromatogram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := openFile(args[0])
			if err != nil {
				return err
			}
			defer rf.Close()
			printJSON(rf.TIC())
			return nil
		},
	}
}

func bpcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bpc <file>",
		Short: "Print the base-peak chromatogram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rf, err := openFile(args[0])
			if err != nil {
				return err
			}
			defer rf.Close()
			printJSON(rf.BPC())
			return nil
		},
	}
}

func xicCmd() *cobra.Command {
	var ppm float64
	c := &cobra.Command{
		Use:   "xic <file> <mz>",
		Short: "Print an extracted-ion chromatogram over every MS level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mz, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid m/z %q: %w", args[1], err)
			}
			rf, err := openFile(args[0])
			if err != nil {
				return err
			}
			defer rf.Close()

			c, err := rf.XIC(mz, ppm)
			if err != nil {
				return err
			}
			printJSON(c)
			return nil
		},
	}
	c.Flags().Float64Var(&ppm, "ppm", 10, "mass tolerance in parts per million")
	return c
}

func xicMS1Cmd() *cobra.Command {
	var ppm float64
	c := &cobra.Command{
		Use:   "xic-ms1 <file> <mz>",
		Short: "Print an extracted-ion chromatogram restricted to MS1 scans",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mz, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid m/z %q: %w", args[1], err)
			}
			rf, err := openFile(args[0])
			if err != nil {
				return err
			}
			defer rf.Close()

			c, err := rf.XICMS1(mz, ppm)
			if err != nil {
				return err
			}
			printJSON(c)
			return nil
		},
	}
	c.Flags().Float64Var(&ppm, "ppm", 10, "mass tolerance in parts per million")
	return c
}
