// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: A Sinusoidal Baseline Analysis of Vital Events During COVID-19
// Class: 02-613 at Caregie Mellon University

package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// writeDataDir lays out both datasets the way the command expects them
func writeDataDir(t *testing.T, marriages func(x int) float64) string {
	t.Helper()
	dir := t.TempDir()
	vital := vitalEventsCSV([]int{2016, 2017, 2018, 2019, 2020}, seasonal(30000, 2500), marriages)
	if err := os.WriteFile(filepath.Join(dir, "vital_events_data_by_month.csv"), []byte(vital), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "covid19_data.csv"), []byte(infectionsCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func quietLogger() zerolog.Logger {
	return NewLogger(LogOptions{Level: "off", Writer: io.Discard})
}

func TestRun(t *testing.T) {
	dataDir := writeDataDir(t, seasonal(8000, 4000))
	outDir := filepath.Join(t.TempDir(), "out")

	// keep the console tables out of the test output
	stdout := os.Stdout
	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = devnull
	defer func() {
		os.Stdout = stdout
		devnull.Close()
	}()

	if err := run(quietLogger(), []string{dataDir, outDir}); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	for _, name := range []string{"deviations.csv", "parameters.csv", "report.xlsx", "vital_events.png"} {
		info, err := os.Stat(filepath.Join(outDir, name))
		if err != nil {
			t.Errorf("%s not written: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	raw, err := os.ReadFile(filepath.Join(outDir, "deviations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	// 36 months per category, 2016-2017 are outside the configured years
	if lines := strings.Count(string(raw), "\n"); lines != 1+2*36 {
		t.Errorf("deviations.csv has %d lines, want %d", lines, 1+2*36)
	}
}

func TestRunFlatBaselineFails(t *testing.T) {
	flat := func(int) float64 { return 5000 }
	dataDir := writeDataDir(t, flat)
	outDir := filepath.Join(t.TempDir(), "out")

	err := run(quietLogger(), []string{dataDir, outDir})
	if !errors.Is(err, ErrNoPhaseCandidate) {
		t.Fatalf("run error = %v, want ErrNoPhaseCandidate", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "vital_events.png")); !os.IsNotExist(err) {
		t.Errorf("graph written despite the failure")
	}
}

func TestRunMissingData(t *testing.T) {
	err := run(quietLogger(), []string{t.TempDir(), t.TempDir()})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("run error = %v, want os.ErrNotExist", err)
	}
}
