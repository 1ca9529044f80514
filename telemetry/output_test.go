package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/flapper/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Every method is a no-op on a nil manager
	if err := om.WriteGeneration(GenerationStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePlot(&History{}, "x"); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	var h History
	for gen := 1; gen <= 3; gen++ {
		s := GenerationStats{Generation: gen, BestFitness: float64(gen * 100), MeanFitness: float64(gen * 10)}
		h.Append(s)
		if err := om.WriteGeneration(s); err != nil {
			t.Fatalf("WriteGeneration: %v", err)
		}
		if err := om.WritePerf(PerfStats{}, gen); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkNewRecord, Generation: 2, Description: "best cleared 1 (was 0)"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.WritePlot(&h, "test run"); err != nil {
		t.Fatalf("WritePlot: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, GenerationsFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("generations.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "generation,ticks,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if strings.Count(string(data), "best_fitness") != 1 {
		t.Error("header written more than once")
	}

	for _, name := range []string{PerfFile, BookmarksFile, ConfigFile, PlotFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	if _, err := config.Load(filepath.Join(dir, ConfigFile)); err != nil {
		t.Errorf("written config does not reload: %v", err)
	}
}

func TestHistory(t *testing.T) {
	var h History
	if _, ok := h.Last(); ok {
		t.Error("Last on empty history should report false")
	}
	if err := h.Plot("empty", filepath.Join(t.TempDir(), "x.png")); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Plot on empty history = %v, want ErrEmptyHistory", err)
	}

	h.Append(GenerationStats{Generation: 1, BestCleared: 2})
	h.Append(GenerationStats{Generation: 2, BestCleared: 5})
	h.Append(GenerationStats{Generation: 3, BestCleared: 4})

	if h.Len() != 3 {
		t.Errorf("Len = %d, want 3", h.Len())
	}
	if last, _ := h.Last(); last.Generation != 3 {
		t.Errorf("Last generation = %d, want 3", last.Generation)
	}
	if h.BestCleared() != 5 {
		t.Errorf("BestCleared = %d, want 5", h.BestCleared())
	}

	h.Reset()
	if h.Len() != 0 {
		t.Error("Reset left generations behind")
	}
}
