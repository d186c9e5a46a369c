package config

import (
	"strings"
	"testing"

	"github.com/dnatile/pimalign"
	"github.com/dnatile/pimalign/balancer"
)

const validYAML = `
dataset: dataset.fasta
ranks: 4
mode: set
nw_params:
  match: 1
  mismatch: -1
  gap_opening: -1
  gap_extension: -1
`

func TestLoadValidDocument(t *testing.T) {
	conf, err := Load(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if conf.DatasetPath != "dataset.fasta" {
		t.Fatalf("DatasetPath = %q, want dataset.fasta", conf.DatasetPath)
	}
	if conf.Ranks != 4 {
		t.Fatalf("Ranks = %d, want 4", conf.Ranks)
	}
	if conf.Mode != balancer.ModeSet {
		t.Fatalf("Mode = %v, want ModeSet", conf.Mode)
	}
	if conf.Params.Match != 1 || conf.Params.GapExtension != -1 {
		t.Fatalf("Params = %+v, want match=1 gap_extension=-1", conf.Params)
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	bad := strings.Replace(validYAML, "mode: set", "mode: bogus", 1)
	if _, err := Load(strings.NewReader(bad)); err == nil {
		t.Fatalf("Load accepted an unknown mode")
	}
}

func TestLoadRejectsMissingDataset(t *testing.T) {
	bad := strings.Replace(validYAML, "dataset: dataset.fasta", "dataset: \"\"", 1)
	if _, err := Load(strings.NewReader(bad)); err == nil {
		t.Fatalf("Load accepted an empty dataset path")
	}
}

func TestLoadRejectsPositiveMismatch(t *testing.T) {
	bad := strings.Replace(validYAML, "mismatch: -1", "mismatch: 1", 1)
	if _, err := Load(strings.NewReader(bad)); err == nil {
		t.Fatalf("Load accepted a positive mismatch penalty")
	}
}

func TestOverrideFlagsWinWhenSet(t *testing.T) {
	conf, err := Load(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := conf.Override("other.fasta", "all", 8, pimalign.AlignParams{}); err != nil {
		t.Fatalf("Override failed: %v", err)
	}
	if conf.DatasetPath != "other.fasta" || conf.Mode != balancer.ModeAll || conf.Ranks != 8 {
		t.Fatalf("Override did not apply: %+v", conf)
	}
}
