package fasta

import (
	"strings"
	"testing"
)

func TestReadSetFlattensAllRecords(t *testing.T) {
	data := ">seq0\nACGT\n>seq1\nAGGT\n"
	set, err := ReadSet(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadSet failed: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("len(set) = %d, want 2", len(set))
	}
	if string(set[0].Bases) != "ACGT" || string(set[1].Bases) != "AGGT" {
		t.Fatalf("unexpected bases: %q %q", set[0].Bases, set[1].Bases)
	}
}

func TestReadSetsGroupsByConsecutiveID(t *testing.T) {
	data := ">ID=0 s0\nACGT\n" +
		">ID=0 s1\nACGT\n" +
		">ID=1 s2\nAGGT\n" +
		">ID=0 s3\nTTTT\n"

	sets, err := ReadSets(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadSets failed: %v", err)
	}
	if len(sets) != 3 {
		t.Fatalf("len(sets) = %d, want 3 (ID 0 repeating after ID 1 starts a new set)", len(sets))
	}
	if len(sets[0]) != 2 || len(sets[1]) != 1 || len(sets[2]) != 1 {
		t.Fatalf("unexpected set sizes: %d %d %d", len(sets[0]), len(sets[1]), len(sets[2]))
	}
}

func TestReadSetsRejectsMissingID(t *testing.T) {
	data := ">plainheader\nACGT\n"
	if _, err := ReadSets(strings.NewReader(data)); err == nil {
		t.Fatalf("ReadSets accepted a header without an ID= prefix")
	}
}
