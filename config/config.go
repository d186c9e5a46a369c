// Package config loads a pimalign run's dataset path, dispatch mode,
// rank count and scoring parameters from a YAML file (spec.md section
// 6's "configuration may come from a YAML file, command-line flags, or
// both" collaborator contract). It is a thin collaborator: it never
// touches the core, only assembles the values cmd/pimalign passes into
// balancer.Run.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dnatile/pimalign"
	"github.com/dnatile/pimalign/balancer"
)

// nwParams mirrors the original's "nw_params" YAML block
// (original_source/src/main_sets.cpp read_parameters).
type nwParams struct {
	Match        int32 `yaml:"match"`
	Mismatch     int32 `yaml:"mismatch"`
	GapOpening   int32 `yaml:"gap_opening"`
	GapExtension int32 `yaml:"gap_extension"`
}

// document is the on-disk YAML shape: dataset path, rank count, app
// mode and the nw_params scoring block.
type document struct {
	Dataset  string   `yaml:"dataset"`
	Ranks    int      `yaml:"ranks"`
	Mode     string   `yaml:"mode"`
	NWParams nwParams `yaml:"nw_params"`
}

// Config is the fully-resolved, validated run configuration a caller
// passes to balancer.Run.
type Config struct {
	DatasetPath string
	Mode        balancer.Mode
	Ranks       int
	Params      pimalign.AlignParams
}

// ParseMode converts the CLI/YAML app_mode string (spec.md section 6)
// into a balancer.Mode.
func ParseMode(s string) (balancer.Mode, error) {
	switch s {
	case "set":
		return balancer.ModeSet, nil
	case "pair":
		return balancer.ModePair, nil
	case "all":
		return balancer.ModeAll, nil
	default:
		return 0, fmt.Errorf("config: unknown app mode %q, want one of set/pair/all", s)
	}
}

// Load reads and validates a YAML configuration document from r. It
// follows the teacher's recover()-based error capture
// (dbconf.go LoadDBConf): YAML decoding errors are returned directly,
// while the validation checks (missing dataset, non-positive ranks,
// unknown mode, invalid scoring parameters) panic and the deferred
// recover turns that panic into a returned error.
func Load(r io.Reader) (conf *Config, err error) {
	defer func() {
		if perr := recover(); perr != nil {
			if e, ok := perr.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("config: %v", perr)
			}
		}
	}()

	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("config: parsing YAML: %w", err)
	}

	if doc.Dataset == "" {
		panic(fmt.Errorf("config: \"dataset\" is required"))
	}
	if doc.Ranks <= 0 {
		panic(fmt.Errorf("config: \"ranks\" must be positive, got %d", doc.Ranks))
	}

	mode, err := ParseMode(doc.Mode)
	if err != nil {
		panic(err)
	}

	params := pimalign.AlignParams{
		Match:        doc.NWParams.Match,
		Mismatch:     doc.NWParams.Mismatch,
		GapOpening:   doc.NWParams.GapOpening,
		GapExtension: doc.NWParams.GapExtension,
	}
	if err := params.Validate(); err != nil {
		panic(err)
	}

	return &Config{
		DatasetPath: doc.Dataset,
		Mode:        mode,
		Ranks:       doc.Ranks,
		Params:      params,
	}, nil
}

// LoadFile opens path and calls Load on its contents.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Override applies non-zero-valued CLI flags on top of a loaded
// Config, matching spec.md section 6's "YAML file, command-line flags,
// or both" contract: flags win when set.
func (c *Config) Override(datasetPath, mode string, ranks int, p pimalign.AlignParams) error {
	if datasetPath != "" {
		c.DatasetPath = datasetPath
	}
	if mode != "" {
		m, err := ParseMode(mode)
		if err != nil {
			return err
		}
		c.Mode = m
	}
	if ranks > 0 {
		c.Ranks = ranks
	}
	if p.Match != 0 {
		c.Params.Match = p.Match
	}
	if p.Mismatch != 0 {
		c.Params.Mismatch = p.Mismatch
	}
	if p.GapOpening != 0 {
		c.Params.GapOpening = p.GapOpening
	}
	if p.GapExtension != 0 {
		c.Params.GapExtension = p.GapExtension
	}
	return nil
}
