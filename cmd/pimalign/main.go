// Command pimalign is the thin CLI wrapper named as a collaborator by
// spec.md section 6: it assembles a dataset, a dispatch mode, a rank
// count and scoring parameters — from a YAML config file, flags, or
// both — and calls balancer.Run. It never implements alignment logic
// itself.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/dnatile/pimalign"
	"github.com/dnatile/pimalign/balancer"
	"github.com/dnatile/pimalign/config"
	"github.com/dnatile/pimalign/fasta"
)

var (
	flagConfig   = ""
	flagMode     = ""
	flagRanks    = 0
	flagMatch    = int64(0)
	flagMismatch = int64(0)
	flagGapOpen  = int64(0)
	flagGapExt   = int64(0)
	flagOutput   = "scores.txt"
	flagQuiet    = false
)

func init() {
	flag.StringVar(&flagConfig, "config", flagConfig,
		"Path to a YAML run configuration (dataset, ranks, mode, nw_params).")
	flag.StringVar(&flagMode, "mode", flagMode,
		"Dispatch mode: set, pair or all. Overrides the config file's mode when set.")
	flag.IntVar(&flagRanks, "ranks", flagRanks,
		"Number of tile ranks to dispatch across. Overrides the config file's ranks when set.")
	flag.Int64Var(&flagMatch, "match", flagMatch, "Match score. Overrides the config file when nonzero.")
	flag.Int64Var(&flagMismatch, "mismatch", flagMismatch, "Mismatch penalty. Overrides the config file when nonzero.")
	flag.Int64Var(&flagGapOpen, "gap-opening", flagGapOpen, "Gap opening penalty. Overrides the config file when nonzero.")
	flag.Int64Var(&flagGapExt, "gap-extension", flagGapExt, "Gap extension penalty. Overrides the config file when nonzero.")
	flag.StringVar(&flagOutput, "output", flagOutput, "Path to write pair scores to, one per line.")
	flag.BoolVar(&flagQuiet, "quiet", flagQuiet, "When set, the only outputs will be errors echoed to stderr.")

	flag.Usage = usage
	flag.Parse()

	if !flagQuiet {
		pimalign.Verbose = true
	}
}

func main() {
	if flagConfig == "" && flag.NArg() < 1 {
		flag.Usage()
	}

	conf, err := loadConfig()
	if err != nil {
		fatalf("%s\n", err)
	}

	pimalign.Vprintf("Dataset: %s\n", conf.DatasetPath)
	pimalign.Vprintf("Mode: %s\n", conf.Mode)
	pimalign.Vprintf("Ranks: %d\n", conf.Ranks)

	sets, err := readDataset(conf)
	if err != nil {
		fatalf("%s\n", err)
	}

	start := time.Now()
	progress := &balancer.ProgressBar{Label: "aligning", Total: totalPairs(sets)}
	res, err := balancer.Run(context.Background(), conf.Mode, sets, conf.Ranks, conf.Params, conf.Mode == balancer.ModeSet, progress)
	if err != nil {
		fatalf("%s\n", err)
	}
	pimalign.Vprintf("\ncompleted %d pairs in %s (perf_counter=%d)\n", len(res.Scores), time.Since(start), res.PerfCounter)

	if err := writeScores(flagOutput, res); err != nil {
		fatalf("%s\n", err)
	}
}

func loadConfig() (*config.Config, error) {
	var conf *config.Config
	var err error
	if flagConfig != "" {
		conf, err = config.LoadFile(flagConfig)
		if err != nil {
			return nil, err
		}
	} else {
		conf = &config.Config{}
	}

	datasetPath := ""
	if flag.NArg() >= 1 {
		datasetPath = flag.Arg(0)
	}
	params := pimalign.AlignParams{
		Match:        int32(flagMatch),
		Mismatch:     int32(flagMismatch),
		GapOpening:   int32(flagGapOpen),
		GapExtension: int32(flagGapExt),
	}
	if err := conf.Override(datasetPath, flagMode, flagRanks, params); err != nil {
		return nil, err
	}
	if conf.DatasetPath == "" {
		return nil, fmt.Errorf("pimalign: no dataset path given (pass -config or a positional argument)")
	}
	if conf.Ranks == 0 {
		conf.Ranks = 1
	}
	return conf, nil
}

func readDataset(conf *config.Config) ([]pimalign.Set, error) {
	if conf.Mode == balancer.ModeSet {
		return fasta.ReadSetsFile(conf.DatasetPath)
	}
	set, err := fasta.ReadSetFile(conf.DatasetPath)
	if err != nil {
		return nil, err
	}
	return []pimalign.Set{set}, nil
}

func totalPairs(sets []pimalign.Set) uint64 {
	total := uint64(0)
	for _, s := range sets {
		total += uint64(s.Pairs())
	}
	return total
}

func writeScores(path string, res *balancer.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pimalign: %w", err)
	}
	defer f.Close()
	for _, score := range res.Scores {
		if _, err := fmt.Fprintln(f, score); err != nil {
			return fmt.Errorf("pimalign: %w", err)
		}
	}
	return nil
}

func fatalf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"\nUsage: %s [flags] [dataset-path]\n"+
			"\n"+
			"dataset-path can instead be supplied as \"dataset:\" in the -config YAML.\n",
		path.Base(os.Args[0]))
	pimalign.PrintFlagDefaults()
	os.Exit(1)
}
