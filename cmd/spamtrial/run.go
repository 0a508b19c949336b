package main

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vkuptcov/spamguard"
	"github.com/vkuptcov/spamguard/skiplist"
)

type trialClassifier interface {
	spamguard.Classifier
	fmt.Stringer
	SetLogger(logger spamguard.Logger)
	SetHooks(hooks *spamguard.Hooks)
}

type strategyFactory func(params spamguard.Params, rnd *rand.Rand) (trialClassifier, error)

var strategies = map[string]strategyFactory{
	"bounded": func(p spamguard.Params, _ *rand.Rand) (trialClassifier, error) {
		return spamguard.NewBoundedFilter(p)
	},
	"gated": func(p spamguard.Params, rnd *rand.Rand) (trialClassifier, error) {
		return spamguard.NewGatedList(p, skiplist.WithRand(rnd))
	},
	"evicting": func(p spamguard.Params, _ *rand.Rand) (trialClassifier, error) {
		return spamguard.NewEvictingFilter(p)
	},
}

type runOptions struct {
	strategy   string
	configPath string
	spam       int
	probes     int
	seed       int64
	seedSet    bool
	verbose    bool
}

var runOpts runOptions

type trialResult struct {
	falseNegatives int
	falsePositives int
	probes         int
}

func (r trialResult) rate() float64 {
	if r.probes == 0 {
		return 0
	}
	return float64(r.falsePositives) / float64(r.probes)
}

func runTrials(opts runOptions) error {
	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	params, err := loadParams(opts.configPath)
	if err != nil {
		return err
	}
	if opts.spam <= 0 || opts.probes < 0 {
		return errors.Errorf("spam must be positive and probes non-negative, got %d and %d", opts.spam, opts.probes)
	}
	names, err := selectStrategies(opts.strategy)
	if err != nil {
		return err
	}
	opts.seed = resolveSeed(opts, time.Now)
	rnd := rand.New(rand.NewSource(opts.seed))
	spam, probes := generateAddresses(rnd, opts.spam, opts.probes)
	logger.Info().Int64("seed", opts.seed).Int("spam", len(spam)).Int("probes", len(probes)).Msg("addresses generated")

	for _, name := range names {
		classifier, err := strategies[name](params, rnd)
		if err != nil {
			return errors.Wrapf(err, "building %s classifier", name)
		}
		classifier.SetLogger(spamguard.ZerologLogger(logger.With().Str("strategy", name).Logger()))
		if opts.verbose {
			debug := logger.With().Str("strategy", name).Logger()
			classifier.SetHooks(spamguard.TraceHooks(func(v ...interface{}) {
				debug.Debug().Msg(fmt.Sprint(v...))
			}))
		}

		result := runTrial(classifier, spam, probes, rnd)
		logger.Info().
			Str("strategy", name).
			Int("false_negatives", result.falseNegatives).
			Int("false_positives", result.falsePositives).
			Int("probes", result.probes).
			Float64("rate", result.rate()).
			Float64("expected_rate", params.ExpectedFalsePositiveRate()).
			Bool("within_limit", result.rate() < 0.001).
			Msg("trial finished")
		logger.Debug().Str("strategy", name).Msg("state\n" + classifier.String())
	}
	return nil
}

// runTrial adds every spam address, spot-checks ten of them for false
// negatives, then counts how many probes are wrongly flagged.
func runTrial(classifier trialClassifier, spam, probes []string, rnd *rand.Rand) trialResult {
	var result trialResult
	for _, a := range spam {
		_ = classifier.AddSpam(a)
	}
	for i := 0; i < 10; i++ {
		a := spam[rnd.Intn(len(spam))]
		if !classifier.IsSpam(a) {
			result.falseNegatives++
		}
	}
	for _, a := range probes {
		if classifier.IsSpam(a) {
			result.falsePositives++
		}
	}
	result.probes = len(probes)
	return result
}

// generateAddresses draws spam+probes distinct nine-digit addresses and
// splits them into the two disjoint groups.
func generateAddresses(rnd *rand.Rand, spam, probes int) ([]string, []string) {
	total := spam + probes
	seen := make(map[string]struct{}, total)
	all := make([]string, 0, total)
	for len(all) < total {
		a := fmt.Sprintf("%d@example.com", 100000000+rnd.Intn(900000000))
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		all = append(all, a)
	}
	return all[:spam], all[spam:]
}

func selectStrategies(strategy string) ([]string, error) {
	if strategy == "all" {
		names := make([]string, 0, len(strategies))
		for name := range strategies {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	}
	if _, ok := strategies[strategy]; !ok {
		return nil, errors.Errorf("unknown strategy %q", strategy)
	}
	return []string{strategy}, nil
}

// resolveSeed keeps an explicit --seed, including 0, and otherwise seeds
// from now.
func resolveSeed(opts runOptions, now func() time.Time) int64 {
	if opts.seedSet {
		return opts.seed
	}
	return now().UnixNano()
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the false positive trial for one or all classifiers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runOpts.seedSet = cmd.Flags().Changed("seed")
		return runTrials(runOpts)
	},
}

func init() {
	runCmd.Flags().StringVar(&runOpts.strategy, "strategy", "all", "classifier to test: bounded, gated, evicting or all")
	runCmd.Flags().StringVar(&runOpts.configPath, "config", "", "YAML file overriding the default classifier parameters")
	runCmd.Flags().IntVar(&runOpts.spam, "spam", spamguard.DefaultCapacity, "number of spam addresses to add")
	runCmd.Flags().IntVar(&runOpts.probes, "probes", 500000, "number of never-added addresses to check")
	runCmd.Flags().Int64Var(&runOpts.seed, "seed", 0, "random seed; seeded from the clock when omitted")
	runCmd.Flags().BoolVarP(&runOpts.verbose, "verbose", "v", false, "trace every classifier call and dump final state")
	rootCmd.AddCommand(runCmd)
}
