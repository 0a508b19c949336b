package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	requireLib "github.com/stretchr/testify/require"

	"github.com/vkuptcov/spamguard"
)

func TestLoadParams(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		require := requireLib.New(t)
		params, err := loadParams("")
		require.NoError(err)
		require.Equal(spamguard.DefaultParams(), params)
	})

	t.Run("file overrides selected fields", func(t *testing.T) {
		require := requireLib.New(t)
		path := filepath.Join(t.TempDir(), "params.yaml")
		require.NoError(os.WriteFile(path, []byte("filter_size: 4096\nhashing: locations\n"), 0o600))

		params, err := loadParams(path)
		require.NoError(err)
		require.Equal(uint(4096), params.FilterSize)
		require.Equal(spamguard.LocationsHashing, params.Hashing)
		require.Equal(uint(spamguard.DefaultHashCount), params.HashCount)
	})

	t.Run("invalid values are reported", func(t *testing.T) {
		require := requireLib.New(t)
		path := filepath.Join(t.TempDir(), "params.yaml")
		require.NoError(os.WriteFile(path, []byte("capacity: 0\n"), 0o600))

		_, err := loadParams(path)
		require.Error(err)
		require.Contains(err.Error(), "capacity must be positive")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadParams(filepath.Join(t.TempDir(), "absent.yaml"))
		requireLib.Error(t, err)
	})
}

func TestSelectStrategies(t *testing.T) {
	require := requireLib.New(t)
	names, err := selectStrategies("all")
	require.NoError(err)
	require.Equal([]string{"bounded", "evicting", "gated"}, names)

	names, err = selectStrategies("gated")
	require.NoError(err)
	require.Equal([]string{"gated"}, names)

	_, err = selectStrategies("nope")
	require.Error(err)
}

func TestGenerateAddressesAreDisjoint(t *testing.T) {
	require := requireLib.New(t)
	spam, probes := generateAddresses(rand.New(rand.NewSource(1)), 100, 5000)
	require.Len(spam, 100)
	require.Len(probes, 5000)

	seen := map[string]struct{}{}
	for _, a := range append(append([]string{}, spam...), probes...) {
		_, dup := seen[a]
		require.False(dup, "address %q generated twice", a)
		seen[a] = struct{}{}
		require.Regexp(`^[1-9][0-9]{8}@example\.com$`, a)
	}
}

func TestRunTrialGatedHasNoFalsePositives(t *testing.T) {
	require := requireLib.New(t)
	rnd := rand.New(rand.NewSource(2))
	spam, probes := generateAddresses(rnd, 100, 20000)

	classifier, err := strategies["gated"](spamguard.DefaultParams(), rnd)
	require.NoError(err)
	result := runTrial(classifier, spam, probes, rnd)

	require.Zero(result.falseNegatives)
	require.Zero(result.falsePositives)
	require.Equal(20000, result.probes)
	require.Zero(result.rate())
}

func TestRunTrials(t *testing.T) {
	require := requireLib.New(t)
	require.NoError(runTrials(runOptions{strategy: "all", spam: 100, probes: 1000, seed: 3, seedSet: true}))
	require.Error(runTrials(runOptions{strategy: "bounded", spam: 0, probes: 10, seed: 3, seedSet: true}))
	require.Error(runTrials(runOptions{strategy: "unknown", spam: 10, probes: 10, seed: 3, seedSet: true}))
}

func TestResolveSeed(t *testing.T) {
	clock := time.Unix(0, 42)
	now := func() time.Time { return clock }

	t.Run("explicit zero is kept", func(t *testing.T) {
		requireLib.Equal(t, int64(0), resolveSeed(runOptions{seed: 0, seedSet: true}, now))
	})
	t.Run("explicit seed is kept", func(t *testing.T) {
		requireLib.Equal(t, int64(7), resolveSeed(runOptions{seed: 7, seedSet: true}, now))
	})
	t.Run("omitted seed comes from the clock", func(t *testing.T) {
		requireLib.Equal(t, int64(42), resolveSeed(runOptions{}, now))
	})
}

func TestRunCommandMarksExplicitSeed(t *testing.T) {
	require := requireLib.New(t)
	defer func() { runOpts = runOptions{} }()

	rootCmd.SetArgs([]string{"run", "--strategy", "bounded", "--spam", "10", "--probes", "10", "--seed", "0"})
	require.NoError(rootCmd.Execute())
	require.True(runOpts.seedSet)
	require.Zero(runOpts.seed)
}
