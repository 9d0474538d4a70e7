package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dskit/mem"
	"github.com/joshuapare/dskit/own"
)

func TestScenarioCommand_AllPass(t *testing.T) {
	for _, allocator := range []string{"heap", "heap-nt", "mmap", "bump"} {
		t.Run(allocator, func(t *testing.T) {
			c := defaultConfig()
			c.Allocator = allocator
			resetGlobals(t, c)
			jsonOut = true

			output, err := captureOutput(t, func() error {
				return runScenarios(nil)
			})
			require.NoError(t, err, output)

			var results []ScenarioResult
			decodeJSON(t, output, &results)
			require.Len(t, results, len(scenarios))
			for _, r := range results {
				assert.True(t, r.Passed, "%s: %s", r.Name, r.Error)
				assert.Zero(t, r.LiveBlocks, r.Name)
				assert.Equal(t, r.Allocations, r.Deallocations, r.Name)
			}
		})
	}
}

func TestScenarioCommand_Text(t *testing.T) {
	resetGlobals(t, nil)

	output, err := captureOutput(t, func() error {
		return runScenarios([]string{"shared-alias", "unique-move"})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{
		"PASS shared-alias",
		"PASS unique-move",
		"allocs=1 frees=1 live=0",
	})
}

func TestScenarioCommand_Unknown(t *testing.T) {
	resetGlobals(t, nil)
	_, err := captureOutput(t, func() error {
		return runScenarios([]string{"nope"})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scenario "nope"`)
}

func TestScenarioNamesSorted(t *testing.T) {
	assert.Equal(t, []string{
		"alloc-failure",
		"persistent-copy",
		"shared-alias",
		"shared-from-unique",
		"unique-move",
	}, scenarioNames())
}

func TestScenarioUniqueMove_ReleasesEveryHandle(t *testing.T) {
	a := mem.NewCounting(mem.Heap{})
	require.NoError(t, scenarioUniqueMove(a))

	s := a.Stats()
	assert.Equal(t, 1, s.Allocations)
	assert.Equal(t, 1, s.Deallocations)
	assert.Zero(t, s.LiveBlocks)
	assert.Zero(t, s.InvalidFrees, "released source must not free again")
}

func TestRunScenario_ReportsFailureWithoutLeak(t *testing.T) {
	resetGlobals(t, nil)
	want := errors.New("value mismatch")

	r, err := runScenario("early-exit", func(a mem.Allocator) error {
		u, err := own.NewUnique(a, 1)
		if err != nil {
			return err
		}
		defer u.Release()
		return want
	})
	require.NoError(t, err)
	assert.False(t, r.Passed)
	assert.Equal(t, want.Error(), r.Error)
	assert.Zero(t, r.LiveBlocks)
	assert.Equal(t, r.Allocations, r.Deallocations)
}
