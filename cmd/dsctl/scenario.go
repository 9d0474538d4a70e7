package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dskit/mem"
	"github.com/joshuapare/dskit/own"
)

func init() {
	rootCmd.AddCommand(newScenarioCmd())
}

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario [name...]",
		Short: "Run ownership scenarios against a counting allocator",
		Long: `The scenario command runs built-in Unique, Shared and Persistent
scenarios. Each scenario checks its own expectations and the allocator is
checked for leaks afterwards. With no names every scenario runs.

Scenarios:
  unique-move          move a Unique and check the source is null
  shared-alias         clone and destroy Shared aliases, check counts
  shared-from-unique   adopt a Unique into a Shared group
  persistent-copy      copy and move Persistent handles
  alloc-failure        construct against an exhausted budget

Example:
  dsctl scenario
  dsctl scenario shared-alias --allocator heap-nt --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(args)
		},
	}
	return cmd
}

// tracked is a pointer-free value whose live instances are counted in
// liveTracked, so scenarios also run against allocators outside the Go heap.
type tracked struct {
	value   int
	counted bool
}

var liveTracked int

func (t *tracked) Dispose() {
	if t.counted {
		liveTracked--
		t.counted = false
	}
}

func makeTracked(v int) func(*tracked) error {
	return func(t *tracked) error {
		t.value, t.counted = v, true
		liveTracked++
		return nil
	}
}

type scenarioFunc func(a mem.Allocator) error

var scenarios = map[string]scenarioFunc{
	"unique-move":        scenarioUniqueMove,
	"shared-alias":       scenarioSharedAlias,
	"shared-from-unique": scenarioSharedFromUnique,
	"persistent-copy":    scenarioPersistentCopy,
	"alloc-failure":      scenarioAllocFailure,
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func expect(ok bool, format string, args ...any) error {
	if ok {
		return nil
	}
	return fmt.Errorf(format, args...)
}

func scenarioUniqueMove(a mem.Allocator) error {
	u, err := own.NewUnique(a, 7)
	if err != nil {
		return err
	}
	defer u.Release()
	if err := expect(*u.Deref() == 7, "value is %d, want 7", *u.Deref()); err != nil {
		return err
	}
	v := u.Move()
	defer v.Release()
	return errors.Join(
		expect(u.IsNull(), "source not null after move"),
		expect(v.Valid() && *v.Deref() == 7, "moved value lost"),
	)
}

func scenarioSharedAlias(a mem.Allocator) error {
	liveTracked = 0
	s, err := own.ConstructShared(a, makeTracked(5))
	if err != nil {
		return err
	}
	s2 := s.Clone()
	errs := []error{
		expect(s.RefCount() == 2 && s2.RefCount() == 2, "count after clone is %d/%d, want 2", s.RefCount(), s2.RefCount()),
		expect(s.Ptr() == s2.Ptr(), "aliases point at different values"),
		expect(s.IsOwner() && !s2.IsOwner(), "clone must not be the owner"),
	}
	s2.Destroy()
	s2.Destroy()
	errs = append(errs,
		expect(s.RefCount() == 1, "count after destroy is %d, want 1", s.RefCount()),
		expect(liveTracked == 1, "value released early"),
	)
	s.Release()
	errs = append(errs, expect(liveTracked == 0, "%d values still live", liveTracked))
	return errors.Join(errs...)
}

func scenarioSharedFromUnique(a mem.Allocator) error {
	liveTracked = 0
	u, err := own.ConstructUnique(a, makeTracked(3))
	if err != nil {
		return err
	}
	s := own.SharedFromUnique(u)
	errs := []error{
		expect(u.IsNull(), "unique not null after adoption"),
		expect(s.RefCount() == 1 && s.IsOwner(), "adopted handle has count %d", s.RefCount()),
	}
	s.Release()
	errs = append(errs, expect(liveTracked == 0, "%d values still live", liveTracked))
	return errors.Join(errs...)
}

func scenarioPersistentCopy(a mem.Allocator) error {
	p, err := own.NewPersistent[int](a)
	if err != nil {
		return err
	}
	errs := []error{expect(p.Valid() && p.RefCount() == 1, "default persistent is not valid with count 1")}

	c := p.Clone()
	m := c.Move()
	errs = append(errs,
		expect(c.IsNull(), "moved-from persistent not null"),
		expect(m.RefCount() == 2, "count after clone+move is %d, want 2", m.RefCount()),
	)
	p.Release()
	errs = append(errs, expect(m.RefCount() == 1, "count after release is %d, want 1", m.RefCount()))
	m.Release()
	return errors.Join(errs...)
}

func scenarioAllocFailure(a mem.Allocator) error {
	limited := mem.NewLimited(a, 0)
	u, err := own.NewUnique(limited, int64(1))
	return errors.Join(
		expect(u == nil, "constructor returned a handle on failure"),
		expect(errors.Is(err, own.ErrAllocation), "error %v is not an allocation failure", err),
		expect(errors.Is(err, mem.ErrAllocationFailure), "allocator cause lost: %v", err),
	)
}

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	Name          string `json:"name"`
	Passed        bool   `json:"passed"`
	Error         string `json:"error,omitempty"`
	Allocations   int    `json:"allocations"`
	Deallocations int    `json:"deallocations"`
	LiveBlocks    int    `json:"live_blocks"`
}

func runScenario(name string, fn scenarioFunc) (ScenarioResult, error) {
	stack, err := newAllocatorStack(cfg)
	if err != nil {
		return ScenarioResult{}, err
	}
	defer stack.close()

	err = fn(stack.allocator())
	s := stack.counting.Stats()
	if err == nil && s.LiveBlocks != 0 {
		err = fmt.Errorf("leak: %d blocks still live", s.LiveBlocks)
	}
	if err == nil && s.InvalidFrees != 0 {
		err = fmt.Errorf("%d invalid deallocations", s.InvalidFrees)
	}

	r := ScenarioResult{
		Name:          name,
		Passed:        err == nil,
		Allocations:   s.Allocations,
		Deallocations: s.Deallocations,
		LiveBlocks:    s.LiveBlocks,
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r, nil
}

func runScenarios(args []string) error {
	names := args
	if len(names) == 0 {
		names = scenarioNames()
	}
	for _, name := range names {
		if _, ok := scenarios[name]; !ok {
			return fmt.Errorf("unknown scenario %q (available: %v)", name, scenarioNames())
		}
	}

	var results []ScenarioResult
	for _, name := range names {
		printVerbose("Running %s\n", name)
		r, err := runScenario(name, scenarios[name])
		if err != nil {
			return err
		}
		results = append(results, r)
	}

	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}

	if jsonOut {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			status := "PASS"
			if !r.Passed {
				status = "FAIL"
			}
			printInfo("%-4s %-20s allocs=%d frees=%d live=%d\n",
				status, r.Name, r.Allocations, r.Deallocations, r.LiveBlocks)
			if r.Error != "" {
				printInfo("     %s\n", r.Error)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
	}
	return nil
}
