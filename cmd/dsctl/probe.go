package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/dskit/mem"
)

var (
	probeAlign uint64
)

var defaultProbeSizes = []string{"0", "1", "64", "4096", "1048576", "max"}

func init() {
	cmd := newProbeCmd()
	cmd.Flags().Uint64Var(&probeAlign, "align", 0, "Requested alignment (0 = default)")
	rootCmd.AddCommand(cmd)
}

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe [sizes...]",
		Short: "Allocate and free blocks of the given sizes",
		Long: `The probe command allocates one block per size with the configured
allocator, checks the result and frees it again. Sizes are byte counts; "max"
requests the largest representable size and must fail.

Example:
  dsctl probe 0 16 4096
  dsctl probe --allocator mmap --align 64 100000
  dsctl probe --limit 1024 512 2048 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(args)
		},
	}
	return cmd
}

// ProbeResult is one probed request.
type ProbeResult struct {
	Size    string `json:"size"`
	Align   uint64 `json:"align"`
	OK      bool   `json:"ok"`
	Null    bool   `json:"null"`
	Aligned bool   `json:"aligned"`
	Error   string `json:"error,omitempty"`
}

// ProbeReport is the full output of a probe run.
type ProbeReport struct {
	Allocator string        `json:"allocator"`
	Limit     uint64        `json:"limit,omitempty"`
	Results   []ProbeResult `json:"results"`
	Stats     mem.Stats     `json:"stats"`
}

func parseSize(s string) (uintptr, error) {
	if strings.EqualFold(s, "max") {
		return math.MaxUint, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > math.MaxUint {
		return 0, fmt.Errorf("size %q does not fit in an address", s)
	}
	return uintptr(n), nil
}

func runProbe(args []string) error {
	if len(args) == 0 {
		args = defaultProbeSizes
	}
	sizes := make([]uintptr, len(args))
	for i, arg := range args {
		n, err := parseSize(arg)
		if err != nil {
			return err
		}
		sizes[i] = n
	}

	stack, err := newAllocatorStack(cfg)
	if err != nil {
		return err
	}
	defer stack.close()
	a := stack.allocator()

	p := message.NewPrinter(language.English)
	report := ProbeReport{Allocator: cfg.Allocator, Limit: cfg.Limit}
	for _, size := range sizes {
		r := ProbeResult{Size: p.Sprintf("%d", size), Align: probeAlign}
		printVerbose("Allocating %s bytes\n", r.Size)

		b, err := a.Allocate(size, mem.Align(probeAlign))
		switch {
		case err != nil:
			r.Error = err.Error()
		case b.IsNull():
			r.Null = true
		default:
			r.OK = true
			want := uintptr(probeAlign)
			if want == 0 {
				want = uintptr(mem.DefaultAlign)
			}
			r.Aligned = size == 0 || b.AlignedTo(want)
			a.Deallocate(b)
		}
		report.Results = append(report.Results, r)
	}
	report.Stats = stack.counting.Stats()

	if jsonOut {
		return printJSON(report)
	}

	printInfo("Allocator: %s\n", report.Allocator)
	if report.Limit > 0 {
		printInfo("Limit: %s bytes\n", p.Sprintf("%d", report.Limit))
	}
	for _, r := range report.Results {
		switch {
		case r.OK:
			printInfo("  %28s  ok (aligned=%t)\n", r.Size, r.Aligned)
		case r.Null:
			printInfo("  %28s  null block\n", r.Size)
		default:
			printInfo("  %28s  failed: %s\n", r.Size, r.Error)
		}
	}
	s := report.Stats
	printInfo("Allocations: %d  Deallocations: %d  Failures: %d  Peak: %s bytes\n",
		s.Allocations, s.Deallocations, s.Failures, p.Sprintf("%d", s.PeakBytes))
	return nil
}
