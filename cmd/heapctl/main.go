package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
	"unsafe"

	"github.com/orizon-lang/heapd/internal/allocator"
	"github.com/orizon-lang/heapd/internal/cli"
	allocerrors "github.com/orizon-lang/heapd/internal/errors"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		showHelp    = flag.Bool("help", false, "show help information")
		jsonOutput  = flag.Bool("json", false, "output a workload summary in JSON instead of the statistics block")
		policyName  = flag.String("policy", "first", "placement policy: first, best, worst, next")
		iterations  = flag.Int("iterations", 1000, "number of allocate/release steps to run")
		minSize     = flag.Uint("min-size", 8, "minimum request size in bytes")
		maxSize     = flag.Uint("max-size", 256, "maximum request size in bytes")
		arenaBytes  = flag.Uint64("arena", 1<<24, "break arena capacity in bytes")
		releaseRate = flag.Float64("release-rate", 0.5, "probability of releasing a live block instead of allocating")
		seed        = flag.Int64("seed", 1, "pseudo-random seed for the workload")
		verbose     = flag.Bool("verbose", false, "log every allocate/release step")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Drives a synthetic allocate/release workload against a heap and reports\nits final statistics.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPOLICIES:\n")
		fmt.Fprintf(os.Stderr, "  first  first-fit  (earliest qualifying block)\n")
		fmt.Fprintf(os.Stderr, "  best   best-fit   (smallest qualifying block)\n")
		fmt.Fprintf(os.Stderr, "  worst  worst-fit  (largest qualifying block)\n")
		fmt.Fprintf(os.Stderr, "  next   next-fit   (resumes scanning after the last placement)\n")
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s --policy best --iterations 5000\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --policy next --min-size 16 --max-size 64 --json\n", os.Args[0])
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		cli.PrintVersion("heapctl", *jsonOutput)
		os.Exit(0)
	}

	policy, err := parsePolicy(*policyName)
	if err != nil {
		cli.ExitWithError("%v", err)
	}

	if *minSize == 0 || *maxSize < *minSize {
		cli.ExitWithError("invalid size range: min-size=%d max-size=%d", *minSize, *maxSize)
	}

	w := &Workload{
		Policy:      policy,
		Iterations:  *iterations,
		MinSize:     uintptr(*minSize),
		MaxSize:     uintptr(*maxSize),
		ArenaBytes:  uintptr(*arenaBytes),
		ReleaseRate: *releaseRate,
		Seed:        *seed,
		JSON:        *jsonOutput,
		Log:         cli.NewLogger(*verbose, *verbose),
	}

	if err := w.Run(); err != nil {
		cli.ExitWithError("workload failed: %v", err)
	}
}

func parsePolicy(name string) (allocator.Policy, error) {
	switch name {
	case "first", "fit":
		return allocator.PolicyFirstFit, nil
	case "best":
		return allocator.PolicyBestFit, nil
	case "worst":
		return allocator.PolicyWorstFit, nil
	case "next":
		return allocator.PolicyNextFit, nil
	default:
		return 0, fmt.Errorf("unknown policy %q (want first, best, worst, or next)", name)
	}
}

// Workload drives a single heap through a pseudo-random sequence of
// allocate and release calls, sized to exercise splitting and coalescing,
// then reports the resulting statistics.
type Workload struct {
	Policy      allocator.Policy
	Iterations  int
	MinSize     uintptr
	MaxSize     uintptr
	ArenaBytes  uintptr
	ReleaseRate float64
	Seed        int64
	JSON        bool
	Log         *cli.Logger
}

// Summary is the JSON-mode report of a completed workload run.
type Summary struct {
	Policy      string          `json:"policy"`
	Iterations  int             `json:"iterations"`
	LiveAtEnd   int             `json:"live_allocations_at_end"`
	Stats       allocator.Stats `json:"stats"`
	ElapsedNano int64           `json:"elapsed_nanoseconds"`
}

func (w *Workload) Run() error {
	start := time.Now()

	var sink allocator.Sink
	if !w.JSON {
		sink = allocator.TextSink{Writer: os.Stdout}
	}

	h, err := allocator.New(
		allocator.WithPolicy(w.Policy),
		allocator.WithArenaCapacity(w.ArenaBytes),
		allocator.WithSink(sink),
	)
	if err != nil {
		return err
	}
	defer h.FlushStats()

	rng := rand.New(rand.NewSource(w.Seed))
	span := w.MaxSize - w.MinSize + 1

	var live []uintptr

	for i := 0; i < w.Iterations; i++ {
		if len(live) > 0 && rng.Float64() < w.ReleaseRate {
			idx := rng.Intn(len(live))
			addr := live[idx]
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]

			w.Log.Debug("release step=%d addr=%#x", i, addr)
			h.Release(addrToPointer(addr))

			continue
		}

		n := w.MinSize + uintptr(rng.Int63n(int64(span)))

		p := h.Allocate(n)
		if p == nil {
			w.Log.Debug("allocate step=%d: %v", i, allocerrors.OutOfMemory(n))
			continue
		}

		w.Log.Debug("allocate step=%d size=%d", i, n)
		live = append(live, pointerToAddr(p))
	}

	for _, addr := range live {
		h.Release(addrToPointer(addr))
	}

	if w.JSON {
		summary := Summary{
			Policy:      w.Policy.String(),
			Iterations:  w.Iterations,
			LiveAtEnd:   len(live),
			Stats:       h.Snapshot(),
			ElapsedNano: time.Since(start).Nanoseconds(),
		}

		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(data))
	}

	return nil
}

// addrToPointer and pointerToAddr round-trip a payload pointer through a
// plain uintptr so the live-allocation set can be stored in an ordinary
// slice and indexed/removed without keeping unsafe.Pointer values live
// across unrelated allocator calls.
func addrToPointer(addr uintptr) unsafe.Pointer { return unsafe.Pointer(addr) } //nolint:govet

func pointerToAddr(p unsafe.Pointer) uintptr { return uintptr(p) }
