// Command solatype is the CLI caller that exercises the CFG finalization
// pipeline end to end: it builds or loads a raw CFG, runs it through
// internal/worker.Pool (so even a single-CFG run demonstrates the pool),
// and prints the finalized graph's block arguments, loop headers, and
// loop-depth summaries. Flag dispatch follows nova's cmd/sola main.go
// pattern - stdlib flag, no subcommand framework - since this is a single-
// purpose tool, not a multi-command compiler driver.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/solalang/solatype/internal/cfg"
	"github.com/solalang/solatype/internal/config"
	"github.com/solalang/solatype/internal/diag"
	"github.com/solalang/solatype/internal/lspbridge"
	"github.com/solalang/solatype/internal/names"
	"github.com/solalang/solatype/internal/serialize"
	"github.com/solalang/solatype/internal/telemetry"
	"github.com/solalang/solatype/internal/worker"
)

func main() {
	var (
		cfgPath    = flag.String("cfg", "", "path to a raw CFG JSON fixture (omit to run a built-in demo graph)")
		demoName   = flag.String("demo", "loop", "which built-in demo graph to run when -cfg is omitted (straight, branch, loop)")
		configPath = flag.String("config", config.FileName, "path to solatype.toml")
		workers    = flag.Int("workers", 0, "worker pool size (0 = the config's workers, which default to runtime.NumCPU())")
		dedup      = flag.Bool("dedup", false, "enable the in-memory structural dedup cache")
		dump       = flag.String("dump", "", "write the finalized CFG as JSON to this path")
		lspDiag    = flag.Bool("lsp-diagnostics", false, "print any queued diagnostics as protocol.Diagnostic JSON")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "solatype:", err)
		os.Exit(1)
	}
	if *workers > 0 {
		settings.Workers = *workers
	}
	if *dedup {
		settings.CacheDedup = true
	}

	tbl := names.New()
	queue := diag.NewQueue(settings.DebugMode)
	ctx := &cfg.Context{
		Names:     tbl,
		Errors:    queue,
		Telemetry: telemetrySinkFor(settings),
	}

	var g *cfg.CFG
	if *cfgPath != "" {
		data, err := os.ReadFile(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "solatype:", err)
			os.Exit(1)
		}
		g, err = serialize.Unmarshal(tbl, data)
		if err != nil {
			fmt.Fprintln(os.Stderr, "solatype:", err)
			os.Exit(1)
		}
	} else {
		g, err = buildDemo(*demoName, tbl)
		if err != nil {
			fmt.Fprintln(os.Stderr, "solatype:", err)
			os.Exit(1)
		}
	}

	var opts []worker.Option
	if settings.CacheDedup {
		opts = append(opts, worker.WithDedup())
	}
	pool := worker.New(ctx, settings.Workers, opts...)
	results, err := pool.SubmitAll([]*cfg.CFG{g})
	pool.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "solatype: finalize failed:", err)
		os.Exit(1)
	}
	g = results[0]

	printSummary(tbl, g)

	if *dump != "" {
		data, err := serialize.Marshal(tbl, g)
		if err != nil {
			fmt.Fprintln(os.Stderr, "solatype:", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*dump, data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "solatype:", err)
			os.Exit(1)
		}
	}

	if *lspDiag {
		entries := queue.Entries()
		diags := lspbridge.ToDiagnostics(entries)
		data, err := serialize.MarshalAny(diags)
		if err != nil {
			fmt.Fprintln(os.Stderr, "solatype:", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	}
}

func telemetrySinkFor(settings config.Config) cfg.Telemetry {
	switch settings.Telemetry {
	case config.TelemetryAtomic:
		return telemetry.NewAtomicSink()
	case config.TelemetryZap:
		logger, err := newZapLogger(settings.DebugMode)
		if err != nil {
			return telemetry.NoopSink{}
		}
		return telemetry.NewZapSink(logger)
	default:
		return telemetry.NoopSink{}
	}
}

func printSummary(tbl *names.Table, g *cfg.CFG) {
	fmt.Printf("blocks: %d   forward topo: %d   backward topo: %d\n",
		len(g.Blocks), len(g.ForwardTopoSort), len(g.BackwardTopoSort))
	for _, bb := range g.ForwardTopoSort {
		header := ""
		if bb.IsLoopHeader() {
			header = " [loop header]"
		}
		fmt.Printf("block %d (depth %d)%s\n", bb.ID, bb.OuterLoops, header)
		if len(bb.Args) > 0 {
			fmt.Print("  args:")
			for _, a := range bb.Args {
				fmt.Printf(" %s", tbl.String(a.Name))
			}
			fmt.Println()
		}
	}
	if len(g.MinLoops) > 0 {
		fmt.Println("minLoops:")
		for v, n := range g.MinLoops {
			fmt.Printf("  %s: %d\n", tbl.String(v.Name), n)
		}
	}
	if len(g.MaxLoopWrite) > 0 {
		fmt.Println("maxLoopWrite:")
		for v, n := range g.MaxLoopWrite {
			fmt.Printf("  %s: %d\n", tbl.String(v.Name), n)
		}
	}
}
