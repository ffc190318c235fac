/*
Command kfanim runs a keyframe animation on the elements of an HTML document
and prints how their inline styles change.

Usage:

    kfanim -html page.html -settings anim.yaml [flags]

With the virtual clock (the default) the animation runs as fast as possible
and the styles are printed every -step of animation time. Infinite
animations are cut after -cycles cycles. With -clock real the animation
runs on wall time until it is done or interrupted. Adding -watch restarts
the animation whenever the settings file changes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/npillmayer/keyframes"
	"github.com/npillmayer/keyframes/anim"
	"github.com/npillmayer/keyframes/clock"
	"github.com/npillmayer/keyframes/dom"
	"github.com/npillmayer/keyframes/dom/domdbg"
	"github.com/npillmayer/keyframes/settings"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/sync/errgroup"
)

// options are the command line settings.
type options struct {
	htmlPath     string
	selector     string
	settingsPath string
	clock        string
	step         time.Duration
	frame        time.Duration
	cycles       int
	plan         bool
	watch        bool
	strict       bool
	trace        string
	dotPath      string
	outPath      string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("kfanim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.htmlPath, "html", "", "HTML document to animate")
	fs.StringVar(&opts.selector, "select", ".animated", "CSS selector of the elements to animate")
	fs.StringVar(&opts.settingsPath, "settings", "", "animation settings (.json, .yaml)")
	fs.StringVar(&opts.clock, "clock", "virtual", "clock to run on: virtual | real")
	fs.DurationVar(&opts.step, "step", 250*time.Millisecond, "print interval")
	fs.DurationVar(&opts.frame, "frame", dom.DefaultFrameInterval, "frame interval of tweens")
	fs.IntVar(&opts.cycles, "cycles", 3, "cycles to show of infinite animations (virtual clock)")
	fs.BoolVar(&opts.plan, "plan", false, "print the transition plan and exit")
	fs.BoolVar(&opts.watch, "watch", false, "restart on changes of the settings file (real clock)")
	fs.BoolVar(&opts.strict, "strict", false, "reject unknown style properties")
	fs.StringVar(&opts.trace, "trace", "error", "trace level: debug | info | error")
	fs.StringVar(&opts.dotPath, "dot", "", "write a GraphViz diagram of the final document")
	fs.StringVar(&opts.outPath, "o", "", "write the final document as HTML")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.settingsPath == "" {
		return nil, errors.New("missing -settings")
	}
	if opts.htmlPath == "" && !opts.plan {
		return nil, errors.New("missing -html")
	}
	if opts.clock != "virtual" && opts.clock != "real" {
		return nil, fmt.Errorf("unknown clock %q", opts.clock)
	}
	if opts.step <= 0 {
		return nil, fmt.Errorf("step must be positive, is %s", opts.step)
	}
	if opts.watch && opts.clock != "real" {
		return nil, errors.New("-watch needs -clock real")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "kfanim:", err)
		os.Exit(2)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "kfanim:", err)
		os.Exit(1)
	}
}

var traceKeys = []string{
	"keyframes", "keyframes.timing", "keyframes.anim", "keyframes.dom",
	"keyframes.style", "keyframes.cssom", "keyframes.settings",
}

func setTraceLevel(level string) error {
	var l tracing.TraceLevel
	switch strings.ToLower(level) {
	case "debug":
		l = tracing.LevelDebug
	case "info":
		l = tracing.LevelInfo
	case "error":
		l = tracing.LevelError
	default:
		return fmt.Errorf("unknown trace level %q", level)
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
	return nil
}

func run(ctx context.Context, opts *options, w io.Writer) error {
	if err := setTraceLevel(opts.trace); err != nil {
		return err
	}
	cfg, err := settings.Load(opts.settingsPath)
	if err != nil {
		return err
	}
	if opts.plan {
		plan, err := keyframes.NewPlan(cfg.Keyframes, cfg.Duration)
		if err != nil {
			return err
		}
		fmt.Fprint(w, plan.Tree())
		return nil
	}
	doc, err := loadDocument(opts.htmlPath)
	if err != nil {
		return err
	}
	elements, err := doc.Select(opts.selector)
	if err != nil {
		return err
	}
	if len(elements) == 0 {
		return fmt.Errorf("no element matches %q", opts.selector)
	}
	fmt.Fprintf(w, "animating %d element(s) over %s × %s\n", len(elements), cfg.Duration, cfg.Iterations())
	if opts.clock == "virtual" {
		err = runVirtual(opts, doc, elements, cfg, w)
	} else {
		err = runReal(ctx, opts, elements, cfg, w)
	}
	if err != nil {
		return err
	}
	return writeResults(opts, doc)
}

func loadDocument(path string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dom.Parse(f)
}

// runVirtual advances a virtual clock in steps and prints the styles after
// every step.
func runVirtual(opts *options, doc *dom.Document, elements []*dom.Element, cfg keyframes.Config, w io.Writer) error {
	v := clock.NewVirtual()
	rt := newRuntime(opts, v)
	var failed error
	r, err := anim.Start[*dom.Element](rt, elements, cfg, anim.WithErrorHandler(func(err error) {
		if failed == nil {
			failed = err
		}
	}))
	if err != nil {
		return err
	}
	limit := time.Duration(-1)
	if cfg.Iterations().IsInfinite() {
		limit = time.Duration(opts.cycles)*cfg.Duration + maxDelay(cfg, len(elements))
	}
	printStyles(w, 0, elements)
	for t := opts.step; ; t += opts.step {
		if limit >= 0 && t > limit {
			r.Abort()
			v.RunUntilIdle(0) // let tweens in flight finish
			printStyles(w, v.Now(), elements)
			break
		}
		v.AdvanceTo(t)
		printStyles(w, t, elements)
		if !r.Running() && v.Pending() == 0 {
			break
		}
	}
	return failed
}

// runReal runs the animation on wall time. With -watch, changes of the
// settings file restart it.
func runReal(ctx context.Context, opts *options, elements []*dom.Element, cfg keyframes.Config, w io.Writer) error {
	rt := newRuntime(opts, clock.Realtime())
	animator := anim.NewAnimator[*dom.Element](rt, anim.WithOverlapPolicy(anim.AbortPrevious))
	r, err := animator.Start(elements, cfg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	if opts.watch {
		g.Go(func() error {
			return settings.Watch(ctx, opts.settingsPath, func(cfg keyframes.Config) {
				if _, err := animator.Start(elements, cfg); err != nil {
					tracer().Errorf("restart: %v", err)
					return
				}
				fmt.Fprintln(w, "settings changed, animation restarted")
			})
		})
	} else {
		g.Go(func() error {
			select {
			case <-r.Done():
				rt.Wait()
				cancel()
			case <-ctx.Done():
			}
			return nil
		})
	}
	g.Go(func() error {
		start := time.Now()
		ticker := time.NewTicker(opts.step)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				printStyles(w, time.Since(start).Round(time.Millisecond), elements)
				return nil
			case <-ticker.C:
				printStyles(w, time.Since(start).Round(time.Millisecond), elements)
			}
		}
	})
	err = g.Wait()
	animator.Abort()
	return err
}

func newRuntime(opts *options, s clock.Scheduler) *dom.Runtime {
	rt := dom.NewRuntime(s)
	rt.FrameInterval = opts.frame
	rt.Strict = opts.strict
	return rt
}

func maxDelay(cfg keyframes.Config, n int) time.Duration {
	var longest time.Duration
	for i := 0; i < n; i++ {
		if d := cfg.Delay(i); d > longest {
			longest = d
		}
	}
	return longest
}

func printStyles(w io.Writer, t time.Duration, elements []*dom.Element) {
	for _, el := range elements {
		fmt.Fprintf(w, "%10s  %-24s %s\n", t, el, el.InlineStyle())
	}
}

func writeResults(opts *options, doc *dom.Document) error {
	if opts.outPath != "" {
		if err := writeFile(opts.outPath, doc.Render); err != nil {
			return err
		}
	}
	if opts.dotPath != "" {
		return writeFile(opts.dotPath, func(w io.Writer) error {
			return domdbg.ToGraphViz(doc, w, nil)
		})
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// tracer traces with key 'keyframes'.
func tracer() tracing.Trace {
	return tracing.Select("keyframes")
}
