package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baxromumarov/muxstream"
	"github.com/baxromumarov/muxstream/chanx"
)

type event interface{ muxstream.Tagged }

type intEvent int
type floatEvent float64
type textEvent string

func (intEvent) Tag() muxstream.Tag   { return "A" }
func (floatEvent) Tag() muxstream.Tag { return "B" }
func (textEvent) Tag() muxstream.Tag  { return "C" }

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	opts := []muxstream.Option{
		muxstream.WithLogger(logger),
		muxstream.WithVariants("A", "B", "C"),
		muxstream.WithErrorHandler(muxstream.Panicking()),
		muxstream.WithPanicAsError(),
	}

	input := []event{intEvent(123), floatEvent(24.24), textEvent("Hello"), textEvent("ABC"), intEvent(811)}

	a := muxstream.Case("A", muxstream.Assert[event, intEvent]())
	b := muxstream.Case("B", muxstream.Assert[event, floatEvent]())
	c := muxstream.Case("C", muxstream.Assert[event, textEvent]())

	now := time.Now()

	d, err := muxstream.Demux(ctx, muxstream.FromSlice(input), []muxstream.Output[event]{a, b, c}, opts...)
	if err != nil {
		fmt.Println("demux:", err)
		os.Exit(1)
	}

	var (
		as []intEvent
		bs []floatEvent
		cs []textEvent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { as, err = chanx.Collect(gctx, a.Receiver()); return err })
	g.Go(func() (err error) { bs, err = chanx.Collect(gctx, b.Receiver()); return err })
	g.Go(func() (err error) { cs, err = chanx.Collect(gctx, c.Receiver()); return err })
	if err := g.Wait(); err != nil {
		fmt.Println("drain:", err)
		os.Exit(1)
	}
	if err := d.Wait(); err != nil {
		fmt.Println("demux:", err)
		os.Exit(1)
	}
	fmt.Println("A:", as)
	fmt.Println("B:", bs)
	fmt.Println("C:", cs)

	m, err := muxstream.Mux(ctx, []muxstream.Input[event]{
		muxstream.From("A", muxstream.FromSlice(as), muxstream.Convert[intEvent, event]()),
		muxstream.From("B", muxstream.FromSlice(bs), muxstream.Convert[floatEvent, event]()),
		muxstream.From("C", muxstream.FromSlice(cs), muxstream.Convert[textEvent, event]()),
	}, opts...)
	if err != nil {
		fmt.Println("mux:", err)
		os.Exit(1)
	}
	merged, err := chanx.Collect(ctx, m.Receiver())
	if err != nil {
		fmt.Println("collect:", err)
		os.Exit(1)
	}
	if err := m.Wait(); err != nil {
		fmt.Println("mux:", err)
		os.Exit(1)
	}

	for _, e := range merged {
		fmt.Printf("%s: %v\n", e.Tag(), e)
	}
	fmt.Println("demux:", d.Metrics(), "mux:", m.Metrics())
	fmt.Println("elapsed:", time.Since(now))
}
