package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/chrisconley/greencity/internal"
	"github.com/chrisconley/greencity/internal/infra"
	"github.com/chrisconley/greencity/internal/metrics"
	"github.com/chrisconley/greencity/internal/server"
	"github.com/chrisconley/greencity/internal/session"
)

func serveCmd(load configLoader) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dashboard sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			topology, err := cfg.BuildTopology()
			if err != nil {
				return err
			}

			bus := infra.NewBus()
			collector := metrics.NewCollector()
			collector.Subscribe(bus)
			subscribeLogger(bus)

			registry := session.NewRegistry(sessionFactory(topology, bus, cfg.Simulation.Seed), bus)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			go func() {
				select {
				case sig := <-sigChan:
					klog.InfoS("Received signal, shutting down", "signal", sig)
					cancel()
				case <-ctx.Done():
				}
			}()

			return server.New(registry, topology, collector.Handler()).Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address (overrides config)")
	return cmd
}

// sessionFactory builds the dashboard of each new session. With a non-zero
// seed the n-th session (from 0) samples with seed+n, so sessions differ from
// each other while a restarted server replays the same sequence. The first
// session matches `simulate --seed` with the same seed.
func sessionFactory(topology internal.Topology, bus *infra.Bus, seed uint64) session.Factory {
	var opened atomic.Uint64
	return func() *internal.Dashboard {
		n := opened.Add(1) - 1
		opts := []internal.DashboardOption{internal.WithPublisher(bus)}
		if seed != 0 {
			klog.V(4).InfoS("Seeding session sampler", "seed", seed+n)
			opts = append(opts, internal.WithSampler(internal.NewSeededSampler(seed+n)))
		}
		return internal.NewDashboard(topology, opts...)
	}
}

// subscribeLogger logs every classified battery at verbosity 2.
func subscribeLogger(bus *infra.Bus) {
	bus.Subscribe(infra.BatteryAdded, func(e infra.Event) {
		added, ok := e.(internal.BatteryAddedEvent)
		if !ok {
			return
		}
		klog.V(2).InfoS("Battery classified",
			"battery", added.Record.ID,
			"ward", added.Record.WardID,
			"resistance", added.Record.InternalResistance,
			"status", added.Record.Status)
	})
}
