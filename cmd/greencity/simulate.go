package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/chrisconley/greencity/internal"
	"github.com/chrisconley/greencity/internal/config"
	"github.com/chrisconley/greencity/internal/infra"
	"github.com/chrisconley/greencity/internal/metrics"
	"github.com/chrisconley/greencity/internal/report"
	"github.com/chrisconley/greencity/specs"
)

type simulateOptions struct {
	count   int
	seed    uint64
	ward    string
	zone    string
	scope   string
	series  string
	metrics bool
}

func simulateCmd(load configLoader) *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Collect batteries in one session and print the dashboard",
		Long: "Adds --count batteries, round-robin over every ward unless --ward is given,\n" +
			"then prints the records, the summary of --scope and the ward grid.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("count") {
				opts.count = cfg.Simulation.Count
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = cfg.Simulation.Seed
			}
			return runSimulate(cmd.OutOrStdout(), cfg, opts)
		},
	}

	cmd.Flags().IntVar(&opts.count, "count", 8, "Number of batteries to add")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Sampler seed; 0 picks a random one")
	cmd.Flags().StringVar(&opts.ward, "ward", "", "Add every battery to this ward")
	cmd.Flags().StringVar(&opts.zone, "zone", "", "Zone of --ward; derived from the ward when omitted")
	cmd.Flags().StringVar(&opts.scope, "scope", "city", "Summary scope: city, zone:<name> or ward:<id>")
	cmd.Flags().StringVar(&opts.series, "series", "", "Also print one metric per battery: ocv, load_voltage, temperature or resistance")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Also print the Prometheus exposition")
	return cmd
}

func runSimulate(out io.Writer, cfg *config.Config, opts simulateOptions) error {
	if opts.count < 0 {
		return errors.New("--count cannot be negative")
	}
	topology, err := cfg.BuildTopology()
	if err != nil {
		return err
	}

	scopeSpec, err := specs.ParseScope(opts.scope)
	if err != nil {
		return err
	}
	scope, err := internal.NewScope(scopeSpec, topology)
	if err != nil {
		return err
	}

	var metric internal.Metric
	if opts.series != "" {
		if metric, err = internal.ParseMetric(opts.series); err != nil {
			return err
		}
	}

	targets, err := simulationTargets(topology, opts.ward, opts.zone)
	if err != nil {
		return err
	}

	bus := infra.NewBus()
	collector := metrics.NewCollector()
	collector.Subscribe(bus)
	subscribeLogger(bus)

	dashOpts := []internal.DashboardOption{internal.WithPublisher(bus)}
	if opts.seed != 0 {
		dashOpts = append(dashOpts, internal.WithSampler(internal.NewSeededSampler(opts.seed)))
	}
	d := internal.NewDashboard(topology, dashOpts...)

	for i := 0; i < opts.count; i++ {
		t := targets[i%len(targets)]
		if _, err := d.AddBattery(t.ward, t.zone); err != nil {
			return fmt.Errorf("adding battery %d: %w", i+1, err)
		}
	}
	klog.V(1).InfoS("Simulation finished", "batteries", d.Count(), "seed", opts.seed)

	sections := []func() error{
		func() error { return report.WriteRecords(out, d.All()) },
		func() error { return report.WriteSummary(out, scope, d.Summary(scope)) },
		func() error { return report.WriteGrid(out, d.Grid()) },
		func() error { return report.WriteZoneGrid(out, d.ZoneGrid()) },
	}
	if opts.series != "" {
		sections = append(sections, func() error {
			return report.WriteSeries(out, metric, d.MetricSeries(scope, metric))
		})
	}
	if opts.metrics {
		sections = append(sections, func() error { return collector.WriteText(out) })
	}

	for i, write := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		if err := write(); err != nil {
			return err
		}
	}
	return nil
}

type target struct {
	ward string
	zone string
}

// simulationTargets returns the wards batteries are added to, in order.
func simulationTargets(topology internal.Topology, ward, zone string) ([]target, error) {
	if ward == "" {
		if zone != "" {
			return nil, errors.New("--zone requires --ward")
		}
		var out []target
		for _, z := range topology.Zones() {
			for _, w := range z.Wards() {
				out = append(out, target{ward: w.ToString(), zone: z.Name().ToString()})
			}
		}
		return out, nil
	}

	if zone == "" {
		_, owner, ok := topology.LookupWard(ward)
		if !ok {
			return nil, fmt.Errorf("%w: unknown ward %q", internal.ErrInvalidWard, ward)
		}
		zone = owner.ToString()
	}
	return []target{{ward: ward, zone: zone}}, nil
}
