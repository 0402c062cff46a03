package main

import (
	goflag "flag"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/chrisconley/greencity/internal/config"
)

func main() {
	defer klog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// configLoader loads the configuration named by the global --config flag.
type configLoader func(cmd *cobra.Command) (*config.Config, error)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "greencity",
		Short:        "Battery collection dashboard for the city's recycling wards",
		SilenceUsage: true,
	}

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")

	load := func(cmd *cobra.Command) (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		if cfg.Log.Verbosity > 0 && !cmd.Flags().Changed("v") {
			if err := klogFlags.Set("v", strconv.Itoa(cfg.Log.Verbosity)); err != nil {
				return nil, err
			}
		}
		klog.V(2).InfoS("Loaded configuration",
			"path", configPath,
			"zones", len(cfg.Topology.Zones),
			"wardsPerZone", cfg.Topology.WardsPerZone)
		return cfg, nil
	}

	rootCmd.AddCommand(simulateCmd(load))
	rootCmd.AddCommand(topologyCmd(load))
	rootCmd.AddCommand(serveCmd(load))
	return rootCmd
}
