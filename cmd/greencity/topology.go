package main

import (
	"github.com/spf13/cobra"

	"github.com/chrisconley/greencity/internal/report"
)

func topologyCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "topology",
		Short: "Print the zones and wards of the city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			topology, err := cfg.BuildTopology()
			if err != nil {
				return err
			}
			return report.WriteTopology(cmd.OutOrStdout(), topology)
		},
	}
}
