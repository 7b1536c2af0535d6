package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured phone-lookup providers and their live stats",
	RunE:  runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	registry, err := initRegistry()
	if err != nil {
		return eris.Wrap(err, "providers: init registry")
	}

	for _, s := range registry.Stats() {
		status := "enabled"
		if !s.Enabled {
			status = "disabled"
		}
		fmt.Printf("%-15s priority=%d cost=%.3f %s tokens=%d queue=%d active=%d\n",
			s.Provider, s.Priority, s.CostPerRequest, status, s.AvailableTokens, s.QueueLength, s.ActiveRequests)
	}
	return nil
}
