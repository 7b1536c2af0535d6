package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/durable"
	"github.com/Genesy-AI/backend-technical-task-joe/internal/email"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the Temporal workers that back the durable phone-lookup and enrichment-batch workflows",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	registry, err := initRegistry()
	if err != nil {
		return eris.Wrap(err, "worker: init registry")
	}

	c, err := durable.NewClient(cfg.Temporal.HostPort, cfg.Temporal.Namespace)
	if err != nil {
		return eris.Wrap(err, "worker: dial temporal")
	}
	defer c.Close()

	zap.L().Info("worker: starting",
		zap.String("hostPort", cfg.Temporal.HostPort),
		zap.String("namespace", cfg.Temporal.Namespace),
	)

	return durable.RunWorkers(c, registry, email.NewStubVerifier())
}
