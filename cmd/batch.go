package main

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
)

var batchOperations []string

var batchCmd = &cobra.Command{
	Use:   "batch [leadIDs...]",
	Short: "Run an enrichment batch against leads already in the store",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringSliceVar(&batchOperations, "operations", []string{"phone-lookup", "verify-email"},
		"operations to run per lead (phone-lookup, verify-email)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := initEnv(ctx)
	if err != nil {
		return eris.Wrap(err, "batch: init environment")
	}
	defer func() { _ = env.Close() }()

	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return eris.Wrapf(err, "batch: invalid lead id %q", a)
		}
		ids = append(ids, id)
	}

	leads, err := env.store.FindManyByIDs(ctx, ids)
	if err != nil {
		return eris.Wrap(err, "batch: load leads")
	}

	ops, err := parseOperations(batchOperations)
	if err != nil {
		return err
	}

	jobID, err := env.orchestrator.Submit(ctx, leads, ops)
	if err != nil {
		return eris.Wrap(err, "batch: submit")
	}

	job, _ := env.tracker.GetJob(jobID)
	fmt.Printf("job %s: %d/%d processed\n", jobID, job.ProcessedLeads, job.TotalLeads)
	return nil
}

func parseOperations(raw []string) ([]model.Operation, error) {
	ops := make([]model.Operation, 0, len(raw))
	for _, r := range raw {
		switch model.Operation(r) {
		case model.OperationPhoneLookup, model.OperationVerifyEmail:
			ops = append(ops, model.Operation(r))
		default:
			return nil, eris.Errorf("batch: unknown operation %q", r)
		}
	}
	return ops, nil
}
