package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
)

var (
	lookupFullName       string
	lookupCompanyWebsite string
	lookupJobTitle       string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Run a single synchronous phone-lookup waterfall against one set of lead fields",
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupFullName, "name", "", "full name to look up (required)")
	lookupCmd.Flags().StringVar(&lookupCompanyWebsite, "company", "", "company website")
	lookupCmd.Flags().StringVar(&lookupJobTitle, "title", "", "job title")
	_ = lookupCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := initEnv(ctx)
	if err != nil {
		return eris.Wrap(err, "lookup: init environment")
	}
	defer func() { _ = env.Close() }()

	params := model.LookupParams{
		FullName:       lookupFullName,
		CompanyWebsite: lookupCompanyWebsite,
		JobTitle:       lookupJobTitle,
	}
	if params.CompanyWebsite == "" {
		params.CompanyWebsite = model.DefaultCompanyWebsite
	}
	if params.JobTitle == "" {
		params.JobTitle = model.DefaultJobTitle
	}

	res, err := env.waterfall.Run(ctx, params)
	if err != nil {
		return eris.Wrap(err, "lookup: run waterfall")
	}

	if !res.Found() {
		fmt.Println("no phone number found")
		return nil
	}

	fmt.Printf("%s (via %s, cost %.3f)\n", res.Phone, res.Provider, res.Cost)
	return nil
}
