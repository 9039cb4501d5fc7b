package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/faqbot-go/internal/app"
	"github.com/0xcro3dile/faqbot-go/internal/domain/entities"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect the configured dataset sources",
}

var datasetCheckCmd = &cobra.Command{
	Use:   "check [source...]",
	Short: "Load every source and report valid and skipped records",
	Long:  "Loads DATASET_SOURCES (or the given sources) and prints a per-source report. Fails when no valid record was found.",
	RunE:  runDatasetCheck,
}

var checkVerbose bool

func init() {
	datasetCheckCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "list every skipped record")
	datasetCmd.AddCommand(datasetCheckCmd)
}

func runDatasetCheck(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("error")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	e, err := app.NewEngine(cfg, log)
	if err != nil {
		return err
	}

	sources := cfg.Dataset.Sources
	if len(args) > 0 {
		sources = args
	}

	ds, reports, err := e.Loader.LoadAll(context.Background(), sources)
	printReports(cmd.OutOrStdout(), reports, checkVerbose)
	if err != nil {
		return err
	}
	if ds.Len() == 0 {
		return entities.ErrEmptyDataset
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s%d records ready%s (%d skipped)\n",
		colorBold, ds.Len(), colorReset, len(ds.Skipped))
	return nil
}

func printReports(w io.Writer, reports []entities.SourceReport, verbose bool) {
	for _, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(w, "%s✗%s %s: %v\n", colorYellow, colorReset, r.Source, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s✓%s %s: %d records, %d skipped\n",
			colorGreen, colorReset, r.Source, r.Records, len(r.Skipped))
		if !verbose {
			continue
		}
		for _, s := range r.Skipped {
			fmt.Fprintf(w, "    %s#%d %s%s\n", colorGray, s.Position, s.Reason, colorReset)
		}
	}
}
