package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/spektr-org/datasynth/engine"
	"github.com/spektr-org/datasynth/export"
	"github.com/spektr-org/datasynth/remote"
	"github.com/spektr-org/datasynth/wizard"
)

type generateFlags struct {
	web       bool
	region    string
	rows      int
	where     []string
	csvPath   string
	xlsxPath  string
	chartPath string
	chartType string
	xKey      string
	yKey      string
	preview   int
	asJSON    bool
}

func newGenerateCmd() *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate [description]",
		Short: "Suggest a schema, generate rows and export them",
		Long: `Run the whole wizard in one go: suggest a schema for the description,
generate rows for it, then preview, filter, chart and export the result.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, strings.Join(args, " "), f)
		},
	}

	cmd.Flags().BoolVar(&f.web, "web", false, "Use the web-lookup suggestion endpoint")
	cmd.Flags().StringVar(&f.region, "region", "", "Locale code, see the regions command")
	cmd.Flags().IntVar(&f.rows, "rows", 0, "Rows to generate (default from config)")
	cmd.Flags().StringArrayVar(&f.where, "where", nil, "Keep rows where column=value (repeatable)")
	cmd.Flags().StringVarP(&f.csvPath, "out", "o", "", "Write CSV to this path")
	cmd.Flags().StringVar(&f.xlsxPath, "xlsx", "", "Write an Excel workbook to this path")
	cmd.Flags().StringVar(&f.chartPath, "chart", "", "Render the chart to this .svg or .png path")
	cmd.Flags().StringVar(&f.chartType, "type", "", "Chart type: bar, line, pie (default from config)")
	cmd.Flags().StringVar(&f.xKey, "x", "", "Chart category column")
	cmd.Flags().StringVar(&f.yKey, "y", "", "Chart value column")
	cmd.Flags().IntVar(&f.preview, "preview", 10, "Rows to print (0 = none)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print rows as JSON instead of a table")
	return cmd
}

func runGenerate(cmd *cobra.Command, description string, f *generateFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	filters := engine.Filters{}
	for _, expr := range f.where {
		if err := filters.ParseFilter(expr); err != nil {
			return err
		}
	}

	c := current.newController(wizard.WithRows(f.rows))
	c.SetDescription(description)
	if f.region != "" {
		if err := c.SetRegion(f.region); err != nil {
			return err
		}
	}

	source := remote.SourceAI
	if f.web {
		source = remote.SourceWeb
	}
	if err := c.SuggestSchema(ctx, source); err != nil {
		return reportFailure(cmd, c, err)
	}
	if err := c.Generate(ctx); err != nil {
		return reportFailure(cmd, c, err)
	}

	rows := engine.FilterRows(c.Snapshot().Rows, filters)
	log.Info().Int("rows", len(rows)).Int("filters", len(filters)).Msg("dataset ready")

	switch {
	case f.asJSON:
		if err := printJSON(out, rows); err != nil {
			return err
		}
	case f.preview > 0:
		printTable(out, rows, f.preview)
		fmt.Fprintln(out, engine.BuildSummary(rows))
	}

	if f.csvPath != "" {
		written, err := export.WriteCSVFile(f.csvPath, rows)
		if err != nil {
			return err
		}
		if written {
			fmt.Fprintf(out, "Wrote %s\n", f.csvPath)
		}
	}
	if f.xlsxPath != "" {
		if err := writeFile(f.xlsxPath, func(w io.Writer) error {
			return export.WriteXLSX(w, rows, current.cfg.Export.Sheet)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", f.xlsxPath)
	}
	if f.chartPath != "" {
		res, err := buildChart(rows, f)
		if err != nil {
			return err
		}
		if err := writeFile(f.chartPath, func(w io.Writer) error {
			return export.RenderChart(w, res, export.FormatFromPath(f.chartPath))
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", f.chartPath)
	}
	return nil
}

func buildChart(rows engine.Dataset, f *generateFlags) (*engine.ChartResult, error) {
	t := current.cfg.ChartType()
	if f.chartType != "" {
		parsed, err := engine.ParseChartType(f.chartType)
		if err != nil {
			return nil, err
		}
		t = parsed
	}
	cfg := engine.DefaultChartConfig(rows, t)
	if f.xKey != "" {
		cfg.XKey = f.xKey
	}
	if f.yKey != "" {
		cfg.YKey = f.yKey
	}
	return engine.BuildChart(rows, cfg, current.chartOptions()...)
}

func reportFailure(cmd *cobra.Command, c *wizard.Controller, err error) error {
	if n := c.Snapshot().Notice; n != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), n)
	}
	return err
}

// writeFile creates path and removes it again if write fails.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
