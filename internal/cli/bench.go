package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/rollstat/internal/bench"
	"github.com/wesleyorama2/rollstat/internal/config"
	"github.com/wesleyorama2/rollstat/internal/output"
)

var (
	benchConfigPath string
	benchJSON       bool
	benchQuery      string
	benchNoColor    bool
	benchQuiet      bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Drive synthetic load through a rolling window and report it",
	Long: `Bench runs concurrent writers recording synthetic latency samples and
hit/miss outcomes into a chunked rolling accumulator and a rolling hit
ratio counter, taking periodic snapshots along the way.

Without a config file the built-in defaults are used. With --json the
final report is emitted as JSON; --query extracts a single value from
that report using a GJSON path, e.g. --query latency.p99.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVarP(&benchConfigPath, "config", "c", "", "bench config file (YAML or JSON)")
	benchCmd.Flags().BoolVar(&benchJSON, "json", false, "emit the final report as JSON")
	benchCmd.Flags().StringVarP(&benchQuery, "query", "q", "", "GJSON path to extract from the JSON report")
	benchCmd.Flags().BoolVar(&benchNoColor, "no-color", false, "disable colored output")
	benchCmd.Flags().BoolVar(&benchQuiet, "quiet", false, "suppress progress output")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultBenchConfig()
	if benchConfigPath != "" {
		loaded, err := config.Load(benchConfigPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	machineOutput := benchJSON || benchQuery != ""

	reporter := output.NewReporter(output.ReporterConfig{
		Writer:  cmd.OutOrStdout(),
		NoColor: benchNoColor,
		Quiet:   benchQuiet || machineOutput,
	})

	reporter.PrintHeader(cfg.Name, cfg.Writers, cfg.Duration.Std(), cfg.Window.Std(), cfg.Chunks)

	result, err := bench.NewRunner(cfg).Run(cmd.Context(), reporter.PrintPoint)
	if err != nil {
		return err
	}

	if machineOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if benchQuery != "" {
			value := gjson.GetBytes(data, benchQuery)
			if !value.Exists() {
				return fmt.Errorf("query %q matched nothing in the report", benchQuery)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value.String())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	reporter.PrintSummary(result)
	return nil
}
