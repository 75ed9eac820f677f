package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zintix-labs/picklab/catalog"
	"github.com/zintix-labs/picklab/chart"
	"github.com/zintix-labs/picklab/stats"
	"golang.org/x/term"
)

// 頻率表除了長條以外的欄寬
const tableChrome = 60

func newAnalyzeCmd(o *options) *cobra.Command {
	var (
		format     string
		barWidth   int
		catalogOut string
		hot, cold  int
	)
	cmd := &cobra.Command{
		Use:   "analyze <draws.csv>",
		Short: "Analyze a draw history CSV and optionally derive a frequency catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := o.logger(cmd)
			if err != nil {
				return err
			}
			rep, err := analyzeFile(cmd, args[0])
			if err != nil {
				return err
			}
			log.Info("draw history analyzed", slog.Int("draws", rep.Draws), slog.Int("euroEras", len(rep.Euro)))

			out := cmd.OutOrStdout()
			if strings.ToLower(format) == "table" {
				if !cmd.Flags().Changed("bar") {
					barWidth = terminalBarWidth(out)
				}
				rep.StdOut(out, barWidth)
			} else {
				r, err := stats.RenderFor(format)
				if err != nil {
					return err
				}
				if err := r.Write(out, rep); err != nil {
					return err
				}
			}

			if catalogOut == "" {
				return nil
			}
			counts := catalog.DefaultCounts()
			if cmd.Flags().Changed("hot-main") {
				counts.MainHot = hot
			}
			if cmd.Flags().Changed("cold-main") {
				counts.MainCold = cold
			}
			t, err := rep.Catalog(counts, time.Now())
			if err != nil {
				return err
			}
			if err := writeOutput(out, catalogOut, func(w io.Writer) error {
				return t.Write(w, catalog.FormatByName(catalogOut))
			}); err != nil {
				return err
			}
			log.Info("catalog written", slog.String("path", catalogOut))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "report format: table, json, yaml")
	cmd.Flags().IntVar(&barWidth, "bar", stats.DefaultBarWidth, "frequency bar width (default fits the terminal)")
	cmd.Flags().StringVar(&catalogOut, "catalog-out", "", "write a derived frequency catalog (.json/.yaml, optionally .gz)")
	cmd.Flags().IntVar(&hot, "hot-main", 10, "hot main numbers in the derived catalog")
	cmd.Flags().IntVar(&cold, "cold-main", 10, "cold main numbers in the derived catalog")
	return cmd
}

func analyzeFile(cmd *cobra.Command, path string) (*stats.FrequencyReport, error) {
	rc, err := openInput(cmd.InOrStdin(), path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	draws, err := stats.ParseDraws(rc)
	if err != nil {
		return nil, err
	}
	return stats.Analyze(draws)
}

// terminalBarWidth 輸出為終端機時依寬度調整長條，否則使用預設值
func terminalBarWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return stats.DefaultBarWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return stats.DefaultBarWidth
	}
	return min(max(width-tableChrome, 10), 80)
}

func newChartCmd(o *options) *cobra.Command {
	var (
		out   string
		picks int
	)
	cmd := &cobra.Command{
		Use:   "chart <draws.csv>",
		Short: "Render an HTML dashboard of the draw history (and optionally a simulated audit)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := analyzeFile(cmd, args[0])
			if err != nil {
				return err
			}
			var audit *stats.AuditReport
			if picks > 0 {
				a, _, err := o.simulate(cmd, picks, 1, false)
				if err != nil {
					return err
				}
				audit = a
			}
			if err := writeOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return chart.Render(w, rep, audit)
			}); err != nil {
				return err
			}
			if out != "" && out != "-" {
				cmd.PrintErrln("saved " + out)
			}
			return nil
		},
	}
	addSettingsFlags(cmd, &o.settings)
	cmd.Flags().StringVarP(&out, "out", "o", "picklab-chart.html", "output HTML file (\"-\" = stdout)")
	cmd.Flags().IntVar(&picks, "sim", 0, "also chart the number distribution of N simulated picks")
	return cmd
}
