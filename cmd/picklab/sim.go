package main

import (
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zintix-labs/picklab/sdk/perf"
	"github.com/zintix-labs/picklab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	green = "\033[1;32m"
	reset = "\033[0m"
)

func newSimCmd(o *options) *cobra.Command {
	var (
		picks     int
		workers   int
		progress  bool
		format    string
		pprofMode string
		pprofDir  string
	)
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Simulate many picks and report how often the constraints had to be relaxed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				rep  *stats.AuditReport
				used time.Duration
			)
			path, err := perf.Run(pprofDir, pprofMode, func() error {
				var err error
				rep, used, err = o.simulate(cmd, picks, workers, progress)
				return err
			})
			if err != nil {
				return err
			}
			if path != "" {
				cmd.PrintErrln("profile " + path)
			}

			out := cmd.OutOrStdout()
			if strings.ToLower(format) == "table" {
				rep.StdOut(out, used)
				return nil
			}
			r, err := stats.RenderFor(format)
			if err != nil {
				return err
			}
			return r.Write(out, rep)
		},
	}
	addSettingsFlags(cmd, &o.settings)
	cmd.Flags().IntVar(&picks, "picks", 100000, "picks per worker")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "number of workers")
	cmd.Flags().BoolVar(&progress, "progress", true, "show progress bar")
	cmd.Flags().StringVar(&format, "format", "table", "report format: table, json, yaml")
	cmd.Flags().StringVarP(&pprofMode, "pprof", "p", "", "pprof: '', "+strings.Join(perf.Modes, ", "))
	cmd.Flags().StringVar(&pprofDir, "pprof-dir", perf.DefaultDir, "pprof output directory")
	return cmd
}

// simulate 以目前設定執行 SimMP
func (o *options) simulate(cmd *cobra.Command, picks, workers int, progress bool) (*stats.AuditReport, time.Duration, error) {
	s, err := o.resolveSettings(cmd)
	if err != nil {
		return nil, 0, err
	}
	lab, err := o.newLab(cmd.Context(), cmd)
	if err != nil {
		return nil, 0, err
	}
	sim, err := lab.NewSimulatorWithSeed(s, o.resolveSeed(cmd))
	if err != nil {
		return nil, 0, err
	}
	if progress {
		p := message.NewPrinter(language.English)
		p.Fprintf(cmd.ErrOrStderr(), "%s[WORKERS:%d] [VARIANT:%s] [PICKS:%d] [SEED:%d]%s\n",
			green, workers, s.Variant, workers*picks, sim.Seed(), reset)
	}
	rep, used, err := sim.SimMP(cmd.Context(), picks, workers, progress)
	if err != nil {
		return nil, 0, err
	}
	lab.Logger().Debug("simulator finished", slog.Int64("seed", sim.Seed()), slog.Duration("used", used))
	return rep, used, nil
}
