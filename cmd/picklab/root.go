package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zintix-labs/picklab"
	"github.com/zintix-labs/picklab/assets"
	"github.com/zintix-labs/picklab/catalog"
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/logger"
	"github.com/zintix-labs/picklab/sdk/core"
	"github.com/zintix-labs/picklab/spec"
)

// options 全域旗標；每次 newRootCmd 各自一份
type options struct {
	configPath string
	preset     string
	catalog    string
	logMode    string
	prng       string
	seed       int64

	settings settingsFlags
}

// settingsFlags 只有被明確指定 (Changed) 的旗標會覆蓋設定檔
type settingsFlags struct {
	variant          string
	count            int
	avoidConsecutive bool
	balanceRanges    bool
	presetMain       string
	presetEuro       string
	strategy         string
	poolMain         int
	poolEuro         int
	weighted         bool
}

func newRootCmd() *cobra.Command {
	o := new(options)
	rootCmd := &cobra.Command{
		Use:           "picklab",
		Short:         "Eurojackpot constrained pick generator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "settings file (.toml/.yaml/.json), default "+spec.DefaultConfigPath())
	pf.StringVar(&o.preset, "preset", "", "embedded settings preset: "+strings.Join(assets.Presets(), ", "))
	pf.StringVar(&o.catalog, "catalog", "", "frequency catalog file or http(s) URL (.json/.yaml, optionally .gz/.zst)")
	pf.StringVar(&o.logMode, "log", "dev", "log mode: dev, prod, silence")
	pf.StringVar(&o.prng, "prng", "pcg64", "random source: pcg64, pcg32, secure")
	pf.Int64Var(&o.seed, "seed", 0, "int64 seed for random number generator (default random)")

	rootCmd.AddCommand(newGenerateCmd(o))
	rootCmd.AddCommand(newCoverCmd(o))
	rootCmd.AddCommand(newAnalyzeCmd(o))
	rootCmd.AddCommand(newSimCmd(o))
	rootCmd.AddCommand(newChartCmd(o))
	rootCmd.AddCommand(newTUICmd(o))
	rootCmd.AddCommand(newPresetsCmd())

	return rootCmd
}

func addSettingsFlags(cmd *cobra.Command, f *settingsFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.variant, "variant", "plain", "pick variant: plain, custom, frequency")
	fs.IntVarP(&f.count, "count", "n", 1, fmt.Sprintf("number of picks (1-%d)", spec.MaxCount))
	fs.BoolVar(&f.avoidConsecutive, "avoid-consecutive", true, "reject adjacent main numbers")
	fs.BoolVar(&f.balanceRanges, "balance-ranges", false, "spread main numbers over the five ranges")
	fs.StringVar(&f.presetMain, "preset-main", "", "custom variant main numbers, e.g. \"7, 14, 21\"")
	fs.StringVar(&f.presetEuro, "preset-euro", "", "custom variant euro numbers, e.g. \"3\"")
	fs.StringVar(&f.strategy, "strategy", "hot", "frequency strategy: hot, cold, mixed")
	fs.IntVar(&f.poolMain, "pool-main", 0, "top-N main numbers of the ranked list (0 = whole list)")
	fs.IntVar(&f.poolEuro, "pool-euro", 0, "top-N euro numbers of the ranked list (0 = whole list)")
	fs.BoolVar(&f.weighted, "weighted", false, "rank-weighted draw inside the pool")
}

// patch 將有指定的旗標轉為 spec.Patch
func (f *settingsFlags) patch(cmd *cobra.Command) spec.Patch {
	fs := cmd.Flags()
	p := spec.Patch{}
	set := func(flag, key string, v any) {
		if fs.Changed(flag) {
			p[key] = v
		}
	}
	set("variant", "variant", f.variant)
	set("count", "count", f.count)
	set("avoid-consecutive", "avoidConsecutive", f.avoidConsecutive)
	set("balance-ranges", "balanceRanges", f.balanceRanges)
	set("preset-main", "presetMain", f.presetMain)
	set("preset-euro", "presetEuro", f.presetEuro)
	set("strategy", "strategy", f.strategy)
	set("pool-main", "poolMain", f.poolMain)
	set("pool-euro", "poolEuro", f.poolEuro)
	set("weighted", "weighted", f.weighted)
	return p
}

// resolveSettings 內嵌預設組合或設定檔為底，再套用旗標
func (o *options) resolveSettings(cmd *cobra.Command) (spec.Settings, error) {
	var base *spec.Settings
	switch {
	case o.preset != "":
		s, err := assets.Preset(o.preset)
		if err != nil {
			return spec.Settings{}, err
		}
		base = s
	case o.configPath != "":
		s, found, err := spec.LoadSettingsFile(o.configPath)
		if err != nil {
			return spec.Settings{}, err
		}
		if !found {
			return spec.Settings{}, errs.InvalidSettingsf("config file %s not found", o.configPath)
		}
		base = s
	default:
		s, _, err := spec.LoadSettingsFile(spec.DefaultConfigPath())
		if err != nil {
			return spec.Settings{}, err
		}
		base = s
	}
	if _, err := base.Apply(o.settings.patch(cmd)); err != nil {
		return spec.Settings{}, err
	}
	return *base, nil
}

func (o *options) logger(cmd *cobra.Command) (*slog.Logger, error) {
	mode, err := logger.ParseMode(o.logMode)
	if err != nil {
		return nil, err
	}
	return logger.NewWriterLogger(cmd.ErrOrStderr(), mode), nil
}

func (o *options) factory() (core.PRNGFactory, error) {
	switch strings.ToLower(o.prng) {
	case "", "pcg64":
		return core.Default(), nil
	case "pcg32":
		return core.PCG32Factory(), nil
	case "secure":
		return core.Secure(), nil
	default:
		return nil, errs.InvalidSettingsf("unknown prng %q", o.prng)
	}
}

// resolveSeed 沒有指定 --seed 時取隨機 seed
func (o *options) resolveSeed(cmd *cobra.Command) int64 {
	if cmd.Flags().Changed("seed") {
		return o.seed
	}
	return core.NewSeed()
}

// newLab 建立 Picklab；頻率表載入失敗時以內建表繼續並記錄警告
func (o *options) newLab(ctx context.Context, cmd *cobra.Command) (*picklab.Picklab, error) {
	log, err := o.logger(cmd)
	if err != nil {
		return nil, err
	}
	cf, err := o.factory()
	if err != nil {
		return nil, err
	}
	var src catalog.Source
	if o.catalog != "" {
		src = catalog.SourceFor(o.catalog)
	}
	return picklab.New(ctx, cf, src, log)
}

// newSession 解析設定與 seed 後建立 Session
func (o *options) newSession(cmd *cobra.Command) (*picklab.Session, error) {
	s, err := o.resolveSettings(cmd)
	if err != nil {
		return nil, err
	}
	lab, err := o.newLab(cmd.Context(), cmd)
	if err != nil {
		return nil, err
	}
	return lab.NewSessionWithSeed(s, o.resolveSeed(cmd))
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List embedded settings presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range assets.Presets() {
				s, err := assets.Preset(name)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s, %s\n", name, s.Variant.Label(), s.Summary()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
