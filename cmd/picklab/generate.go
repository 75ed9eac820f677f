package main

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zintix-labs/picklab"
	"github.com/zintix-labs/picklab/dto"
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/spec"
)

type outputFlags struct {
	out    string
	format string
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags) {
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (\"auto\" = suggested export name, .gz = gzip), default stdout")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text, json")
}

// write 依格式輸出 Session 結果
func (f *outputFlags) write(cmd *cobra.Command, sess *picklab.Session) error {
	path := f.out
	format := strings.ToLower(f.format)
	if path == "auto" {
		path = sess.ExportFileName()
		if format == "json" {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
		}
	}
	var write func(io.Writer) error
	switch format {
	case "text":
		write = sess.WriteExport
	case "json":
		write = sess.ExportJSON
	default:
		return errs.InvalidSettingsf("unknown output format %q", f.format)
	}
	if err := writeOutput(cmd.OutOrStdout(), path, write); err != nil {
		return err
	}
	if path != "" && path != "-" {
		cmd.PrintErrln("saved " + path)
	}
	return nil
}

func newGenerateCmd(o *options) *cobra.Command {
	var (
		out     outputFlags
		request string
	)
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate constrained picks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req *dto.GenerateRequest
			if request != "" {
				r, err := readRequest(cmd, request)
				if err != nil {
					return err
				}
				req = r
			}
			sess, err := o.requestSession(cmd, req)
			if err != nil {
				return err
			}
			defer sess.Close()
			if _, err := sess.Run(); err != nil {
				return err
			}
			return out.write(cmd, sess)
		},
	}
	addSettingsFlags(cmd, &o.settings)
	addOutputFlags(cmd, &out)
	cmd.Flags().StringVar(&request, "request", "", "JSON generate request file (\"-\" = stdin), replays start_b64u when present")
	return cmd
}

func readRequest(cmd *cobra.Command, path string) (*dto.GenerateRequest, error) {
	rc, err := openInput(cmd.InOrStdin(), path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return dto.DecodeGenerateRequest(rc)
}

// requestSession 建立 Session，再套用請求中的 seed、設定與起始快照
func (o *options) requestSession(cmd *cobra.Command, req *dto.GenerateRequest) (*picklab.Session, error) {
	if req == nil {
		return o.newSession(cmd)
	}
	s, err := o.resolveSettings(cmd)
	if err != nil {
		return nil, err
	}
	lab, err := o.newLab(cmd.Context(), cmd)
	if err != nil {
		return nil, err
	}
	seed := o.resolveSeed(cmd)
	if req.Seed != nil {
		seed = *req.Seed
	}
	sess, err := lab.NewSessionWithSeed(s, seed)
	if err != nil {
		return nil, err
	}
	ignored, err := sess.UpdateSettings(req.Settings)
	if err != nil {
		sess.Close()
		return nil, err
	}
	if len(ignored) > 0 {
		lab.Logger().Warn("request settings ignored", slog.Any("keys", ignored))
	}
	snap, err := req.Snapshot()
	if err != nil {
		sess.Close()
		return nil, errs.InvalidSettingsf("invalid start_b64u: %v", err)
	}
	if snap != nil {
		if err := sess.RestoreCore(snap); err != nil {
			sess.Close()
			return nil, err
		}
	}
	return sess, nil
}

func newCoverCmd(o *options) *cobra.Command {
	var (
		out  outputFlags
		from string
		n    int
	)
	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Generate picks that complement an existing set (new euro pairs, unused main numbers)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			existing, err := readPicks(cmd, from)
			if err != nil {
				return err
			}
			sess, err := o.newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()
			if _, err := sess.Cover(existing, n); err != nil {
				return err
			}
			return out.write(cmd, sess)
		},
	}
	addSettingsFlags(cmd, &o.settings)
	addOutputFlags(cmd, &out)
	cmd.Flags().StringVar(&from, "from", "", "existing picks: text export or JSON result (\"-\" = stdin text)")
	cmd.Flags().IntVar(&n, "picks", 5, "number of complementary picks")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

// readPicks 依副檔名讀取文字匯出檔或 JSON 結果
func readPicks(cmd *cobra.Command, path string) ([]spec.Pick, error) {
	rc, err := openInput(cmd.InOrStdin(), path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	name := strings.TrimSuffix(strings.ToLower(path), ".gz")
	if strings.HasSuffix(name, ".json") {
		res, err := dto.DecodeSessionResult(rc)
		if err != nil {
			return nil, err
		}
		return res.ToPicks()
	}
	return picklab.ParseExport(rc)
}
