package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/tui"
)

func newTUICmd(o *options) *cobra.Command {
	var exportDir string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// 介面佔用終端機，未指定 --log 時不輸出 log
			if !cmd.Flags().Changed("log") {
				o.logMode = "silence"
			}
			sess, err := o.newSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()
			program := tea.NewProgram(tui.NewModel(sess, exportDir), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := program.Run(); err != nil {
				return errs.Wrap(err, "failed to run TUI")
			}
			return nil
		},
	}
	addSettingsFlags(cmd, &o.settings)
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for exported picks")
	return cmd
}
