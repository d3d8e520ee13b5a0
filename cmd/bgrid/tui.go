package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"bgrid/internal/grid"
	"bgrid/internal/logging"
	"bgrid/internal/session"
	"bgrid/internal/submission"
	"bgrid/internal/tui"
)

var tuiLogFile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Play the board in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.NewFile(cfg.LogLevel, tuiLogFile)
		if err != nil {
			return err
		}

		store := session.NewStore(grid.Policy{CountBlocked: cfg.CountBlockedMoves}, cfg.SessionTTL, logger.Named("sessions"))
		sess := store.Create()
		defer func() { _ = store.Close(sess.ID) }()

		sub := submission.NewHTTPClient(cfg.CollaboratorURL, cfg.SubmitTimeout)
		model := tui.New(sess, sub, cfg.SubmitTimeout+time.Second, logger.Named("tui"))
		_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "bgrid.log", "where the terminal UI writes its log")
	tuiCmd.Flags().String("collaborator-url", "", "endpoint that judges submitted emails")
	tuiCmd.Flags().Bool("count-blocked-moves", true, "count moves that hit the edge as steps")
}
