package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/bibliz/internal/app"
	"github.com/abhisek/bibliz/internal/logger"
	"github.com/abhisek/bibliz/internal/quiz"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	// The alternate screen owns the terminal, so logs go to a file.
	logFile, err := logger.DefaultFile()
	if err != nil {
		return fmt.Errorf("resolve log file: %w", err)
	}
	e, err := openEnv(cmd, logFile)
	if err != nil {
		return err
	}
	defer e.Close()

	gen, err := e.generator(ctx)
	if err != nil {
		return err
	}

	machine := quiz.New(ctx, e.cfg.QuizSettings(), e.history)
	e.log.Info("starting quiz",
		zap.String("language", string(machine.Language())),
		zap.Stringer("difficulty", machine.Difficulty()),
		zap.Int("history", len(machine.History())),
	)

	return app.Run(ctx, app.Options{
		Machine:   machine,
		Generator: gen,
		Logger:    e.log,
	})
}
