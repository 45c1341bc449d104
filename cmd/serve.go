package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/bibliz/internal/quiz"
	"github.com/abhisek/bibliz/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a quiz session over a JSON HTTP API",
	Long: `Run one quiz session behind an HTTP API instead of the terminal UI.

The session is driven with POST /api/events and observed with GET /api/state.
The countdown runs on the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(cmd, "")
		if err != nil {
			return err
		}
		defer e.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.cfg.Server.Addr = addr
		}

		gen, err := e.generator(ctx)
		if err != nil {
			return err
		}

		machine := quiz.New(ctx, e.cfg.QuizSettings(), e.history)
		driver := server.NewDriver(machine, gen, e.log)
		srv := server.New(e.cfg.ServerConfig(), driver, e.log)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return driver.Run(gctx)
		})
		g.Go(func() error {
			return srv.Listen()
		})
		g.Go(func() error {
			<-gctx.Done()
			e.log.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			e.log.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
