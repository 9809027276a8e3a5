package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/client"
	"github.com/simonvc/lbcoa/internal/server"
	"github.com/simonvc/lbcoa/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}

		st, err := store.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		srv, err := server.New(st, chart.NewRegistry(cfg.Charts.UnverifiedDir), log, addr)
		if err != nil {
			return err
		}
		return srv.ListenAndServe()
	},
}

// startEmbedded serves the database on addr in the background and waits until it answers.
func startEmbedded(addr string) (*client.Client, func(), error) {
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	srv, err := server.New(st, chart.NewRegistry(cfg.Charts.UnverifiedDir), log.WithComponent("embedded"), addr)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Errorw("embedded server stopped", "error", err)
		}
	}()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warnw("embedded server shutdown", "error", err)
		}
		st.Close()
	}

	c := client.New("http://" + addr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		if err := c.Ping(ctx); err == nil {
			break
		}
		if ctx.Err() != nil {
			stop()
			return nil, nil, fmt.Errorf("timeout waiting for embedded server")
		}
		time.Sleep(50 * time.Millisecond)
	}
	return c, stop, nil
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8888", "Listen address")
	rootCmd.AddCommand(serveCmd)
}
