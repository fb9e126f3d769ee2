package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"go-salmo/debug"
	"go-salmo/devstub"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cmd := &cli.Command{
		Name:  "devserver",
		Usage: "Local stand-in for the melody generation service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: ":5000",
				Usage: "listen address",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log requests to stderr",
			},
		},
		Action: serve,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, c *cli.Command) error {
	if c.Bool("debug") {
		debug.EnableWriter(os.Stderr)
		defer debug.Disable()
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := devstub.NewRouter(nil)
	srv := &http.Server{
		Addr:    c.String("addr"),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("devserver listening on %s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	fmt.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
