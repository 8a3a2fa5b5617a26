package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/springguard/project"
	"github.com/dhamidi/springguard/routes"
	"github.com/dhamidi/springguard/ui"
)

func newUICmd() *cobra.Command {
	var addr string
	var watch time.Duration
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "ui <path>",
		Short: "Serve the route report in a browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errMissingPath
			}
			dir := args[0]
			cfg, err := flags.config(cmd, dir)
			if err != nil {
				return err
			}

			server, err := ui.NewServer(func(ctx context.Context) (*routes.Result, error) {
				return analyze(ctx, dir, cfg)
			})
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			if err := server.Rescan(cmd.Context()); err != nil {
				return err
			}

			if watch > 0 {
				files := func() ([]string, error) {
					proj, err := project.LoadFrom(dir, cfg.ProjectOptions())
					if err != nil {
						return nil, err
					}
					return proj.JavaFiles()
				}
				go ui.NewWatcher(server, files, watch).Run(cmd.Context())
			}

			httpServer := &http.Server{Addr: addr, Handler: server}
			go func() {
				<-cmd.Context().Done()
				httpServer.Close()
			}()

			displayAddr := addr
			if strings.HasPrefix(addr, ":") {
				displayAddr = "localhost" + addr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server at http://%s\n", displayAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")
	cmd.Flags().DurationVar(&watch, "watch", 0, "rescan when sources change, polling at this interval")
	flags.register(cmd)

	return cmd
}
