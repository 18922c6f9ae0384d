// Command hevy-mcp serves the Hevy tools over MCP (stdio) or HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	hevymcp "github.com/jamoski3112/hevy-mcp"
	"github.com/jamoski3112/hevy-mcp/catalog"
	"github.com/jamoski3112/hevy-mcp/config"
	"github.com/jamoski3112/hevy-mcp/hevy"
	"github.com/jamoski3112/hevy-mcp/httpapi"
	"github.com/jamoski3112/hevy-mcp/mcpserver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "hevy-mcp",
		Short:         "hevy-mcp - MCP server for the Hevy workout API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStdio(cmd, configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	stdioCmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP over stdin/stdout (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStdio(cmd, configPath)
		},
	}
	httpCmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the tools over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHTTP(cmd, configPath)
		},
	}
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "List the tools and call get_workout_count to verify the API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, configPath)
		},
	}
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mcpserver.Name, mcpserver.Version)
		},
	}
	root.AddCommand(stdioCmd, httpCmd, checkCmd, versionCmd)
	return root
}

// app is everything a command needs once the configuration is valid.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	dispatcher *hevymcp.Dispatcher
}

func setup(cmd *cobra.Command, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// stdout carries the protocol in stdio mode; logs always go to stderr.
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.Level()}))

	client, err := hevy.New(cfg.BaseURL, cfg.APIKey, hevy.WithTimeout(cfg.Timeout), hevy.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create hevy client: %w", err)
	}
	reg, err := catalog.NewRegistry(client)
	if err != nil {
		return nil, fmt.Errorf("build tool registry: %w", err)
	}
	d := hevymcp.NewDispatcher(reg,
		hevymcp.WithLogger(logger),
		hevymcp.WithDefaultTimeout(cfg.Timeout),
		hevymcp.WithMiddleware(hevymcp.WithLogging(logger)),
	)
	return &app{cfg: cfg, logger: logger, dispatcher: d}, nil
}

func runStdio(cmd *cobra.Command, configPath string) error {
	a, err := setup(cmd, configPath)
	if err != nil {
		return err
	}
	return mcpserver.Run(cmd.Context(), a.dispatcher, &mcp.StdioTransport{}, &mcpserver.Options{Logger: a.logger})
}

func runHTTP(cmd *cobra.Command, configPath string) error {
	a, err := setup(cmd, configPath)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           httpapi.New(a.dispatcher, httpapi.Config{Token: a.cfg.HTTPToken, Logger: a.logger}).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// runCheck is a connectivity smoke test: it lists the tools and calls
// get_workout_count against the configured API.
func runCheck(cmd *cobra.Command, configPath string) error {
	a, err := setup(cmd, configPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	tools := a.dispatcher.ListTools()
	fmt.Fprintf(out, "%d tools registered\n", len(tools))

	resp, err := a.dispatcher.Dispatch(cmd.Context(), hevymcp.Call{Name: "get_workout_count"})
	if err != nil {
		return fmt.Errorf("get_workout_count: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("get_workout_count: %w", resp.Err)
	}
	fmt.Fprintf(out, "get_workout_count: %s\n", resp.Payload)
	return nil
}
