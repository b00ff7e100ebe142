package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/adapters/mockapi"
	"github.com/spf13/cobra"
)

type mockAPIOptions struct {
	Addr       string
	Seed       uint64
	Secret     string
	PrintToken bool
	TokenTTL   time.Duration
	Latency    time.Duration
	RateLimit  int
	PageSize   int
}

func newMockAPICmd(app *app) *cobra.Command {
	opts := mockAPIOptions{}

	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Serve a local sales API with generated data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMockAPI(ctx, cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "127.0.0.1:8000", "Listen address")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "Dataset seed; the same seed serves the same data")
	cmd.Flags().StringVar(&opts.Secret, "secret", "", "Require HS256 bearer tokens signed with this secret")
	cmd.Flags().BoolVar(&opts.PrintToken, "print-token", false, "Print a token accepted by this server (requires --secret)")
	cmd.Flags().DurationVar(&opts.TokenTTL, "token-ttl", time.Hour, "Lifetime of the printed token")
	cmd.Flags().DurationVar(&opts.Latency, "latency", 0, "Delay every response by this long")
	cmd.Flags().IntVar(&opts.RateLimit, "rate-limit", mockapi.DefaultAIRequestsPerMinute, "Requests per minute allowed on each AI route (0 disables)")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", mockapi.DefaultPageSize, "Orders per sales-data page")

	return cmd
}

func runMockAPI(ctx context.Context, cmd *cobra.Command, app *app, opts mockAPIOptions) error {
	if opts.PrintToken && opts.Secret == "" {
		return fmt.Errorf("--print-token requires --secret")
	}

	server := mockapi.New(mockapi.Options{
		Dataset:             mockapi.GenerateDataset(opts.Seed),
		Secret:              opts.Secret,
		PageSize:            opts.PageSize,
		AIRequestsPerMinute: opts.RateLimit,
		Latency:             opts.Latency,
		Logger:              app.logger,
	})

	addr, errCh, err := server.Serve(ctx, opts.Addr)
	if err != nil {
		return fmt.Errorf("start mock api: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "mock sales API listening on http://%s%s\n", addr, mockapi.BasePath)

	if opts.PrintToken {
		token, err := mockapi.IssueToken(opts.Secret, mockapi.TokenRequest{
			UserID: 1,
			Role:   "admin",
			TTL:    opts.TokenTTL,
			Now:    app.now(),
		})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "token: %s\n", token)
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("mock api: %w", err)
	}
	return nil
}
