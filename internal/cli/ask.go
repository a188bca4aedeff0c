package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfleet/opsagent/internal/observability"
	"github.com/openfleet/opsagent/internal/tracing"
	"github.com/openfleet/opsagent/pkg/agent"
)

var askTenant string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the operation",
	Long: `Ask a natural-language question about sites, orders, deliveries,
collections, drivers or schedules. The agent queries the data store and
answers from the results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askTenant, "tenant", "", "tenant ID override (defaults to the configured tenant)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.cfg.Metrics.Enabled {
		srv := &http.Server{Addr: rt.cfg.Metrics.Addr, Handler: observability.MetricsHandler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zl := rt.log.GetZerolog()
				zl.Warn().Err(err).Msg("Metrics server stopped")
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	if err := tracing.Init("opsagent"); err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = tracing.Shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = tracing.WithTenantID(ctx, rt.cfg.Agent.DefaultTenant)

	question := strings.Join(args, " ")
	result, err := rt.runner.Run(ctx, question)
	if err != nil {
		var exhausted *agent.ExhaustedError
		if errors.As(err, &exhausted) {
			fmt.Println("The agent could not reach an answer within its step budget.")
			fmt.Printf("Steps used: %d\n", exhausted.Steps)
			return err
		}
		return err
	}

	fmt.Println(result.Answer)
	zl := rt.log.GetZerolog()
	zl.Debug().
		Int("steps", result.Steps).
		Int("input_tokens", result.Usage.InputTokens).
		Int("output_tokens", result.Usage.OutputTokens).
		Msg("Run finished")

	return nil
}
