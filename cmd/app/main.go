package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"TradeLens/internal/di"
	"TradeLens/internal/domain/models"
	"TradeLens/internal/usecase"
	"TradeLens/pkg/config"
)

var (
	configPath string
	symbol     string
	horizon    string
	clearScope string
	cmdTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "tradelens",
	Short: "Market structure analysis and time-locked price range predictions",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			configPath = os.Getenv("TRADELENS_CONFIG")
		}
		return nil
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadWithEnv(configPath)
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}

		app, cleanup, err := di.InitializeApp(cfg)
		if err != nil {
			return fmt.Errorf("app initialization failed: %w", err)
		}
		defer cleanup()

		return app.Run(cmd.Context())
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print the full multi-timeframe analysis of a symbol as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAnalysis(cmd.Context(), func(ctx context.Context, uc *usecase.AnalysisUseCase) error {
			res, err := uc.Analyze(ctx, symbol)
			if err != nil {
				return err
			}
			return printJSON(res)
		})
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Print the locked prediction of a symbol, computing it when none is active",
	RunE: func(cmd *cobra.Command, args []string) error {
		h := models.Horizon(horizon)
		if !h.Valid() {
			return fmt.Errorf("unknown horizon %q (want 1h, 1d or 1w)", horizon)
		}
		return withAnalysis(cmd.Context(), func(ctx context.Context, uc *usecase.AnalysisUseCase) error {
			res, err := uc.Predict(ctx, symbol, h)
			if err != nil {
				return err
			}
			return printJSON(res)
		})
	},
}

var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "Inspect or reset the prediction locks",
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List the active predictions of a symbol",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAnalysis(cmd.Context(), func(ctx context.Context, uc *usecase.AnalysisUseCase) error {
			res, err := uc.PredictionStatus(ctx, symbol)
			if err != nil {
				return err
			}
			return printJSON(res)
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop prediction locks so the next request recomputes",
	RunE: func(cmd *cobra.Command, args []string) error {
		h := models.Horizon(clearScope)
		if clearScope != "" && !h.Valid() {
			return fmt.Errorf("unknown horizon %q (want 1h, 1d or 1w)", clearScope)
		}
		if symbol == "" && clearScope != "" {
			return fmt.Errorf("--horizon requires --symbol")
		}
		return withAnalysis(cmd.Context(), func(ctx context.Context, uc *usecase.AnalysisUseCase) error {
			if err := uc.Predictions().Clear(ctx, symbol, h); err != nil {
				return err
			}
			target := symbol
			if target == "" {
				target = "all symbols"
			}
			fmt.Fprintf(os.Stdout, "predictions cleared for %s\n", target)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (env TRADELENS_CONFIG)")
	rootCmd.PersistentFlags().DurationVar(&cmdTimeout, "timeout", time.Minute, "timeout for one-shot commands")

	for _, c := range []*cobra.Command{analyzeCmd, predictCmd, statusCmd} {
		c.Flags().StringVarP(&symbol, "symbol", "s", "", "instrument, e.g. BTC/USDT or BTC-USDT")
		_ = c.MarkFlagRequired("symbol")
	}
	predictCmd.Flags().StringVar(&horizon, "horizon", "1h", "prediction horizon: 1h, 1d or 1w")
	clearCmd.Flags().StringVarP(&symbol, "symbol", "s", "", "instrument; empty clears every symbol")
	clearCmd.Flags().StringVar(&clearScope, "horizon", "", "horizon; empty clears every horizon")

	predictionsCmd.AddCommand(statusCmd, clearCmd)
	rootCmd.AddCommand(serveCmd, analyzeCmd, predictCmd, predictionsCmd)
}

func withAnalysis(parent context.Context, fn func(context.Context, *usecase.AnalysisUseCase) error) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	uc, cleanup, err := di.InitializeAnalysis(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(parent, cmdTimeout)
	defer cancel()
	return fn(ctx, uc)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
