package main

import (
	"log/slog"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/cli"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous classification runs",
		RunE:  runHistory,
	}
	cmd.Flags().IntP("limit", "n", 20, "number of runs to show")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return common.NewUserError("--limit must be positive", common.ErrInvalidConfig)
	}

	dbPath := config.ExpandPath(viper.GetString("history.path"))
	store, err := openHistory(cmd.Context(), dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	slog.Debug("Reading run history", "path", store.Path(), "limit", limit)
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	return cli.WriteRuns(cmd.OutOrStdout(), runs)
}
