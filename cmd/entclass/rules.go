package main

import (
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/cli"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/config"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/rules"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect industry rules",
	}
	cmd.AddCommand(rulesCheckCmd())
	return cmd
}

func rulesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [path]",
		Short: "Load a rule file and show what it defines",
		Long: `Load a rule file and print every rule it defines along with the sections
that were skipped and why.

Without a path the configured rule file is checked (rules.path, or
industries_config.ini next to the program).`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRulesCheck,
	}
}

func runRulesCheck(cmd *cobra.Command, args []string) error {
	path := config.ExpandPath(viper.GetString("rules.path"))
	if len(args) == 1 {
		path = config.ExpandPath(args[0])
	}
	if path == "" {
		var err error
		if path, err = rules.DefaultPath(); err != nil {
			return err
		}
	}

	loaded, err := rules.Load(path)
	if err != nil {
		return common.NewUserError("Failed to load rule file", err)
	}
	return cli.WriteRules(cmd.OutOrStdout(), loaded)
}
