package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/app/engine"
	"github.com/arifurrahman-io/malibagsomiti-backend/internal/domain"
)

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyShowCmd)
	policyCmd.AddCommand(policySetCmd)
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect or change the late-fine policy",
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current fine policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := db.Policy()
		if err != nil {
			return err
		}
		fmt.Printf("grace months: %d\nfine percent: %g%%\n", p.GraceMonths, p.FinePercent)
		return nil
	},
}

var policySetCmd = &cobra.Command{
	Use:   "set GRACE_MONTHS FINE_PERCENT",
	Short: "Replace the fine policy",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		grace, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("grace months: %w", err)
		}
		pct, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("fine percent: %w", err)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		eng := engine.New(db, nil, nil)
		p := domain.FinePolicy{GraceMonths: grace, FinePercent: pct}
		if err := eng.SetFinePolicy(context.Background(), p); err != nil {
			return err
		}
		fmt.Printf("policy set: grace %d month(s), %g%% per overdue month\n", grace, pct)
		return nil
	},
}
