package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/app/engine"
)

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().Bool("repair", false, "rewrite drifted counters from the ledger")
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Check cached lifetime-deposit counters against the ledger",
	RunE:  runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	repair, _ := cmd.Flags().GetBool("repair")

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
	drifts, err := eng.ReconcileLifetimeDeposits(context.Background(), repair)
	if err != nil {
		return err
	}

	if len(drifts) == 0 {
		fmt.Println("All lifetime-deposit counters match the ledger.")
		return nil
	}
	for _, d := range drifts {
		fmt.Printf("%-36s %-20s cached=%-10d ledger=%d\n", d.MemberID, d.Name, d.Cached, d.Ledger)
	}
	if repair {
		fmt.Printf("Repaired %d member(s).\n", len(drifts))
	} else {
		fmt.Printf("%d member(s) drifted. Re-run with --repair to fix.\n", len(drifts))
	}
	return nil
}
