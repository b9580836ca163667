package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arifurrahman-io/malibagsomiti-backend/internal/report"
)

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsListCmd)
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Inspect treasury accounts",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all treasury accounts with balances",
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

		ov, err := report.New(db).Treasury()
		if err != nil {
			return err
		}
		for _, a := range ov.Accounts {
			marker := " "
			if a.IsPrimary {
				marker = "*"
			}
			fmt.Printf("%s %-36s %-24s %12d\n", marker, a.ID, a.Name, a.Balance)
		}
		fmt.Printf("  total: %d across %d account(s)\n", ov.Total, len(ov.Accounts))
		return nil
	},
}
