package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rotar1/rota/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show answer statistics by area and question",
	RunE: func(cmd *cobra.Command, args []string) error {
		weakest, _ := cmd.Flags().GetInt("weakest")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.Questions.State()
		printReport(cmd.OutOrStdout(), stats.Build(st.Questions(), st.Statistics()), weakest)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("weakest", "w", 5, "Number of weakest themes to show (0 hides them)")
}
