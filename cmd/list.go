package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rotar1/rota/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := catalog.Filter{}
		f.Area, _ = cmd.Flags().GetString("area")
		f.Theme, _ = cmd.Flags().GetString("theme")
		f.Faculty, _ = cmd.Flags().GetString("faculty")
		f.Year, _ = cmd.Flags().GetString("year")
		f.Search, _ = cmd.Flags().GetString("search")
		f.Favorited, _ = cmd.Flags().GetBool("favorites")
		f.Saved, _ = cmd.Flags().GetBool("saved")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.Questions.State()
		printQuestionList(cmd.OutOrStdout(), f.Apply(st.Questions()), st.Statistics())
		return nil
	},
}

func init() {
	listCmd.Flags().String("area", "", "Only questions of this area")
	listCmd.Flags().String("theme", "", "Only questions of this theme")
	listCmd.Flags().String("faculty", "", "Only questions from this faculty")
	listCmd.Flags().String("year", "", "Only questions from this year")
	listCmd.Flags().StringP("search", "s", "", "Search text in question, area and theme")
	listCmd.Flags().Bool("favorites", false, "Only favorited questions")
	listCmd.Flags().Bool("saved", false, "Only saved questions")
}
