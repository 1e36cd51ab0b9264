package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rotar1/rota/internal/catalog"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a question with its alternatives, note and statistic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.Questions.State()
		q, ok := st.Question(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", catalog.ErrUnknownQuestion, args[0])
		}
		s, hasStat := st.Statistic(q.ID)
		printQuestion(cmd.OutOrStdout(), q, s, hasStat)
		return nil
	},
}
