package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rotar1/rota/internal/questions"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all answer statistics",
	Long:  "Clear all answer statistics. Favorites, saved questions, notes and exam history are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		out := cmd.OutOrStdout()

		if !yes {
			fmt.Fprint(out, "Clear all answer statistics? [y/N] ")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		resetStatistics(cmd.Context(), a.Questions, out, cmd.ErrOrStderr())
		return nil
	},
}

// resetStatistics clears the statistics. A failed write is reported on
// errOut; the statistics stay cleared for this run.
func resetStatistics(ctx context.Context, c *questions.Container, out, errOut io.Writer) {
	_, res := c.ResetStatistics(ctx)
	fmt.Fprintln(out, "Statistics cleared.")
	warnNotSaved(errOut, "reset", res)
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
