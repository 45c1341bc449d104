package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/bibliz/internal/quiz"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear past quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListCmd.RunE(cmd, args)
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past quiz results, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := openEnv(cmd, "")
		if err != nil {
			return err
		}
		defer e.Close()

		results, err := e.history.Read(cmd.Context())
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		if len(results) == 0 {
			fmt.Println("No quizzes played yet.")
			return nil
		}
		printHistory(results)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all past quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		e, err := openEnv(cmd, "")
		if err != nil {
			return err
		}
		defer e.Close()

		if !yes {
			fmt.Print("Delete all quiz history? [y/N] ")
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := e.history.Write(cmd.Context(), nil); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Println("History cleared.")
		return nil
	},
}

func printHistory(results []quiz.SessionResult) {
	fmt.Printf("%-16s  %-22s  %-6s  %6s  %7s  %4s\n",
		"Date", "Topic", "Level", "Score", "Correct", "%")
	fmt.Println(strings.Repeat("─", 72))

	var total int
	for _, r := range results {
		fmt.Printf("%-16s  %-22s  %-6s  %6d  %7s  %3d%%\n",
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			clip(r.TopicID, 22),
			r.Difficulty,
			r.Score,
			fmt.Sprintf("%d/%d", r.Correct, r.Total),
			r.Percent(),
		)
		total += r.Score
	}

	fmt.Println(strings.Repeat("─", 72))
	fmt.Printf("%d quizzes, %d points\n", len(results), total)
}

func init() {
	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().IntP("limit", "n", 0, "Number of results to show (0 = all)")
		c.Flags().Bool("json", false, "Print results as JSON")
	}
	historyClearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}
