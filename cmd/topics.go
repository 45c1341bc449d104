package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/bibliz/internal/quiz"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List quiz topics, languages and difficulty levels",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Topics")
		for _, t := range quiz.Topics() {
			fmt.Printf("  %s  %s\n", t.Icon, t.ID)
		}

		fmt.Println("\nLanguages")
		for _, l := range quiz.Languages() {
			fmt.Printf("  %-2s  %-10s  %s\n", l, l.Name(), l.Native())
		}

		fmt.Println("\nDifficulty")
		for i, d := range quiz.Difficulties() {
			fmt.Printf("  %-6s  %d points per correct answer\n", d, quiz.PointsPerCorrect*(i+1))
		}
	},
}
