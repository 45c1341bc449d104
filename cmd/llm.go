package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/bibliz/internal/llm"
	"github.com/abhisek/bibliz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded question-generation calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	RunE:  runLLMList,
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE:  runLLMView,
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated cost",
	RunE:  runLLMStats,
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only calls with this purpose, e.g. "+llm.PurposeQuestionBatch)
	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

const timeLayout = "2006-01-02 15:04:05"

func runLLMList(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	purpose, _ := cmd.Flags().GetString("purpose")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
	if err != nil {
		return err
	}
	return printEvents(cmd.OutOrStdout(), events)
}

func printEvents(w io.Writer, events []store.LLMEvent) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No LLM calls recorded.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tPURPOSE\tMODEL\tIN\tOUT\tMS\tOK")
	for _, e := range events {
		ok := "yes"
		if !e.Success {
			ok = "no"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose, clip(e.Model, 32),
			e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
	}
	return tw.Flush()
}

func runLLMView(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID %q", args[0])
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no LLM call with ID %d", id)
	}
	if err != nil {
		return err
	}
	printEvent(cmd.OutOrStdout(), e)
	return nil
}

func printEvent(w io.Writer, e *store.LLMEvent) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", e.ID)
	fmt.Fprintf(tw, "Time:\t%s\n", e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(tw, "Provider:\t%s\n", e.Provider)
	fmt.Fprintf(tw, "Model:\t%s\n", e.Model)
	fmt.Fprintf(tw, "Purpose:\t%s\n", e.Purpose)
	fmt.Fprintf(tw, "Tokens:\t%d in, %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(tw, "Latency:\t%dms\n", e.LatencyMs)
	if e.ErrorMessage != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", e.ErrorMessage)
	}
	_ = tw.Flush()

	section := func(name, body string) {
		if body == "" {
			body = "(empty)"
		}
		fmt.Fprintf(w, "\n== %s ==\n%s\n", name, strings.TrimRight(body, "\n"))
	}
	section("request", e.RequestBody)
	section("response", e.ResponseBody)
}

func runLLMStats(cmd *cobra.Command, _ []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
	if err != nil {
		return err
	}
	byModel, err := s.EventRepo().LLMUsageByModel(ctx)
	if err != nil {
		return err
	}
	return printStats(cmd.OutOrStdout(), byPurpose, byModel)
}

func printStats(w io.Writer, byPurpose []store.PurposeUsage, byModel []store.ModelUsage) error {
	if len(byPurpose) == 0 {
		_, err := fmt.Fprintln(w, "No LLM calls recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PURPOSE\tCALLS\tINPUT\tOUTPUT\tAVG MS\t")
	var calls, in, out int
	for _, u := range byPurpose {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintf(tw, "total\t%d\t%d\t%d\t\t\n", calls, in, out)
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(byModel) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MODEL\tCALLS\tINPUT\tOUTPUT\tCOST\t")
	var total float64
	var unpriced []string
	for _, u := range byModel {
		cost := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			cost = formatUSD(usd)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t\n", clip(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}
	label := "total"
	if len(unpriced) > 0 {
		label = "total (partial)"
	}
	fmt.Fprintf(tw, "%s\t\t\t\t%s\t\n", label, formatUSD(total))
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
	}
	return nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func formatUSD(usd float64) string {
	if usd > 0 && usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
