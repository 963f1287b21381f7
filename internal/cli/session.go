package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage game sessions",
	}

	sessionCmd.AddCommand(newSessionCreateCmd())
	sessionCmd.AddCommand(newSessionGetCmd())
	sessionCmd.AddCommand(newSessionEndCmd())
	sessionCmd.AddCommand(newSessionSummaryCmd())

	return sessionCmd
}

func newSessionCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, _ := cmd.Flags().GetInt("rows")
			cols, _ := cmd.Flags().GetInt("cols")
			matchSize, _ := cmd.Flags().GetInt("match-size")
			mode, _ := cmd.Flags().GetString("mode")
			strict, _ := cmd.Flags().GetBool("strict")

			req := map[string]any{}
			if strict {
				req["can_spin"] = false
			}
			if rows > 0 {
				req["rows"] = rows
			}
			if cols > 0 {
				req["cols"] = cols
			}
			if matchSize > 0 {
				req["match_size"] = matchSize
			}
			if mode != "" {
				req["mode"] = mode
			}

			var session SessionResult
			if err := client.Post("/api/v1/sessions", req, &session); err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}

			out.PrintSession(&session)
			return nil
		},
	}

	cmd.Flags().Int("rows", 0, "Board rows (default: server default)")
	cmd.Flags().Int("cols", 0, "Board columns (default: server default)")
	cmd.Flags().Int("match-size", 0, "Minimum run length to match (default: server default)")
	cmd.Flags().String("mode", "", "Piece set mode (default: server default)")
	cmd.Flags().Bool("strict", false, "Reject moves that create no match")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Show a session's current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var session SessionResult
			if err := client.Get("/api/v1/sessions/"+args[0], &session); err != nil {
				return fmt.Errorf("failed to get session: %w", err)
			}

			out.PrintSession(&session)
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "End a session and show its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary SummaryResult
			if err := client.Delete("/api/v1/sessions/"+args[0], &summary); err != nil {
				return fmt.Errorf("failed to end session: %w", err)
			}

			out.PrintSummary(&summary)
			return nil
		},
	}
}

func newSessionSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <session-id>",
		Short: "Show the summary of an ended session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary SummaryResult
			if err := client.Get("/api/v1/sessions/"+args[0]+"/summary", &summary); err != nil {
				return fmt.Errorf("failed to get summary: %w", err)
			}

			out.PrintSummary(&summary)
			return nil
		},
	}
}
