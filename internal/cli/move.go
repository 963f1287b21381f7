package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <session-id> <from-row,from-col> <to-row,to-col>",
		Short: "Swap two adjacent pieces",
		Long: `Submit a swap of two adjacent pieces, e.g.:

  gemgrid move SESSIONABC123 2,3 2,4

The server accepts the move immediately and resolves matches
asynchronously. Use 'gemgrid events' to follow the cascade.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePosition(args[1])
			if err != nil {
				return fmt.Errorf("invalid from position: %w", err)
			}
			to, err := parsePosition(args[2])
			if err != nil {
				return fmt.Errorf("invalid to position: %w", err)
			}

			req := map[string]any{
				"from": from,
				"to":   to,
			}

			var result MoveResult
			if err := client.Post("/api/v1/sessions/"+args[0]+"/moves", req, &result); err != nil {
				return fmt.Errorf("failed to submit move: %w", err)
			}

			out.PrintMove(&result)
			return nil
		},
	}
}

// parsePosition parses "row,col" into a position payload
func parsePosition(s string) (map[string]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected row,col but got %q", s)
	}

	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid row %q", parts[0])
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid col %q", parts[1])
	}

	return map[string]int{"row": row, "col": col}, nil
}
