package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// HintResult is a suggested swap as returned by the API
type HintResult struct {
	From struct {
		Row int `json:"row"`
		Col int `json:"col"`
	} `json:"from"`
	To struct {
		Row int `json:"row"`
		Col int `json:"col"`
	} `json:"to"`
}

func newHintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hint <session-id>",
		Short: "Suggest a swap that would produce a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hint HintResult
			if err := client.Get("/api/v1/sessions/"+args[0]+"/hint", &hint); err != nil {
				return fmt.Errorf("failed to get hint: %w", err)
			}

			out.PrintHint(&hint)
			return nil
		},
	}
}
