package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting and printing of API responses
type Output struct {
	format  string
	verbose bool
}

// NewOutput creates a new output formatter
func NewOutput(format string, verbose bool) *Output {
	if format != "json" {
		format = "text"
	}
	return &Output{format: format, verbose: verbose}
}

// SessionResult is a session as returned by the API
type SessionResult struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Mode      string    `json:"mode"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	MatchSize int       `json:"match_size"`
	Kinds     []string  `json:"kinds"`
	Grid      [][]int   `json:"grid"`
	Score     int       `json:"score"`
	Rounds    int       `json:"rounds"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SummaryResult is an ended session's summary
type SummaryResult struct {
	ID         string    `json:"id"`
	FinalScore int       `json:"final_score"`
	Rounds     int       `json:"rounds"`
	EndedAt    time.Time `json:"ended_at"`
}

// MoveResult is the response after submitting a move
type MoveResult struct {
	Accepted bool `json:"accepted"`
}

// HealthResult is the health check response
type HealthResult struct {
	Status string `json:"status"`
}

// PrintSession prints a session
func (o *Output) PrintSession(s *SessionResult) {
	if o.format == "json" {
		o.printJSON(s)
		return
	}

	fmt.Printf("Session:    %s\n", s.ID)
	fmt.Printf("State:      %s\n", s.State)
	fmt.Printf("Mode:       %s\n", s.Mode)
	fmt.Printf("Board:      %dx%d (match %d)\n", s.Rows, s.Cols, s.MatchSize)
	fmt.Printf("Score:      %d\n", s.Score)
	fmt.Printf("Rounds:     %d\n", s.Rounds)
	if o.verbose {
		fmt.Printf("Kinds:      %s\n", strings.Join(s.Kinds, ", "))
		fmt.Printf("Created:    %s\n", s.CreatedAt.Format(time.RFC3339))
		fmt.Printf("Updated:    %s\n", s.UpdatedAt.Format(time.RFC3339))
	}
	if len(s.Grid) > 0 {
		fmt.Println()
		o.printGrid(s.Grid)
	}
}

// PrintSummary prints a session summary
func (o *Output) PrintSummary(s *SummaryResult) {
	if o.format == "json" {
		o.printJSON(s)
		return
	}

	fmt.Printf("Session:     %s\n", s.ID)
	fmt.Printf("Final score: %d\n", s.FinalScore)
	fmt.Printf("Rounds:      %d\n", s.Rounds)
	fmt.Printf("Ended at:    %s\n", s.EndedAt.Format(time.RFC3339))
}

// PrintMove prints the result of a submitted move
func (o *Output) PrintMove(m *MoveResult) {
	if o.format == "json" {
		o.printJSON(m)
		return
	}

	if m.Accepted {
		fmt.Println("Move accepted. Watch the event stream for cascade results.")
	} else {
		fmt.Println("Move rejected.")
	}
}

// PrintHint prints a suggested swap
func (o *Output) PrintHint(h *HintResult) {
	if o.format == "json" {
		o.printJSON(h)
		return
	}

	fmt.Printf("Try swapping (%d,%d) with (%d,%d)\n",
		h.From.Row, h.From.Col, h.To.Row, h.To.Col)
}

// PrintHealth prints the health check result
func (o *Output) PrintHealth(h *HealthResult) {
	if o.format == "json" {
		o.printJSON(h)
		return
	}

	fmt.Printf("Status: %s\n", h.Status)
}

// printGrid renders the board with column headers and borders.
// Empty cells (0) render as dots.
func (o *Output) printGrid(grid [][]int) {
	if len(grid) == 0 {
		return
	}
	cols := len(grid[0])

	fmt.Print("     ")
	for c := 0; c < cols; c++ {
		fmt.Printf("%2d ", c)
	}
	fmt.Println()

	fmt.Print("    +")
	fmt.Print(strings.Repeat("---", cols))
	fmt.Println("+")

	for r, row := range grid {
		fmt.Printf(" %2d |", r)
		for _, cell := range row {
			if cell == 0 {
				fmt.Print(" . ")
			} else {
				fmt.Printf("%2d ", cell)
			}
		}
		fmt.Println("|")
	}

	fmt.Print("    +")
	fmt.Print(strings.Repeat("---", cols))
	fmt.Println("+")
}

func (o *Output) printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
	}
}
