package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events <session-id>",
		Short: "Stream live events for a session",
		Long: `Connect to a session's server-sent event stream and print
events as they arrive. Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawJSON, _ := cmd.Flags().GetBool("json")
			return streamEvents(args[0], rawJSON)
		},
	}

	cmd.Flags().Bool("json", false, "Print raw event JSON instead of formatted output")

	return cmd
}

func streamEvents(sessionID string, rawJSON bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nDisconnecting...")
		cancel()
	}()

	url := cfg.ServerURL + "/api/v1/sessions/" + sessionID + "/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// no overall timeout; the stream stays open until cancelled
	httpClient := &http.Client{}
	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream returned status %d", resp.StatusCode)
	}

	fmt.Fprintf(os.Stderr, "Connected to session %s. Waiting for events...\n", sessionID)

	scanner := bufio.NewScanner(resp.Body)
	var eventType string
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			eventType = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data := strings.TrimPrefix(line, "data: ")
			printEvent(eventType, data, rawJSON)
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	return nil
}

func printEvent(eventType, data string, rawJSON bool) {
	timestamp := time.Now().Format("15:04:05")

	if rawJSON {
		fmt.Printf("%s\n", data)
		return
	}

	var event struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		fmt.Printf("[%s] %s: %s\n", timestamp, eventType, data)
		return
	}

	switch event.Type {
	case "matches_found":
		var p struct {
			Matches []struct {
				Positions []struct {
					Row int `json:"row"`
					Col int `json:"col"`
				} `json:"positions"`
			} `json:"matches"`
			Combo int `json:"combo"`
		}
		if err := json.Unmarshal(event.Payload, &p); err == nil {
			cleared := 0
			for _, m := range p.Matches {
				cleared += len(m.Positions)
			}
			fmt.Printf("[%s] combo %d: %d matches, %d pieces cleared\n",
				timestamp, p.Combo, len(p.Matches), cleared)
			return
		}
	case "process_completed":
		var p struct {
			Rounds int `json:"rounds"`
			Score  int `json:"score"`
		}
		if err := json.Unmarshal(event.Payload, &p); err == nil {
			fmt.Printf("[%s] board settled after %d rounds, %d points total\n",
				timestamp, p.Rounds, p.Score)
			return
		}
	}

	fmt.Printf("[%s] %s\n", timestamp, event.Type)
}
