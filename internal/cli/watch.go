package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var username string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live events from the server",
		Long: `Connect to the websocket endpoint and stream server events in real-time.

Events include:
  - onlinePlayers: The online player list changed
  - gameRooms: The lobby room list changed
  - gameStart: A game started
  - moveMade: A stone was placed
  - gameEnd: A game finished

Logging in with --as makes the session visible to other players and
additionally receives events addressed to that player.

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(username, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&username, "as", "", "Log in under this display name")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// StreamedEvent is one received event with a local timestamp
type StreamedEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type wireEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func streamEvents(username string, jsonOutput bool) error {
	wsURL, err := websocketURL(cfg.ServerURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if username != "" {
		login, _ := json.Marshal(map[string]string{"username": username})
		if err := conn.WriteJSON(wireEnvelope{Event: "login", Data: login}); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Printf("Connected to %s\n", wsURL)
	}

	for {
		var env wireEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			if !jsonOutput {
				fmt.Println("\nDisconnected")
			}
			return nil
		}
		printEvent(env.Event, env.Data, jsonOutput)
	}
}

func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"
	return u.String(), nil
}

func printEvent(event string, data json.RawMessage, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		evt := StreamedEvent{
			Time:  now,
			Event: event,
			Data:  data,
		}
		jsonData, _ := json.Marshal(evt)
		fmt.Println(string(jsonData))
	} else {
		timestamp := now.Format("2006-01-02 15:04:05")
		displayData := string(data)
		if len(displayData) > 100 {
			displayData = displayData[:100] + "..."
		}
		displayData = strings.ReplaceAll(displayData, "\n", " ")
		fmt.Printf("[%s] %s: %s\n", timestamp, event, displayData)
	}
}
