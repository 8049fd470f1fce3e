package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

type ConsoleConfig struct {
	APIBaseURL string
	SessionID  string
	PlayerName string
	Timeout    time.Duration
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		SessionID:  getEnv("SESSION_ID", ""),
		PlayerName: getEnv("PLAYER_NAME", ""),
		Timeout:    60 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	if cfg.SessionID == "" {
		fmt.Print("Session id (leave blank to start a new adventure): ")
		line, _ := reader.ReadString('\n')
		cfg.SessionID = strings.TrimSpace(line)
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.New().String()[:8]
		fmt.Printf("Starting new session %s\n", cfg.SessionID)
	}

	if cfg.PlayerName == "" {
		fmt.Print("Character name: ")
		line, _ := reader.ReadString('\n')
		cfg.PlayerName = strings.TrimSpace(line)
	}
	if cfg.PlayerName == "" {
		fmt.Fprintf(os.Stderr, "A character name is required\n")
		os.Exit(1)
	}

	playerID := uuid.New().String()

	joined, err := joinSession(client, cfg.APIBaseURL, cfg.SessionID, playerID, cfg.PlayerName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to join session: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, playerID, joined),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
