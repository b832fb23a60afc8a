package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"asperro-contact-backend/config"
	"asperro-contact-backend/internal/contactform"
	"asperro-contact-backend/internal/tui"
	"asperro-contact-backend/pkg/logger"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg := config.LoadClientConfig()

	// Log lines would corrupt the terminal UI, so they go to a file when asked for
	if path := os.Getenv("CONTACTFORM_LOG_FILE"); path != "" {
		f, err := tea.LogToFile(path, "contactform")
		if err != nil {
			fmt.Fprintf(os.Stderr, "contactform: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.InitWriter(f, os.Getenv("LOG_LEVEL"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := tui.NewStateBridge()
	ctrl := contactform.New(contactform.Config{
		Endpoint:       cfg.Endpoint,
		SuccessDisplay: cfg.SuccessDisplay,
		HTTPClient:     &http.Client{Timeout: cfg.RequestTimeout},
		OnChange:       bridge.Forward,
	})
	defer ctrl.Close()

	p := tea.NewProgram(tui.NewModel(ctx, ctrl), tea.WithAltScreen())
	bridge.Attach(p.Send)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "contactform: %v\n", err)
		os.Exit(1)
	}
}
