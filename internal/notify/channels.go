package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/GustavoCaso/spendwatch/internal/logger"
)

// ConsoleChannel prints notifications to a terminal.
type ConsoleChannel struct {
	mu    sync.Mutex
	w     io.Writer
	title *color.Color
}

func NewConsoleChannel(w io.Writer) *ConsoleChannel {
	return &ConsoleChannel{
		w:     w,
		title: color.New(color.Bold, color.FgYellow),
	}
}

func (c *ConsoleChannel) Name() string { return "console" }

func (c *ConsoleChannel) Deliver(_ context.Context, title, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.title.Fprintf(c.w, "%s\n", title); err != nil {
		return err
	}
	_, err := fmt.Fprintf(c.w, "   %s\n", body)
	return err
}

// LogChannel writes notifications to the application log. It is meant for
// headless runs such as the HTTP server.
type LogChannel struct {
	logger *logger.Logger
}

func NewLogChannel(logger *logger.Logger) *LogChannel {
	return &LogChannel{logger: logger}
}

func (c *LogChannel) Name() string { return "log" }

func (c *LogChannel) Deliver(_ context.Context, title, body string) error {
	c.logger.Info("Notification", "title", title, "body", body)
	return nil
}

// Discard drops every notification. Records are still persisted by the
// dispatcher.
type Discard struct{}

func (Discard) Name() string { return "none" }

func (Discard) Deliver(context.Context, string, string) error { return nil }
