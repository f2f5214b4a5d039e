package testutil

import (
	"context"
	"errors"
	"sync"
)

type Delivered struct {
	Title string
	Body  string
}

// RecordingChannel keeps every delivered notification in memory.
type RecordingChannel struct {
	mu        sync.Mutex
	delivered []Delivered
}

func (c *RecordingChannel) Name() string { return "recording" }

func (c *RecordingChannel) Deliver(_ context.Context, title, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delivered = append(c.delivered, Delivered{Title: title, Body: body})
	return nil
}

func (c *RecordingChannel) Delivered() []Delivered {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Delivered, len(c.delivered))
	copy(out, c.delivered)
	return out
}

// Titles returns the delivered titles in delivery order.
func (c *RecordingChannel) Titles() []string {
	delivered := c.Delivered()
	titles := make([]string, len(delivered))
	for i, d := range delivered {
		titles[i] = d.Title
	}
	return titles
}

var ErrDelivery = errors.New("push display unavailable")

// FailingChannel rejects every delivery.
type FailingChannel struct{}

func (FailingChannel) Name() string { return "failing" }

func (FailingChannel) Deliver(context.Context, string, string) error {
	return ErrDelivery
}
