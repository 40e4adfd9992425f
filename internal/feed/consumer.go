// Coursecast - Realtime Learning Recommendations for Course Platforms
// Copyright 2026 The Coursecast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/coursecast/coursecast

package feed

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coursecast/coursecast/internal/logging"
	"github.com/coursecast/coursecast/internal/metrics"
)

// Consumer reads envelopes from the push channel and applies them to a
// Feed. It makes a single connection attempt: read errors end the run
// and are reported to the caller, never retried internally.
type Consumer struct {
	wsURL            string
	handshakeTimeout time.Duration

	feed *Feed

	connMu sync.RWMutex
	conn   *websocket.Conn

	closeOnce sync.Once
	logger    zerolog.Logger
}

// ConsumerOptions configures a Consumer.
type ConsumerOptions struct {
	// WSURL is the channel endpoint. http(s) schemes are converted to
	// ws(s) automatically.
	WSURL string

	// HandshakeTimeout bounds the opening handshake. Default 10s.
	HandshakeTimeout time.Duration

	Logger *zerolog.Logger
}

// NewConsumer creates a consumer for the given feed. Call Connect then
// Run.
func NewConsumer(feed *Feed, opts ConsumerOptions) *Consumer {
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}

	logger := logging.Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Consumer{
		wsURL:            opts.WSURL,
		handshakeTimeout: opts.HandshakeTimeout,
		feed:             feed,
		logger:           logger.With().Str("component", "feed_consumer").Logger(),
	}
}

// Connect establishes the WebSocket connection. Calling Connect on an
// already connected consumer is a no-op.
func (c *Consumer) Connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn != nil {
		return nil
	}

	wsURL, err := buildWebSocketURL(c.wsURL)
	if err != nil {
		return fmt.Errorf("build websocket url: %w", err)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout:  c.handshakeTimeout,
		EnableCompression: true,
	}

	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket dial failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	c.logger.Info().Str("url", wsURL).Msg("push channel connected")
	return nil
}

// Run reads messages until the connection drops or the context is
// cancelled. Channel errors are logged and end the run; reconnection is
// the caller's decision, not the consumer's.
func (c *Consumer) Run(ctx context.Context) error {
	c.connMu.RLock()
	conn := c.conn
	c.connMu.RUnlock()

	if conn == nil {
		return fmt.Errorf("consumer is not connected")
	}

	// Unblock ReadMessage when the context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.Close()

			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().Msg("push channel closed by server")
				return nil
			}

			metrics.WSErrors.WithLabelValues("read").Inc()
			c.logger.Error().Err(err).Msg("push channel read error")
			return err
		}

		metrics.WSMessagesReceived.Inc()
		c.feed.HandleMessage(message)
	}
}

// Close tears down the connection. Safe to call multiple times and from
// multiple goroutines; the close handshake runs exactly once.
func (c *Consumer) Close() {
	c.closeOnce.Do(func() {
		c.connMu.Lock()
		defer c.connMu.Unlock()

		if c.conn == nil {
			return
		}

		deadline := time.Now().Add(time.Second)
		if err := c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			deadline,
		); err != nil {
			c.logger.Debug().Err(err).Msg("failed to send close message")
		}
		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("failed to close connection")
		}
		c.conn = nil
		c.logger.Info().Msg("push channel connection closed")
	})
}

// buildWebSocketURL normalizes the endpoint scheme: http becomes ws,
// https becomes wss, ws and wss pass through.
func buildWebSocketURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}

	return parsed.String(), nil
}
