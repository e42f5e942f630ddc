package rankfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// StreamClient handles the WebSocket connection to the ranking feed's live
// update stream. The stream pushes rank-change notices between polls; a full
// poll is still the authority for snapshot assembly.
type StreamClient struct {
	conn            *websocket.Conn
	streamToken     string
	streamURL       string
	mu              sync.RWMutex
	isConnected     bool
	handlers        []MessageHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          *log.Logger
}

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// MessageHandler is called when a message is received from the stream
type MessageHandler func(msg StreamMessage) error

// StreamMessage represents a message from the ranking feed stream
type StreamMessage struct {
	Op          string       `json:"op"`
	ID          int          `json:"id,omitempty"`
	Status      int          `json:"status,omitempty"`
	Season      string       `json:"season,omitempty"`
	Heartbeat   bool         `json:"heartbeat,omitempty"`
	RankChanges []RankChange `json:"rc,omitempty"`
}

// RankChange represents one team's rank movement in a stream message
type RankChange struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	OldRank  int    `json:"oldRank"`
	NewRank  int    `json:"newRank"`
}

// subscriptionMessage subscribes the connection to a season's updates
type subscriptionMessage struct {
	Op        string `json:"op"`
	ID        int    `json:"id"`
	AuthToken string `json:"authToken"`
	Season    string `json:"season"`
	Heartbeat bool   `json:"heartbeat"`
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// NewStreamClient creates a new stream client
func NewStreamClient(streamURL, streamToken string, logger *log.Logger) *StreamClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &StreamClient{
		streamToken:     streamToken,
		streamURL:       streamURL,
		handlers:        make([]MessageHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// RegisterHandler adds a message handler. Handlers run in delivery order on
// the read loop goroutine.
func (s *StreamClient) RegisterHandler(handler MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Connect establishes the stream connection
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.Printf("Connecting to rank stream: %s", s.streamURL)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()
	RecordStreamConnect()

	s.logger.Printf("Connected to rank stream")
	return nil
}

// Subscribe requests live updates for one season
func (s *StreamClient) Subscribe(season string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isConnected {
		return fmt.Errorf("not connected")
	}

	sub := subscriptionMessage{
		Op:        "subscribe",
		ID:        1,
		AuthToken: s.streamToken,
		Season:    season,
		Heartbeat: true,
	}

	if err := s.conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("failed to subscribe to season %s: %w", season, err)
	}

	s.logger.Printf("Subscribed to season %s updates", season)
	return nil
}

// Listen reads stream messages until the context is cancelled, reconnecting
// with exponential backoff on connection loss.
func (s *StreamClient) Listen(ctx context.Context, season string) error {
	backoff := s.reconnectConfig.InitialBackoff
	retries := 0

	for {
		select {
		case <-ctx.Done():
			return s.Close()
		default:
		}

		err := s.readLoop(ctx)
		if err == nil {
			return nil
		}

		RecordStreamDisconnect()
		s.logger.Printf("Stream read loop ended: %v", err)

		retries++
		if retries > s.reconnectConfig.MaxRetries {
			return fmt.Errorf("stream reconnect retries exhausted: %w", err)
		}

		select {
		case <-ctx.Done():
			return s.Close()
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
		if backoff > s.reconnectConfig.MaxBackoff {
			backoff = s.reconnectConfig.MaxBackoff
		}

		s.mu.Lock()
		s.isConnected = false
		s.mu.Unlock()

		if err := s.Connect(ctx); err != nil {
			s.logger.Printf("Stream reconnect failed: %v", err)
			continue
		}
		if err := s.Subscribe(season); err != nil {
			s.logger.Printf("Stream resubscribe failed: %v", err)
			continue
		}

		// Reset backoff after a successful reconnect
		backoff = s.reconnectConfig.InitialBackoff
		retries = 0
	}
}

func (s *StreamClient) readLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("stream read failed: %w", err)
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		var msg StreamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			RecordStreamMessageError()
			s.logger.Printf("Skipping malformed stream message: %v", err)
			continue
		}

		if msg.Heartbeat {
			continue
		}

		RecordStreamMessage()
		s.dispatch(msg)
	}
}

func (s *StreamClient) dispatch(msg StreamMessage) {
	s.mu.RLock()
	handlers := s.handlers
	s.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(msg); err != nil {
			RecordStreamMessageError()
			s.logger.Printf("Stream handler error: %v", err)
		}
	}
}

// IsConnected reports whether the stream connection is live
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns when the stream last delivered a message
func (s *StreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close shuts the stream connection down
func (s *StreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isConnected || s.conn == nil {
		return nil
	}

	s.isConnected = false
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close stream connection: %w", err)
	}

	return nil
}
