package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Massinr/cryptotracker/src/models"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop for the ticker strip channel.
// s.clients is only touched under stateMutex; the health endpoint reads it
// from another goroutine.
func (s *APIServer) handleWebsockets() {
	for {
		select {
		case <-s.done:
			return

		case client := <-s.register:
			s.stateMutex.Lock()
			s.clients[client] = struct{}{}
			// Send latest ticker state on connect
			if s.latestTicker != nil {
				client.send <- s.latestTicker
			}
			s.stateMutex.Unlock()

		case client := <-s.unregister:
			s.stateMutex.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.stateMutex.Unlock()

		case update := <-s.broadcast:
			s.stateMutex.Lock()
			s.latestTicker = update

			for client := range s.clients {
				select {
				case client.send <- update:
					// Message sent successfully
				default:
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.stateMutex.Unlock()
		}
	}
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// BroadcastTicker queues a ticker update for every connected client.
func (s *APIServer) BroadcastTicker(update models.MTickerUpdate) {
	update.Type = "UPDATE"
	s.broadcast <- &update
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan interface{}, 256),
	}

	s.register <- client

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage serves subscribe commands: the client narrows the push
// to a set of coin ids and immediately receives the filtered latest state.
func (s *APIServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	s.stateMutex.RLock()
	response := filterTickerUpdate(s.latestTicker, cmd.CoinIDs)
	s.stateMutex.RUnlock()

	// Use select to avoid blocking if the client's send buffer is full
	select {
	case client.send <- response:
	default:
	}
}

// -----------------------------------------------------------------------------

func filterTickerUpdate(update *models.MTickerUpdate, coinIDs []string) *models.MTickerUpdate {
	if update == nil {
		return &models.MTickerUpdate{Type: "INITIAL", Coins: []models.MCoin{}}
	}
	if len(coinIDs) == 0 {
		return update
	}

	wanted := make(map[string]struct{}, len(coinIDs))
	for _, id := range coinIDs {
		wanted[id] = struct{}{}
	}

	filtered := make([]models.MCoin, 0, len(coinIDs))
	for _, coin := range update.Coins {
		if _, ok := wanted[coin.ID]; ok {
			filtered = append(filtered, coin)
		}
	}

	return &models.MTickerUpdate{
		Type:      "INITIAL",
		Coins:     filtered,
		Timestamp: update.Timestamp,
	}
}
