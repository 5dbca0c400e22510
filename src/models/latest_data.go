package models

// -----------------------------------------------------------------------------
// WebSocket Push Structures
// -----------------------------------------------------------------------------

type MTickerUpdate struct {
	Type      string  `json:"type"` // "INITIAL" or "UPDATE"
	Coins     []MCoin `json:"coins"`
	Timestamp int64   `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// SubscribeCommand for client messages
// -----------------------------------------------------------------------------

type MSubscribeCommand struct {
	Command string   `json:"command"`
	CoinIDs []string `json:"coinIds"`
}
