package websocket

import "github.com/rocketscienceinc/tictactoe-lan/internal/entity"

const TypeChanged = "changed"

// Message is what the hub sends to a page.
type Message struct {
	Type    string      `json:"type"`
	Version uint64      `json:"version"`
	Turn    entity.Mark `json:"turn,omitempty"`
	Over    bool        `json:"over"`
}

func NewChangedMessage(view entity.View) Message {
	return Message{
		Type:    TypeChanged,
		Version: view.Version,
		Turn:    view.Turn,
		Over:    view.IsOver(),
	}
}
