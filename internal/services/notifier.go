package services

import (
	"context"
	"encoding/json"
	"log"
)

// EventKind names a coarse-grained change event. Events carry nothing else:
// consumers re-fetch what they need instead of trusting embedded deltas.
type EventKind string

const (
	EventTripsChanged       EventKind = "trips-changed"
	EventLedgerChanged      EventKind = "ledger-changed"
	EventSettlementsChanged EventKind = "settlements-changed"
)

// Notifier fans change events out to redis pub/sub subscribers and connected
// websocket clients. Fire-and-forget: failures are logged and dropped, since
// every consumer can rebuild its view from storage.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// Publish delivers the event to every transport, best effort
func (n *Notifier) Publish(ctx context.Context, kind EventKind) {
	if err := PublishEvent(ctx, string(kind)); err != nil {
		log.Printf("Failed to publish %s to redis: %v", kind, err)
	}

	if n.hub != nil {
		message, err := json.Marshal(WebSocketMessage{Type: string(kind)})
		if err != nil {
			log.Printf("Error marshaling %s event: %v", kind, err)
			return
		}
		n.hub.BroadcastToAll(message)
	}
}
