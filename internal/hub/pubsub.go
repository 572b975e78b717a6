package hub

import (
	"context"
	"encoding/json"
	"log"

	"grievance/backend/internal/models"
)

// StartPubSubListener starts a goroutine that relays envelopes published by
// any instance (this one included) to the local run loop.
func (m *ManagerService) StartPubSubListener(ctx context.Context) {
	sub := m.Broker.SubscribeEnvelopes(ctx)

	go func() {
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					log.Println("WARN: events subscription closed")
					return
				}

				var env models.Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					log.Printf("Error unmarshalling Redis envelope: %v", err)
					continue
				}
				m.enqueue(env)
			}
		}
	}()
}
