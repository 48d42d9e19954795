package consent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/biemme2/biemme2-site/internal/store"
)

// EventWriter appends to the event log.
type EventWriter interface {
	Create(ctx context.Context, arg store.CreateEventParams) (int64, error)
}

// AuditListener records every consent change in the event log. The record
// holds no personal data, only the chosen categories.
func AuditListener(events EventWriter) Listener {
	return Listener{
		Name:     "audit",
		Priority: 100,
		Fn: func(ctx context.Context, ev Event) error {
			rec, ok := ev.Payload.(Record)
			if !ok {
				return fmt.Errorf("unexpected payload %T", ev.Payload)
			}
			meta, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			_, err = events.Create(ctx, store.CreateEventParams{
				Level:     store.EventLevelInfo,
				Category:  store.EventCategoryConsent,
				Message:   "consent updated",
				Metadata:  string(meta),
				CreatedAt: time.UnixMilli(rec.Timestamp),
			})
			return err
		},
	}
}
