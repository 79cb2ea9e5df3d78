package ws

import (
	"context"
	"encoding/json"
	"time"

	"competency-matrix/internal/competencysync"
)

const EventCompetenciesSynced = "competencies_synced"

type CompetenciesSyncedEvent struct {
	Type      string                   `json:"type"`
	RunID     string                   `json:"runId"`
	Mode      string                   `json:"mode"`
	Summary   string                   `json:"summary"`
	Processed competencysync.Processed `json:"details"`
	Timestamp string                   `json:"timestamp"`
}

// Notifier pushes an event to every subscriber after each successful run.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) SyncFinished(ctx context.Context, r competencysync.Report) {
	if n == nil || n.hub == nil || !r.Successful {
		return
	}
	b, err := json.Marshal(CompetenciesSyncedEvent{
		Type:      EventCompetenciesSynced,
		RunID:     r.RunID,
		Mode:      r.Mode,
		Summary:   r.Summary,
		Processed: r.Result.Processed(),
		Timestamp: n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
