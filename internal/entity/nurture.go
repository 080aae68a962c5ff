package entity

import (
	"fmt"
	"time"
)

// Checkpoint is one of the fixed elapsed-time milestones (days since lead
// creation) at which a nurture email may go out.
type Checkpoint int

const (
	CheckpointDay3  Checkpoint = 3
	CheckpointDay7  Checkpoint = 7
	CheckpointDay14 Checkpoint = 14
	CheckpointDay30 Checkpoint = 30
)

// AllCheckpoints in ascending order. One scheduler pass walks all of them.
var AllCheckpoints = []Checkpoint{
	CheckpointDay3,
	CheckpointDay7,
	CheckpointDay14,
	CheckpointDay30,
}

func ParseCheckpoint(days int) (Checkpoint, error) {
	for _, cp := range AllCheckpoints {
		if Checkpoint(days) == cp {
			return cp, nil
		}
	}
	return 0, fmt.Errorf("unknown nurture checkpoint: %d days", days)
}

// Days since lead creation at which this checkpoint fires.
func (c Checkpoint) Days() int {
	return int(c)
}

// Trigger is the key used in templates and the send log ("day3", "day7"...).
func (c Checkpoint) Trigger() string {
	return fmt.Sprintf("day%d", int(c))
}

// NurtureState holds the per-checkpoint idempotency flags. A flag is set
// exactly once, when a dispatch for that checkpoint succeeds, and is never
// unset afterwards.
type NurtureState struct {
	Day3Sent    bool       `json:"day3_sent"`
	Day3SentAt  *time.Time `json:"day3_sent_at,omitempty"`
	Day7Sent    bool       `json:"day7_sent"`
	Day7SentAt  *time.Time `json:"day7_sent_at,omitempty"`
	Day14Sent   bool       `json:"day14_sent"`
	Day14SentAt *time.Time `json:"day14_sent_at,omitempty"`
	Day30Sent   bool       `json:"day30_sent"`
	Day30SentAt *time.Time `json:"day30_sent_at,omitempty"`
}

func (n *NurtureState) Sent(cp Checkpoint) bool {
	switch cp {
	case CheckpointDay3:
		return n.Day3Sent
	case CheckpointDay7:
		return n.Day7Sent
	case CheckpointDay14:
		return n.Day14Sent
	case CheckpointDay30:
		return n.Day30Sent
	}
	return false
}

func (n *NurtureState) MarkSent(cp Checkpoint, at time.Time) {
	switch cp {
	case CheckpointDay3:
		n.Day3Sent, n.Day3SentAt = true, &at
	case CheckpointDay7:
		n.Day7Sent, n.Day7SentAt = true, &at
	case CheckpointDay14:
		n.Day14Sent, n.Day14SentAt = true, &at
	case CheckpointDay30:
		n.Day30Sent, n.Day30SentAt = true, &at
	}
}

// Engagement holds the webhook-driven flags that feed the scorer.
type Engagement struct {
	Opened       bool       `json:"opened"`
	OpenedAt     *time.Time `json:"opened_at,omitempty"`
	Clicked      bool       `json:"clicked"`
	ClickedAt    *time.Time `json:"clicked_at,omitempty"`
	Bounced      bool       `json:"bounced"`
	BouncedAt    *time.Time `json:"bounced_at,omitempty"`
	Complained   bool       `json:"complained"`
	ComplainedAt *time.Time `json:"complained_at,omitempty"`
}
