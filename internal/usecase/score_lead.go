package usecase

import "github.com/xavierca1/ligue-leads/internal/entity"

// Scoring weights. The score is always recomputed from the lead's current
// state, never incremented in place, so replayed events cannot drift it.
const (
	baseScoreDemo        = 40
	baseScorePartnership = 35
	baseScoreContact     = 30
	baseScoreEvent       = 25
	baseScoreLibrary     = 20

	scorePhonePresent   = 10
	scorePayloadPresent = 5

	scoreOpened     = 15
	scoreClicked    = 25
	scoreBounced    = -30
	scoreComplained = -50
)

// ScoreLead maps a lead's persisted attributes to a score in [0, 100].
// Deterministic: same lead state, same score.
func ScoreLead(lead *entity.Lead) int {
	score := channelBaseScore(lead.Channel)

	if lead.Phone != "" {
		score += scorePhonePresent
	}
	if lead.Payload.Reference(lead.Channel) != "" {
		score += scorePayloadPresent
	}

	if lead.Engagement.Opened {
		score += scoreOpened
	}
	if lead.Engagement.Clicked {
		score += scoreClicked
	}
	if lead.Engagement.Bounced {
		score += scoreBounced
	}
	if lead.Engagement.Complained {
		score += scoreComplained
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func channelBaseScore(channel entity.Channel) int {
	switch channel {
	case entity.ChannelDemo:
		return baseScoreDemo
	case entity.ChannelPartnership:
		return baseScorePartnership
	case entity.ChannelContact:
		return baseScoreContact
	case entity.ChannelEvent:
		return baseScoreEvent
	case entity.ChannelLibrary:
		return baseScoreLibrary
	}
	return 0
}
