package reconciler

import (
	"strings"

	"nhl_v1/pipeline/internal/models"
)

// mapState translates the upstream state token into a lifecycle status.
// Unknown tokens default to scheduled.
func mapState(state string) string {
	switch strings.ToUpper(state) {
	case "LIVE", "CRIT":
		return models.StatusLive
	case "FINAL":
		return models.StatusFinal
	default:
		return models.StatusScheduled
	}
}

// EffectiveStatus computes the status a raw game record actually represents.
// The upstream status token lags behind the scores on recently closed games,
// so the presence of both scores forces final regardless of the token.
func EffectiveStatus(state string, homeScore, awayScore *int) string {
	if homeScore != nil && awayScore != nil {
		return models.StatusFinal
	}
	return mapState(state)
}
