// Package logger provides compute pass logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ComputeLogger provides dedicated logging for rating and forecast passes.
type ComputeLogger struct {
	*logrus.Entry
}

// NewComputeLogger creates a new compute logger.
func NewComputeLogger(baseLogger *logrus.Logger) *ComputeLogger {
	return &ComputeLogger{
		Entry: baseLogger.WithField("component", "compute"),
	}
}

// LogRecomputeStart logs the beginning of a season recompute pass.
func (cl *ComputeLogger) LogRecomputeStart(season, variant string, playerCount, teamCount int, startedAt time.Time) {
	cl.WithFields(logrus.Fields{
		"season":       season,
		"variant":      variant,
		"player_count": playerCount,
		"team_count":   teamCount,
		"started_at":   startedAt.Unix(),
	}).Info("Season recompute started")
}

// LogRecomputeComplete logs a finished recompute pass.
func (cl *ComputeLogger) LogRecomputeComplete(season, snapshotID string, playersRated, teamsRanked, forecasts int, durationMs float64) {
	cl.WithFields(logrus.Fields{
		"season":        season,
		"snapshot_id":   snapshotID,
		"players_rated": playersRated,
		"teams_ranked":  teamsRanked,
		"forecasts":     forecasts,
		"duration_ms":   durationMs,
	}).Info("Season recompute completed")
}

// LogSnapshotPublished logs a published league snapshot.
func (cl *ComputeLogger) LogSnapshotPublished(snapshotID, season, checksum string, teamCount int) {
	cl.WithFields(logrus.Fields{
		"snapshot_id": snapshotID,
		"season":      season,
		"checksum":    checksum,
		"team_count":  teamCount,
	}).Info("League snapshot published")
}

// LogVariantChange logs rating variant changes.
func (cl *ComputeLogger) LogVariantChange(oldVariant, newVariant, changedBy string) {
	cl.WithFields(logrus.Fields{
		"old_variant": oldVariant,
		"new_variant": newVariant,
		"changed_by":  changedBy,
	}).Info("Rating variant changed")
}

// LogRecomputeAbort logs an aborted recompute pass with pass state.
func (cl *ComputeLogger) LogRecomputeAbort(season, reason string, passState map[string]interface{}) {
	cl.WithFields(logrus.Fields{
		"season":     season,
		"reason":     reason,
		"pass_state": passState,
	}).Error("Season recompute aborted")
}
