package db

import (
	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/sqlgram/sqlgram/internal/models"
)

// GetUserState retrieves the installation state row.
func (db *DB) GetUserState() (*models.UserState, error) {
	var state models.UserState
	if err := db.Where("id = ?", models.DefaultUserStateID).First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// GetOrCreateTrackingID returns the persistent anonymous tracking ID, creating
// one if it doesn't exist. On any error it falls back to a per-session ID.
func (db *DB) GetOrCreateTrackingID() string {
	state, err := db.GetUserState()
	if err != nil {
		return uuid.New().String()
	}

	if state.TrackingID != "" {
		return state.TrackingID
	}

	state.TrackingID = uuid.New().String()
	// Even if the save fails, the generated ID serves this session
	_ = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"tracking_id", "updated_at"}),
	}).Create(state).Error

	return state.TrackingID
}
