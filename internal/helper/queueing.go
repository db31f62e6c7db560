package helper

import (
	"backend-campus-queue/internal/config"
	"database/sql"
	"errors"
)

var ErrSettingsMissing = errors.New("department settings not configured")

// IsQueueingEnabled reads the department's queue toggle. Services and
// windows must not be modified while this is on.
func IsQueueingEnabled(department string) (bool, error) {
	var enabled string
	err := config.DB.QueryRow(
		"SELECT is_queueing_enabled FROM settings WHERE department = ?",
		department,
	).Scan(&enabled)

	if err == sql.ErrNoRows {
		return false, ErrSettingsMissing
	}

	if err != nil {
		return false, err
	}

	return enabled == "y", nil
}
