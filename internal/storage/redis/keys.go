package redis

import (
	"fmt"

	"github.com/soval/gemgrid/internal/model"
)

// Key prefix for all board-engine data
const keyPrefix = "gemgrid"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// summaryKey returns the Redis key for a SessionSummary
func summaryKey(id model.SessionID) string {
	return fmt.Sprintf("%s:summary:%s", keyPrefix, id)
}
