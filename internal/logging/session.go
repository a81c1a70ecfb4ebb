package logging

import "github.com/google/uuid"

// NewSessionID identifies one client process in local and remote logs.
func NewSessionID() string {
	return uuid.NewString()
}
