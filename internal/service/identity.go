package service

import (
	"github.com/argeoalecha/hayahai-web-sub001/internal/model"
)

// Identity is the principal resolved for a request. A nil *Identity means
// the caller is anonymous.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsModerator reports whether the identity holds a moderator-class role
func (i *Identity) IsModerator() bool {
	return i != nil && model.IsModeratorRole(i.Role)
}
