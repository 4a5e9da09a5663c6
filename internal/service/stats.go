package service

import (
	"github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/domain/model"
)

// UserStats is the admin panel's system summary, computed from the full user list.
type UserStats struct {
	Total    int
	Active   int
	Admins   int
	Officers int
	Analysts int
}

// SummarizeUsers counts users by activity and role.
func SummarizeUsers(users []model.User) UserStats {
	stats := UserStats{Total: len(users)}
	for _, u := range users {
		if u.IsActive {
			stats.Active++
		}
		switch u.RoleName() {
		case auth.RoleAdmin:
			stats.Admins++
		case auth.RoleOfficer:
			stats.Officers++
		case auth.RoleAnalyst:
			stats.Analysts++
		case auth.RoleNone:
		}
	}
	return stats
}

// CountUnread counts messages addressed to userID that are not yet read.
func CountUnread(messages []model.Message, userID int64) int {
	n := 0
	for _, m := range messages {
		if m.To() == userID && !m.IsRead {
			n++
		}
	}
	return n
}

// CountUnreadFrom counts unread messages from senderID to userID.
func CountUnreadFrom(messages []model.Message, userID, senderID int64) int {
	n := 0
	for _, m := range messages {
		if m.To() == userID && m.From() == senderID && !m.IsRead {
			n++
		}
	}
	return n
}
