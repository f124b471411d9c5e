package handlers

import (
	"database/sql"
	"errors"

	"circle-backend/internal/models"
)

// memberRole returns the caller's role on a server, "" when not a member.
func memberRole(serverID string, userID int64) (string, error) {
	var role string
	err := db.QueryRow("SELECT role FROM server_members WHERE server_id = ? AND user_id = ?", serverID, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

func canManageMembers(role string) bool {
	return role == models.RoleOwner || role == models.RoleAdmin
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
