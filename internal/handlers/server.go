package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"circle-backend/internal/apperror"
	"circle-backend/internal/content"
	"circle-backend/internal/models"
	"circle-backend/internal/snowflake"
	"circle-backend/internal/state"

	"github.com/google/uuid"
)

func handleAddServer(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	name := r.FormValue("name")
	if name == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Server name is required")
	}

	icon := r.FormValue("icon")
	if icon == "" {
		icon = "🎯"
	}

	serverSf, err := snowflake.Generate()
	if err != nil {
		return nil, err
	}
	serverID := fmt.Sprintf("server_%d", serverSf)

	inviteCode, err := randomToken(8)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()

	// Server row, owner membership, and all 13 features with their initial
	// documents land in one transaction.
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	server := models.Server{
		ID:         serverID,
		Name:       name,
		Icon:       icon,
		OwnerID:    user.ID,
		InviteCode: inviteCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = tx.Exec(
		"INSERT INTO servers (id, name, icon, owner_id, invite_code, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		server.ID, server.Name, server.Icon, server.OwnerID, server.InviteCode, server.CreatedAt, server.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	membership := models.Membership{
		ServerID: serverID,
		UserID:   user.ID,
		Role:     models.RoleOwner,
		JoinedAt: now,
	}

	_, err = tx.Exec(
		"INSERT INTO server_members (server_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		membership.ServerID, membership.UserID, membership.Role, membership.JoinedAt,
	)
	if err != nil {
		return nil, err
	}

	for position, entry := range content.DefaultFeatures {
		featureSf, err := snowflake.Generate()
		if err != nil {
			return nil, err
		}

		feature := models.Feature{
			ID:        fmt.Sprintf("%s_%s_%d", serverID, entry.Type, featureSf),
			ServerID:  serverID,
			Name:      entry.Name,
			Type:      entry.Type,
			Icon:      entry.Icon,
			Position:  int64(position),
			CreatedAt: now,
		}

		_, err = tx.Exec(
			"INSERT INTO features (id, server_id, name, type, icon, position, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			feature.ID, feature.ServerID, feature.Name, feature.Type, feature.Icon, feature.Position, feature.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := contentStore.CreateDefaultTx(tx, feature.ID, feature.Type); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handleCreateInvite(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	serverID := r.FormValue("serverId")
	if serverID == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Server ID is required")
	}

	role, err := memberRole(serverID, user.ID)
	if err != nil {
		return nil, err
	}
	if !canManageMembers(role) {
		return nil, apperror.New(apperror.Unauthorized, "You don't have permission to invite")
	}

	inviteCode, err := randomToken(8)
	if err != nil {
		return nil, err
	}

	inviteID := uuid.NewString()
	expiresAt := time.Now().Add(24 * time.Hour)

	_, err = db.Exec(
		"INSERT INTO server_invites (id, server_id, inviter_id, invite_code, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		inviteID, serverID, user.ID, inviteCode, expiresAt.Unix(), time.Now().Unix(),
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"inviteId":   inviteID,
		"inviteCode": inviteCode,
		"expiresAt":  expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func handleAcceptInvite(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	inviteCode := r.FormValue("inviteCode")
	if inviteCode == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Invite code is required")
	}

	var invite models.Invite
	err := db.QueryRow(
		"SELECT id, server_id, inviter_id FROM server_invites WHERE invite_code = ? AND used_at IS NULL AND expires_at > ?",
		inviteCode, time.Now().Unix(),
	).Scan(&invite.ID, &invite.ServerID, &invite.InviterID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.NotFound, "Invalid or expired invite code")
	}
	if err != nil {
		return nil, err
	}

	// joining a server you already belong to is a no-op, the invite stays
	// unused
	existingRole, err := memberRole(invite.ServerID, user.ID)
	if err != nil {
		return nil, err
	}
	if existingRole != "" {
		return aggregator.Snapshot(user.ID)
	}

	membership := models.Membership{
		ServerID:  invite.ServerID,
		UserID:    user.ID,
		Role:      models.RoleMember,
		JoinedAt:  time.Now().Unix(),
		InvitedBy: sql.NullInt64{Int64: invite.InviterID, Valid: true},
	}

	_, err = db.Exec(
		"INSERT INTO server_members (server_id, user_id, role, joined_at, invited_by) VALUES (?, ?, ?, ?, ?)",
		membership.ServerID, membership.UserID, membership.Role, membership.JoinedAt, membership.InvitedBy,
	)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(
		"UPDATE server_invites SET used_at = ?, used_by = ?, current_uses = current_uses + 1 WHERE id = ?",
		time.Now().Unix(), user.ID, invite.ID,
	)
	if err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handleUpdateMemberRole(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	serverID := r.FormValue("serverId")
	targetUserID := r.FormValue("userId")
	newRole := r.FormValue("role")

	if serverID == "" || targetUserID == "" || newRole == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Server ID, user ID and role are required")
	}

	// owner is never assignable through this path
	if err := validate.Var(newRole, "oneof=member moderator admin"); err != nil {
		return nil, apperror.New(apperror.InvalidArgument, "Invalid role")
	}

	actorRole, err := memberRole(serverID, user.ID)
	if err != nil {
		return nil, err
	}
	if !canManageMembers(actorRole) {
		return nil, apperror.New(apperror.Unauthorized, "You don't have permission to change roles")
	}

	var currentRole string
	err = db.QueryRow("SELECT role FROM server_members WHERE server_id = ? AND user_id = ?", serverID, targetUserID).Scan(&currentRole)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.NotFound, "Member not found")
	}
	if err != nil {
		return nil, err
	}
	if currentRole == models.RoleOwner {
		return nil, apperror.New(apperror.InvalidArgument, "The owner's role can't be changed")
	}

	_, err = db.Exec("UPDATE server_members SET role = ? WHERE server_id = ? AND user_id = ?", newRole, serverID, targetUserID)
	if err != nil {
		return nil, err
	}

	return map[string]any{"message": "Role updated"}, nil
}

func handleKickMember(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	serverID := r.FormValue("serverId")
	targetUserID := r.FormValue("userId")

	if serverID == "" || targetUserID == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Server ID and user ID are required")
	}

	actorRole, err := memberRole(serverID, user.ID)
	if err != nil {
		return nil, err
	}
	if !canManageMembers(actorRole) {
		return nil, apperror.New(apperror.Unauthorized, "You don't have permission to remove members")
	}

	var currentRole string
	err = db.QueryRow("SELECT role FROM server_members WHERE server_id = ? AND user_id = ?", serverID, targetUserID).Scan(&currentRole)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.NotFound, "Member not found")
	}
	if err != nil {
		return nil, err
	}
	if currentRole == models.RoleOwner {
		return nil, apperror.New(apperror.InvalidArgument, "The owner can't be removed")
	}

	_, err = db.Exec("DELETE FROM server_members WHERE server_id = ? AND user_id = ?", serverID, targetUserID)
	if err != nil {
		return nil, err
	}

	return map[string]any{"message": "Member removed"}, nil
}

func handleGetServerMembers(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	serverID := r.FormValue("serverId")
	if serverID == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Server ID is required")
	}

	role, err := memberRole(serverID, user.ID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, apperror.New(apperror.Unauthorized, "You are not a member of this server")
	}

	rows, err := db.Query(`
		SELECT u.id, u.username, u.nickname, u.avatar, m.role, m.joined_at
		FROM server_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.server_id = ?
		ORDER BY m.joined_at
	`, serverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type memberView struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Nickname string `json:"nickname"`
		Avatar   string `json:"avatar"`
		Role     string `json:"role"`
		JoinedAt int64  `json:"joinedAt"`
	}

	members := []memberView{}
	for rows.Next() {
		var m memberView
		if err := rows.Scan(&m.ID, &m.Username, &m.Nickname, &m.Avatar, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		if m.Nickname == "" {
			m.Nickname = m.Username
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return map[string]any{"members": members}, nil
}
