package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"circle-backend/internal/apperror"
	"circle-backend/internal/models"
	"circle-backend/internal/snowflake"
	"circle-backend/internal/state"

	"golang.org/x/crypto/bcrypt"
)

// Password recovery is a three-party workflow: the subject user names a
// recovery partner, the partner approves, then anyone holding the approved
// token can set a new password. pending -> approved -> completed, no step is
// retried or compensated.

func handleRequestPasswordRecovery(_ *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	username := r.FormValue("username")
	partnerUsername := r.FormValue("partnerUsername")

	if username == "" || partnerUsername == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Username and partner username are required")
	}

	userID, err := userIDByName(username)
	if err != nil {
		return nil, err
	}
	partnerID, err := userIDByName(partnerUsername)
	if err != nil {
		return nil, err
	}

	var pendingExists bool
	err = db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM password_recovery WHERE user_id = ? AND recovery_partner_id = ? AND status = ?)",
		userID, partnerID, models.RecoveryPending,
	).Scan(&pendingExists)
	if err != nil {
		return nil, err
	}
	if pendingExists {
		return nil, apperror.New(apperror.Conflict, "A password recovery request already exists")
	}

	recoveryToken, err := randomToken(32)
	if err != nil {
		return nil, err
	}

	recoveryID, err := snowflake.Generate()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	recovery := models.PasswordRecovery{
		ID:                recoveryID,
		UserID:            userID,
		RecoveryPartnerID: partnerID,
		InitiatedBy:       userID,
		RecoveryToken:     recoveryToken,
		ExpiresAt:         now.Add(24 * time.Hour).Unix(),
		CreatedAt:         now.Unix(),
	}

	_, err = db.Exec(
		"INSERT INTO password_recovery (id, user_id, recovery_partner_id, initiated_by, recovery_token, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		recovery.ID, recovery.UserID, recovery.RecoveryPartnerID, recovery.InitiatedBy,
		recovery.RecoveryToken, recovery.ExpiresAt, recovery.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"message":       "Password recovery request sent",
		"recoveryToken": recovery.RecoveryToken,
	}, nil
}

func handleApprovePasswordRecovery(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	recoveryToken := r.FormValue("recoveryToken")
	if recoveryToken == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Recovery token is required")
	}

	var recoveryID int64
	err := db.QueryRow(
		"SELECT id FROM password_recovery WHERE recovery_token = ? AND recovery_partner_id = ? AND status = ?",
		recoveryToken, user.ID, models.RecoveryPending,
	).Scan(&recoveryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.NotFound, "Invalid recovery token")
	}
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(
		"UPDATE password_recovery SET status = ?, approved_at = ? WHERE id = ?",
		models.RecoveryApproved, time.Now().Unix(), recoveryID,
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{"message": "Password recovery approved"}, nil
}

func handleResetPassword(_ *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	recoveryToken := r.FormValue("recoveryToken")
	newPassword := r.FormValue("newPassword")

	if recoveryToken == "" || newPassword == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Recovery token and new password are required")
	}

	if err := validate.Var(newPassword, "min=6,max=72"); err != nil {
		return nil, apperror.New(apperror.InvalidArgument, "Password must be at least 6 characters")
	}

	var recoveryID, userID int64
	err := db.QueryRow(
		"SELECT id, user_id FROM password_recovery WHERE recovery_token = ? AND status = ? AND expires_at > ?",
		recoveryToken, models.RecoveryApproved, time.Now().Unix(),
	).Scan(&recoveryID, &userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.NotFound, "Invalid or expired recovery token")
	}
	if err != nil {
		return nil, err
	}

	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("UPDATE users SET password = ?, updated_at = ? WHERE id = ?", passwordBytes, time.Now().Unix(), userID)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(
		"UPDATE password_recovery SET status = ?, completed_at = ? WHERE id = ?",
		models.RecoveryCompleted, time.Now().Unix(), recoveryID,
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{"message": "Password has been reset"}, nil
}

func userIDByName(username string) (int64, error) {
	var id int64
	err := db.QueryRow("SELECT id FROM users WHERE username = ?", username).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperror.New(apperror.NotFound, "User not found")
	}
	return id, err
}
