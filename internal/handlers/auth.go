package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"circle-backend/internal/apperror"
	"circle-backend/internal/models"
	"circle-backend/internal/session"
	"circle-backend/internal/snowflake"
	"circle-backend/internal/state"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

func handleLogin(_ *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Username is required")
	}
	if password == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Password is required")
	}

	var userID int64
	var passwordHash []byte
	err := db.QueryRow("SELECT id, password FROM users WHERE username = ?", username).Scan(&userID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.NotFound, "Username not found")
	}
	if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword(passwordHash, []byte(password))
	if err != nil {
		return nil, apperror.New(apperror.Unauthorized, "Wrong password")
	}

	_, err = db.Exec("UPDATE users SET last_login = ? WHERE id = ?", time.Now().Unix(), userID)
	if err != nil {
		return nil, err
	}

	token, err := sessions.Create(userID)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, sessionCookie(token))

	snapshot, err := aggregator.Snapshot(userID)
	if err != nil {
		return nil, err
	}

	return map[string]any{"loggedIn": true, "state": snapshot}, nil
}

func handleRegister(_ *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	type registration struct {
		Username string `validate:"required,min=3,max=32"`
		Password string `validate:"required,min=6,max=72"`
	}

	reg := registration{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	if err := validate.Struct(reg); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			return nil, apperror.New(apperror.InvalidArgument, registrationErrorMessage(validateErrs))
		}
		return nil, err
	}

	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", reg.Username).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.New(apperror.Conflict, "Username already exists")
	}

	userID, err := snowflake.Generate()
	if err != nil {
		return nil, err
	}

	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(reg.Password), 12)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	user := models.User{
		ID:        userID,
		Username:  reg.Username,
		Password:  passwordBytes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = db.Exec(
		"INSERT INTO users (id, username, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Password, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{"message": "User registered successfully"}, nil
}

func registrationErrorMessage(errs validator.ValidationErrors) string {
	for _, e := range errs {
		switch {
		case e.Field() == "Username" && e.Tag() == "required":
			return "Username and password required"
		case e.Field() == "Username":
			return "Username must be at least 3 characters"
		case e.Field() == "Password" && e.Tag() == "required":
			return "Username and password required"
		case e.Field() == "Password":
			return "Password must be at least 6 characters"
		}
	}
	return "Invalid registration"
}

func handleLogout(_ *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	cookie, err := r.Cookie(session.CookieName)
	if err == nil {
		if err := sessions.Invalidate(cookie.Value); err != nil {
			return nil, err
		}
	}

	expired := sessionCookie("")
	expired.Expires = time.Unix(0, 0)
	http.SetCookie(w, expired)

	return map[string]any{"message": "Logged out successfully"}, nil
}

func handleCheckSession(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	if user == nil {
		return map[string]any{"loggedIn": false}, nil
	}

	snapshot, err := aggregator.Snapshot(user.ID)
	if err != nil {
		return nil, err
	}

	return map[string]any{"loggedIn": true, "state": snapshot}, nil
}
