package database

import (
	"circle-backend/internal/models"
	"database/sql"
	"fmt"
	"path/filepath"
)

func setPragmaValues(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	// these next 2 extremely speed up performance of sqlite
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return err
	}

	if _, err := db.Exec("PRAGMA synchronous = normal"); err != nil {
		return err
	}

	return nil
}

func Setup(cfg *models.ConfigFile) (*sql.DB, error) {
	var db *sql.DB
	var err error

	if cfg.SelfContained {
		fmt.Println("Connecting to database sqlite...")

		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir = "data"
		}

		db, err = sql.Open("sqlite", filepath.Join(dataDir, "circle_platform.db"))
		if err != nil {
			return db, err
		}

		// there can be sqlite busy errors if this is not set to 1
		db.SetMaxOpenConns(1)

		err = setPragmaValues(db)
		if err != nil {
			return db, err
		}
	} else {
		fmt.Println("Connecting to database mysql/mariadb...")

		db, err = sql.Open("mysql", fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&timeout=10s", cfg.DbUser, cfg.DbPassword, cfg.DbAddress, cfg.DbPort, cfg.DbDatabase))
		if err != nil {
			return db, err
		}

		db.SetMaxOpenConns(10)
	}

	err = CreateTables(db)
	if err != nil {
		return db, err
	}

	return db, nil
}

// CreateTables creates the schema if it doesn't exist yet. Timestamps the
// application compares (expiry, joined_at) are unix seconds written by Go,
// never database-side CURRENT_TIMESTAMP, so both backends behave the same.
func CreateTables(db *sql.DB) error {
	var err error

	_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS users (
				id BIGINT PRIMARY KEY,
				username VARCHAR(32) NOT NULL UNIQUE,
				password BINARY(60) NOT NULL,
				nickname VARCHAR(64) NOT NULL DEFAULT '',
				email VARCHAR(64) NOT NULL DEFAULT '',
				admission_year BIGINT NOT NULL DEFAULT 0,
				graduation_year BIGINT NOT NULL DEFAULT 0,
				major VARCHAR(64) NOT NULL DEFAULT '',
				student_id VARCHAR(32) NOT NULL DEFAULT '',
				bio VARCHAR(1024) NOT NULL DEFAULT '',
				avatar VARCHAR(255) NOT NULL DEFAULT '',
				ui_scale VARCHAR(16) NOT NULL DEFAULT 'medium',
				theme VARCHAR(16) NOT NULL DEFAULT 'dark',
				language VARCHAR(8) NOT NULL DEFAULT 'en',
				timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
				last_login BIGINT NOT NULL DEFAULT 0,
				created_at BIGINT NOT NULL,
				updated_at BIGINT NOT NULL
			);
		`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS servers (
				id VARCHAR(64) PRIMARY KEY,
				name VARCHAR(64) NOT NULL,
				description VARCHAR(1024) NOT NULL DEFAULT '',
				icon VARCHAR(64) NOT NULL,
				banner VARCHAR(255) NOT NULL DEFAULT '',
				owner_id BIGINT NOT NULL,
				is_public BOOLEAN NOT NULL DEFAULT FALSE,
				invite_code VARCHAR(32) NOT NULL UNIQUE,
				max_members BIGINT NOT NULL DEFAULT 100,
				settings VARCHAR(4096) NOT NULL DEFAULT '{}',
				created_at BIGINT NOT NULL,
				updated_at BIGINT NOT NULL,
				FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
			);
		`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS server_members (
				server_id VARCHAR(64) NOT NULL,
				user_id BIGINT NOT NULL,
				role VARCHAR(16) NOT NULL DEFAULT 'member',
				joined_at BIGINT NOT NULL,
				invited_by BIGINT,
				PRIMARY KEY (server_id, user_id),
				FOREIGN KEY (server_id) REFERENCES servers(id) ON DELETE CASCADE,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);
		`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS server_invites (
				id VARCHAR(36) PRIMARY KEY,
				server_id VARCHAR(64) NOT NULL,
				inviter_id BIGINT NOT NULL,
				invite_code VARCHAR(32) NOT NULL UNIQUE,
				expires_at BIGINT NOT NULL,
				used_at BIGINT,
				used_by BIGINT,
				max_uses BIGINT NOT NULL DEFAULT 1,
				current_uses BIGINT NOT NULL DEFAULT 0,
				created_at BIGINT NOT NULL,
				FOREIGN KEY (server_id) REFERENCES servers(id) ON DELETE CASCADE,
				FOREIGN KEY (inviter_id) REFERENCES users(id) ON DELETE CASCADE
			);
		`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS password_recovery (
				id BIGINT PRIMARY KEY,
				user_id BIGINT NOT NULL,
				recovery_partner_id BIGINT NOT NULL,
				status VARCHAR(16) NOT NULL DEFAULT 'pending',
				initiated_by BIGINT NOT NULL,
				recovery_token VARCHAR(64) NOT NULL UNIQUE,
				expires_at BIGINT NOT NULL,
				approved_at BIGINT,
				completed_at BIGINT,
				created_at BIGINT NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
				FOREIGN KEY (recovery_partner_id) REFERENCES users(id) ON DELETE CASCADE
			);
		`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS files (
				id VARCHAR(36) PRIMARY KEY,
				filename VARCHAR(128) NOT NULL,
				original_filename VARCHAR(255) NOT NULL,
				file_path VARCHAR(255) NOT NULL,
				file_size BIGINT NOT NULL,
				mime_type VARCHAR(128) NOT NULL,
				upload_by BIGINT NOT NULL,
				server_id VARCHAR(64),
				feature_id VARCHAR(128),
				is_public BOOLEAN NOT NULL DEFAULT FALSE,
				download_count BIGINT NOT NULL DEFAULT 0,
				created_at BIGINT NOT NULL,
				FOREIGN KEY (upload_by) REFERENCES users(id) ON DELETE CASCADE
			);
		`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS features (
				id VARCHAR(128) PRIMARY KEY,
				server_id VARCHAR(64) NOT NULL,
				name VARCHAR(64) NOT NULL,
				type VARCHAR(32) NOT NULL,
				icon VARCHAR(64) NOT NULL,
				position BIGINT NOT NULL DEFAULT 0,
				created_at BIGINT NOT NULL,
				FOREIGN KEY (server_id) REFERENCES servers(id) ON DELETE CASCADE
			);
		`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS feature_content (
				feature_id VARCHAR(128) PRIMARY KEY,
				content TEXT NOT NULL,
				updated_at BIGINT NOT NULL,
				FOREIGN KEY (feature_id) REFERENCES features(id) ON DELETE CASCADE
			);
		`)
	if err != nil {
		return err
	}

	return nil
}
