package models

import "database/sql"

type User struct {
	ID             int64  `json:"id,string"`
	Username       string `json:"username"`
	Password       []byte `json:"-"`
	Nickname       string `json:"nickname"`
	Email          string `json:"email,omitempty"`
	AdmissionYear  int64  `json:"admission_year,omitempty"`
	GraduationYear int64  `json:"graduation_year,omitempty"`
	Major          string `json:"major,omitempty"`
	StudentID      string `json:"student_id,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Avatar         string `json:"avatar,omitempty"`
	UIScale        string `json:"ui_scale"`
	Theme          string `json:"theme"`
	Language       string `json:"language"`
	Timezone       string `json:"timezone"`
	LastLogin      int64  `json:"last_login,omitempty"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}

type Server struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Banner      string `json:"banner"`
	OwnerID     int64  `json:"owner_id"`
	IsPublic    bool   `json:"is_public"`
	InviteCode  string `json:"invite_code"`
	MaxMembers  int64  `json:"max_members"`
	Settings    string `json:"settings"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// Membership roles, closed set. Owner is assigned once at server creation
// and can never be granted or removed through membership operations.
const (
	RoleOwner     = "owner"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
)

type Membership struct {
	ServerID  string        `json:"server_id"`
	UserID    int64         `json:"user_id,string"`
	Role      string        `json:"role"`
	JoinedAt  int64         `json:"joined_at"`
	InvitedBy sql.NullInt64 `json:"-"`
}

type Invite struct {
	ID          string        `json:"id"`
	ServerID    string        `json:"server_id"`
	InviterID   int64         `json:"inviter_id,string"`
	InviteCode  string        `json:"invite_code"`
	ExpiresAt   int64         `json:"expires_at"`
	UsedAt      sql.NullInt64 `json:"-"`
	UsedBy      sql.NullInt64 `json:"-"`
	MaxUses     int64         `json:"max_uses"`
	CurrentUses int64         `json:"current_uses"`
	CreatedAt   int64         `json:"created_at"`
}

type Feature struct {
	ID        string `json:"id"`
	ServerID  string `json:"server_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Icon      string `json:"icon"`
	Position  int64  `json:"position"`
	CreatedAt int64  `json:"created_at"`
}

type FileRecord struct {
	ID               string         `json:"id"`
	Filename         string         `json:"filename"`
	OriginalFilename string         `json:"original_filename"`
	FilePath         string         `json:"file_path"`
	FileSize         int64          `json:"file_size"`
	MimeType         string         `json:"mime_type"`
	UploadBy         int64          `json:"upload_by,string"`
	ServerID         sql.NullString `json:"-"`
	FeatureID        sql.NullString `json:"-"`
	IsPublic         bool           `json:"is_public"`
	DownloadCount    int64          `json:"download_count"`
	CreatedAt        int64          `json:"created_at"`
}

// Password recovery states, pending -> approved -> completed.
const (
	RecoveryPending   = "pending"
	RecoveryApproved  = "approved"
	RecoveryCompleted = "completed"
)

type PasswordRecovery struct {
	ID                int64         `json:"id,string"`
	UserID            int64         `json:"user_id,string"`
	RecoveryPartnerID int64         `json:"recovery_partner_id,string"`
	Status            string        `json:"status"`
	InitiatedBy       int64         `json:"initiated_by,string"`
	RecoveryToken     string        `json:"recovery_token"`
	ExpiresAt         int64         `json:"expires_at"`
	ApprovedAt        sql.NullInt64 `json:"-"`
	CompletedAt       sql.NullInt64 `json:"-"`
	CreatedAt         int64         `json:"created_at"`
}

type ConfigFile struct {
	Address           string
	Port              string
	TlsCert           string
	TlsKey            string
	Cors              bool
	PrintHttpRequests bool
	LogToFile         bool
	LogLevel          string
	SnowflakeWorkerID int64
	SelfContained     bool
	DbUser            string
	DbPassword        string
	DbAddress         string
	DbPort            string
	DbDatabase        string
	RedisAddress      string
	DataDir           string
	FilesDir          string
}
