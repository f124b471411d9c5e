package content

import "encoding/json"

// Each feature type owns one document shape. The shapes below are the closed
// set the mutation layer understands; the storage layer only ever sees the
// marshalled JSON blob.

type Message struct {
	ID         string `json:"id"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
}

// SubItem is a chat channel or a forum thread. Channels collect messages,
// threads collect posts.
type SubItem struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Messages []Message `json:"messages"`
	Posts    []Message `json:"posts"`
}

type ChatDocument struct {
	SubItems map[string]*SubItem `json:"subItems"`
}

type Board struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Elements  map[string]json.RawMessage `json:"elements"`
	CreatedBy string                     `json:"created_by,omitempty"`
	CreatedAt int64                      `json:"created_at,omitempty"`
	UpdatedAt int64                      `json:"updated_at,omitempty"`
}

type WhiteboardDocument struct {
	Boards map[string]*Board `json:"boards"`
}

type WikiPage struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Author    string   `json:"author"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
	Tags      []string `json:"tags"`
}

type WikiDocument struct {
	Pages map[string]WikiPage `json:"pages"`
}

type CalendarDocument struct {
	Events map[string]json.RawMessage `json:"events"`
}

type BudgetDocument struct {
	Accounts     map[string]json.RawMessage `json:"accounts"`
	Transactions map[string]json.RawMessage `json:"transactions"`
}

type InventoryDocument struct {
	Items      map[string]json.RawMessage `json:"items"`
	Categories []string                   `json:"categories"`
	Locations  []string                   `json:"locations"`
}

type RoleDefinition struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type MembersDocument struct {
	Members map[string]json.RawMessage `json:"members"`
	Roles   map[string]RoleDefinition  `json:"roles"`
}

type AlbumDocument struct {
	Albums map[string]json.RawMessage `json:"albums"`
}

type DiaryDocument struct {
	Entries map[string]json.RawMessage `json:"entries"`
}

type Survey struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Questions json.RawMessage `json:"questions"`
	CreatedBy string          `json:"created_by"`
	CreatedAt int64           `json:"created_at"`
	Status    string          `json:"status"`
}

type SurveyResponse struct {
	Responses   json.RawMessage `json:"responses"`
	User        string          `json:"user"`
	SubmittedAt int64           `json:"submitted_at"`
}

type SurveyDocument struct {
	Surveys map[string]*Survey `json:"surveys"`
	// Responses is keyed by survey ID, then by username: one response per
	// user per survey, resubmission overwrites.
	Responses map[string]map[string]SurveyResponse `json:"responses"`
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   int64  `json:"created_at"`
}

type Task struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at,omitempty"`
}

type ProjectsDocument struct {
	Projects map[string]*Project `json:"projects"`
	Tasks    map[string]*Task    `json:"tasks"`
}
