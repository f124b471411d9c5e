package content

import (
	"encoding/json"
	"time"
)

const (
	TypeChat       = "chat"
	TypeForum      = "forum"
	TypeWhiteboard = "whiteboard"
	TypeStorage    = "storage"
	TypeSurvey     = "survey"
	TypeProjects   = "projects"
	TypeWiki       = "wiki"
	TypeCalendar   = "calendar"
	TypeBudget     = "budget"
	TypeInventory  = "inventory"
	TypeMembers    = "members"
	TypeAlbum      = "album"
	TypeDiary      = "diary"
)

type CatalogEntry struct {
	Name string
	Type string
	Icon string
}

// DefaultFeatures is the fixed feature set every server gets at creation, in
// display order. Features are never added or removed individually afterwards.
var DefaultFeatures = []CatalogEntry{
	{Name: "Chat", Type: TypeChat, Icon: "message-circle"},
	{Name: "Forum", Type: TypeForum, Icon: "message-square"},
	{Name: "Whiteboard", Type: TypeWhiteboard, Icon: "edit-3"},
	{Name: "File Storage", Type: TypeStorage, Icon: "folder"},
	{Name: "Surveys", Type: TypeSurvey, Icon: "clipboard-list"},
	{Name: "Projects", Type: TypeProjects, Icon: "git-branch"},
	{Name: "Wiki", Type: TypeWiki, Icon: "book"},
	{Name: "Calendar", Type: TypeCalendar, Icon: "calendar"},
	{Name: "Budget", Type: TypeBudget, Icon: "dollar-sign"},
	{Name: "Inventory", Type: TypeInventory, Icon: "package"},
	{Name: "Members", Type: TypeMembers, Icon: "users"},
	{Name: "Album", Type: TypeAlbum, Icon: "image"},
	{Name: "Diary", Type: TypeDiary, Icon: "edit"},
}

// initialDocuments is the single registration point for per-type initial
// shapes. Unregistered types get an empty object.
var initialDocuments = map[string]func() any{
	TypeChat: func() any {
		return &ChatDocument{
			SubItems: map[string]*SubItem{
				"general": {
					ID:       "general",
					Name:     "General",
					Type:     "channel",
					Messages: []Message{},
					Posts:    []Message{},
				},
			},
		}
	},
	TypeForum: func() any {
		return &ChatDocument{
			SubItems: map[string]*SubItem{
				"announcements": {
					ID:       "announcements",
					Name:     "Announcements",
					Type:     "thread",
					Messages: []Message{},
					Posts:    []Message{},
				},
			},
		}
	},
	TypeWhiteboard: func() any {
		return &WhiteboardDocument{
			Boards: map[string]*Board{
				"main": {
					ID:       "main",
					Name:     "Main Board",
					Elements: map[string]json.RawMessage{},
				},
			},
		}
	},
	TypeWiki: func() any {
		now := time.Now().Unix()
		return &WikiDocument{
			Pages: map[string]WikiPage{
				"welcome": {
					ID:        "welcome",
					Title:     "Welcome",
					Content:   "Welcome to the wiki!\n\nFeel free to edit this page.",
					Author:    "system",
					CreatedAt: now,
					UpdatedAt: now,
					Tags:      []string{"welcome"},
				},
			},
		}
	},
	TypeCalendar: func() any {
		return &CalendarDocument{Events: map[string]json.RawMessage{}}
	},
	TypeBudget: func() any {
		return &BudgetDocument{
			Accounts:     map[string]json.RawMessage{},
			Transactions: map[string]json.RawMessage{},
		}
	},
	TypeInventory: func() any {
		return &InventoryDocument{
			Items:      map[string]json.RawMessage{},
			Categories: []string{"Equipment", "Supplies", "Books", "Electronics"},
			Locations:  []string{"Main Office", "Storage Room", "Lab"},
		}
	},
	TypeMembers: func() any {
		return &MembersDocument{
			Members: map[string]json.RawMessage{},
			Roles: map[string]RoleDefinition{
				"admin":     {Name: "Administrator", Permissions: []string{"all"}},
				"moderator": {Name: "Moderator", Permissions: []string{"moderate"}},
				"member":    {Name: "Member", Permissions: []string{"basic"}},
			},
		}
	},
	TypeAlbum: func() any {
		return &AlbumDocument{Albums: map[string]json.RawMessage{}}
	},
	TypeDiary: func() any {
		return &DiaryDocument{Entries: map[string]json.RawMessage{}}
	},
	TypeSurvey: func() any {
		return &SurveyDocument{
			Surveys:   map[string]*Survey{},
			Responses: map[string]map[string]SurveyResponse{},
		}
	},
	TypeProjects: func() any {
		return &ProjectsDocument{
			Projects: map[string]*Project{},
			Tasks:    map[string]*Task{},
		}
	},
}

// InitialDocument returns the initial document for a feature type.
func InitialDocument(featureType string) any {
	factory, ok := initialDocuments[featureType]
	if !ok {
		return map[string]any{}
	}
	return factory()
}
