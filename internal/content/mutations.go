package content

import (
	"encoding/json"
	"fmt"
	"time"

	"circle-backend/internal/apperror"

	"github.com/google/uuid"
)

// Author identifies the acting user inside documents. Documents store
// usernames, not row IDs, mirroring what clients render.
type Author struct {
	ID   string
	Name string
}

// AddSubItem inserts a new channel or thread into a chat/forum document and
// returns its ID.
func (s *Store) AddSubItem(featureID string, name string, itemType string) (string, error) {
	var doc ChatDocument
	if err := s.load(featureID, &doc); err != nil {
		return "", err
	}

	if doc.SubItems == nil {
		doc.SubItems = map[string]*SubItem{}
	}

	subItemID := fmt.Sprintf("%s_%s", itemType, uuid.NewString())
	doc.SubItems[subItemID] = &SubItem{
		ID:       subItemID,
		Name:     name,
		Type:     itemType,
		Messages: []Message{},
		Posts:    []Message{},
	}

	return subItemID, s.Set(featureID, &doc)
}

// AddBoard inserts a new whiteboard and returns its ID.
func (s *Store) AddBoard(featureID string, name string, createdBy string) (string, error) {
	var doc WhiteboardDocument
	if err := s.load(featureID, &doc); err != nil {
		return "", err
	}

	if doc.Boards == nil {
		doc.Boards = map[string]*Board{}
	}

	boardID := fmt.Sprintf("board_%s", uuid.NewString())
	doc.Boards[boardID] = &Board{
		ID:        boardID,
		Name:      name,
		Elements:  map[string]json.RawMessage{},
		CreatedBy: createdBy,
		CreatedAt: time.Now().Unix(),
	}

	return boardID, s.Set(featureID, &doc)
}

// SaveBoard replaces the elements of one board and stamps its update time.
func (s *Store) SaveBoard(featureID string, boardID string, elements json.RawMessage) error {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(elements, &parsed); err != nil {
		return apperror.New(apperror.InvalidArgument, "Invalid elements data")
	}

	var doc WhiteboardDocument
	if err := s.load(featureID, &doc); err != nil {
		return err
	}

	board, ok := doc.Boards[boardID]
	if !ok {
		return apperror.New(apperror.NotFound, "Board not found")
	}

	board.Elements = parsed
	board.UpdatedAt = time.Now().Unix()

	return s.Set(featureID, &doc)
}

// PostMessage appends a message to a channel (or a post to a thread) and
// returns the appended record.
func (s *Store) PostMessage(featureID string, subItemID string, author Author, text string) (Message, error) {
	var doc ChatDocument
	if err := s.load(featureID, &doc); err != nil {
		return Message{}, err
	}

	subItem, ok := doc.SubItems[subItemID]
	if !ok {
		return Message{}, apperror.New(apperror.NotFound, "Sub item not found")
	}

	message := Message{
		ID:         uuid.NewString(),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Content:    text,
		Timestamp:  time.Now().Unix(),
	}

	if subItem.Type == "channel" {
		subItem.Messages = append(subItem.Messages, message)
	} else {
		subItem.Posts = append(subItem.Posts, message)
	}

	return message, s.Set(featureID, &doc)
}

// CreateSurvey inserts a survey with an empty response bucket and returns its ID.
func (s *Store) CreateSurvey(featureID string, title string, questions json.RawMessage, createdBy string) (string, error) {
	if !json.Valid(questions) {
		return "", apperror.New(apperror.InvalidArgument, "Invalid questions format")
	}

	var doc SurveyDocument
	if err := s.load(featureID, &doc); err != nil {
		return "", err
	}

	if doc.Surveys == nil {
		doc.Surveys = map[string]*Survey{}
	}
	if doc.Responses == nil {
		doc.Responses = map[string]map[string]SurveyResponse{}
	}

	surveyID := fmt.Sprintf("survey_%s", uuid.NewString())
	doc.Surveys[surveyID] = &Survey{
		ID:        surveyID,
		Title:     title,
		Questions: questions,
		CreatedBy: createdBy,
		CreatedAt: time.Now().Unix(),
		Status:    "active",
	}
	doc.Responses[surveyID] = map[string]SurveyResponse{}

	return surveyID, s.Set(featureID, &doc)
}

// SubmitSurveyResponse upserts one user's response to a survey. Resubmitting
// overwrites the previous entry.
func (s *Store) SubmitSurveyResponse(featureID string, surveyID string, username string, responses json.RawMessage) error {
	if !json.Valid(responses) {
		return apperror.New(apperror.InvalidArgument, "Invalid responses format")
	}

	var doc SurveyDocument
	if err := s.load(featureID, &doc); err != nil {
		return err
	}

	if doc.Responses == nil {
		doc.Responses = map[string]map[string]SurveyResponse{}
	}
	if doc.Responses[surveyID] == nil {
		doc.Responses[surveyID] = map[string]SurveyResponse{}
	}

	doc.Responses[surveyID][username] = SurveyResponse{
		Responses:   responses,
		User:        username,
		SubmittedAt: time.Now().Unix(),
	}

	return s.Set(featureID, &doc)
}

// CreateProject inserts a project with status "active" and returns its ID.
func (s *Store) CreateProject(featureID string, name string, description string, createdBy string) (string, error) {
	var doc ProjectsDocument
	if err := s.load(featureID, &doc); err != nil {
		return "", err
	}

	if doc.Projects == nil {
		doc.Projects = map[string]*Project{}
	}

	projectID := fmt.Sprintf("project_%s", uuid.NewString())
	doc.Projects[projectID] = &Project{
		ID:          projectID,
		Name:        name,
		Description: description,
		Status:      "active",
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().Unix(),
	}

	return projectID, s.Set(featureID, &doc)
}

// CreateTask inserts a task with status "todo" and returns its ID. The
// referenced project is not checked for existence.
func (s *Store) CreateTask(featureID string, projectID string, title string, description string, priority string, createdBy string) (string, error) {
	if priority == "" {
		priority = "medium"
	}

	var doc ProjectsDocument
	if err := s.load(featureID, &doc); err != nil {
		return "", err
	}

	if doc.Tasks == nil {
		doc.Tasks = map[string]*Task{}
	}

	taskID := fmt.Sprintf("task_%s", uuid.NewString())
	doc.Tasks[taskID] = &Task{
		ID:          taskID,
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      "todo",
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().Unix(),
	}

	return taskID, s.Set(featureID, &doc)
}

// UpdateTaskStatus sets a task's status and update time.
func (s *Store) UpdateTaskStatus(featureID string, taskID string, status string) error {
	var doc ProjectsDocument
	if err := s.load(featureID, &doc); err != nil {
		return err
	}

	task, ok := doc.Tasks[taskID]
	if !ok {
		return apperror.New(apperror.NotFound, "Task not found")
	}

	task.Status = status
	task.UpdatedAt = time.Now().Unix()

	return s.Set(featureID, &doc)
}
