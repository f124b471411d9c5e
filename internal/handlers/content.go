package handlers

import (
	"encoding/json"
	"net/http"

	"circle-backend/internal/apperror"
	"circle-backend/internal/content"
	"circle-backend/internal/state"
)

// The mutating content actions all follow the original client contract:
// mutate the feature document, then hand back the full state snapshot.

func handleAddSubItem(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	name := r.FormValue("name")

	if featureID == "" || name == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID and name are required")
	}

	itemType := r.FormValue("type")
	if itemType == "" {
		itemType = "channel"
	}

	if _, err := contentStore.AddSubItem(featureID, name, itemType); err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handleAddWhiteboard(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	name := r.FormValue("name")

	if featureID == "" || name == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID and name are required")
	}

	if _, err := contentStore.AddBoard(featureID, name, user.Username); err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handleSaveWhiteboard(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	boardID := r.FormValue("boardId")
	elements := r.FormValue("elements")

	if featureID == "" || boardID == "" || elements == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID, board ID, and elements are required")
	}

	if err := contentStore.SaveBoard(featureID, boardID, json.RawMessage(elements)); err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handlePostMessage(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	subItemID := r.FormValue("subItemId")
	text := r.FormValue("content")

	if featureID == "" || subItemID == "" || text == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID, sub item ID, and content are required")
	}

	author := content.Author{ID: user.Username, Name: user.Nickname}
	if _, err := contentStore.PostMessage(featureID, subItemID, author, text); err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handleCreateSurvey(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	title := r.FormValue("title")
	questions := r.FormValue("questions")

	if featureID == "" || title == "" || questions == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID, title, and questions are required")
	}

	if _, err := contentStore.CreateSurvey(featureID, title, json.RawMessage(questions), user.Username); err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handleSubmitSurveyResponse(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	surveyID := r.FormValue("surveyId")
	responses := r.FormValue("responses")

	if featureID == "" || surveyID == "" || responses == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID, survey ID, and responses are required")
	}

	if err := contentStore.SubmitSurveyResponse(featureID, surveyID, user.Username, json.RawMessage(responses)); err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handleCreateProject(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	name := r.FormValue("name")

	if featureID == "" || name == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID and name are required")
	}

	if _, err := contentStore.CreateProject(featureID, name, r.FormValue("description"), user.Username); err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handleCreateTask(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	projectID := r.FormValue("projectId")
	title := r.FormValue("title")

	if featureID == "" || projectID == "" || title == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID, project ID, and title are required")
	}

	_, err := contentStore.CreateTask(featureID, projectID, title, r.FormValue("description"), r.FormValue("priority"), user.Username)
	if err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handleUpdateTaskStatus(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	taskID := r.FormValue("taskId")
	status := r.FormValue("status")

	if featureID == "" || taskID == "" || status == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID, task ID, and status are required")
	}

	if err := contentStore.UpdateTaskStatus(featureID, taskID, status); err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handleUpdateFeatureContent(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	contentData := r.FormValue("content")

	if featureID == "" || contentData == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID and content are required")
	}

	if err := contentStore.Replace(featureID, json.RawMessage(contentData)); err != nil {
		return nil, err
	}

	return aggregator.Snapshot(user.ID)
}

func handleGetFeatureContent(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error) {
	featureID := r.FormValue("featureId")
	if featureID == "" {
		return nil, apperror.New(apperror.InvalidArgument, "Feature ID is required")
	}

	raw, err := contentStore.Get(featureID)
	if apperror.IsKind(err, apperror.NotFound) {
		// historical behavior: missing documents read as empty, not as an error
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}

	return raw, nil
}
