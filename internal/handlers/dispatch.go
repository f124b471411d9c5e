package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"circle-backend/internal/apperror"
	"circle-backend/internal/response"
	"circle-backend/internal/session"
	"circle-backend/internal/state"
)

// actionFunc handles one dispatched action. user is nil for anonymous
// callers of actions that allow them.
type actionFunc func(user *state.CurrentUser, w http.ResponseWriter, r *http.Request) (any, error)

type action struct {
	fn        actionFunc
	anonymous bool
}

var actions = map[string]action{
	"login":        {fn: handleLogin, anonymous: true},
	"register":     {fn: handleRegister, anonymous: true},
	"logout":       {fn: handleLogout, anonymous: true},
	"checkSession": {fn: handleCheckSession, anonymous: true},

	"addServer":        {fn: handleAddServer},
	"createInvite":     {fn: handleCreateInvite},
	"acceptInvite":     {fn: handleAcceptInvite},
	"updateMemberRole": {fn: handleUpdateMemberRole},
	"kickMember":       {fn: handleKickMember},
	"getServerMembers": {fn: handleGetServerMembers},

	"addSubItem":           {fn: handleAddSubItem},
	"addWhiteboard":        {fn: handleAddWhiteboard},
	"saveWhiteboard":       {fn: handleSaveWhiteboard},
	"postMessage":          {fn: handlePostMessage},
	"createSurvey":         {fn: handleCreateSurvey},
	"submitSurveyResponse": {fn: handleSubmitSurveyResponse},
	"createProject":        {fn: handleCreateProject},
	"createTask":           {fn: handleCreateTask},
	"updateTaskStatus":     {fn: handleUpdateTaskStatus},
	"updateFeatureContent": {fn: handleUpdateFeatureContent},
	"getFeatureContent":    {fn: handleGetFeatureContent},

	"updateProfile":       {fn: handleUpdateProfile},
	"uploadFile":          {fn: handleUploadFile},
	"saveWhiteboardImage": {fn: handleSaveWhiteboardImage},

	"requestPasswordRecovery": {fn: handleRequestPasswordRecovery, anonymous: true},
	"approvePasswordRecovery": {fn: handleApprovePasswordRecovery},
	"resetPassword":           {fn: handleResetPassword, anonymous: true},
}

// Dispatch maps the action parameter to its handler. Handler failures of any
// kind are surfaced uniformly as {success:false, error} with HTTP 200.
func Dispatch(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("action")

	act, ok := actions[name]
	if !ok {
		writeFailure(w, fmt.Sprintf("unknown action: %s", name))
		return
	}

	user, err := sessionUser(r)
	if err != nil {
		sugar.Error(err)
		writeFailure(w, "Internal error")
		return
	}

	if user == nil && !act.anonymous {
		writeFailure(w, "Not authenticated")
		return
	}

	data, err := act.fn(user, w, r)
	if err != nil {
		if apperror.KindOf(err) == apperror.Internal {
			sugar.Errorf("action %s: %v", name, err)
		} else {
			sugar.Debugf("action %s: %v", name, err)
		}
		writeFailure(w, err.Error())
		return
	}

	if err := response.WriteSuccess(w, data); err != nil {
		sugar.Error(err)
	}
}

func writeFailure(w http.ResponseWriter, message string) {
	if err := response.WriteFailure(w, message); err != nil {
		sugar.Error(err)
	}
}

// sessionUser resolves the session cookie to the current user, nil when the
// caller is anonymous or the session is unknown or expired.
func sessionUser(r *http.Request) (*state.CurrentUser, error) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	userID, found, err := sessions.Lookup(cookie.Value)
	if err != nil || !found {
		return nil, err
	}

	return aggregator.CurrentUser(userID)
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isHttps,
		SameSite: http.SameSiteLaxMode,
	}
}

// randomToken returns a URL-safe random string, numBytes of entropy.
func randomToken(numBytes int) (string, error) {
	b := make([]byte, numBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
