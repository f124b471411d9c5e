package handlers

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"circle-backend/internal/content"
	"circle-backend/internal/database"
	"circle-backend/internal/files"
	"circle-backend/internal/keyValue"
	"circle-backend/internal/models"
	"circle-backend/internal/session"
	"circle-backend/internal/snowflake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type testEnv struct {
	ts *httptest.Server
	db *sql.DB
}

// newTestEnv stands up the full router against an in-memory sqlite database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	testDB.SetMaxOpenConns(1)
	t.Cleanup(func() { testDB.Close() })

	require.NoError(t, database.CreateTables(testDB))

	keyValue.Setup(zap.NewNop().Sugar(), nil, true)
	require.NoError(t, snowflake.Setup(0))

	storage, err := files.NewStorage(t.TempDir())
	require.NoError(t, err)

	testCfg := &models.ConfigFile{SelfContained: true}
	router := Setup(testCfg, zap.NewNop().Sugar(), testDB, session.NewStore(), storage)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, db: testDB}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func postAction(t *testing.T, env *testEnv, client *http.Client, values url.Values) envelope {
	t.Helper()

	resp, err := client.PostForm(env.ts.URL+"/api.cgi", values)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, "failures travel in the envelope, never as HTTP errors")

	var result envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func mustSucceed(t *testing.T, env *testEnv, client *http.Client, values url.Values) json.RawMessage {
	t.Helper()
	result := postAction(t, env, client, values)
	require.True(t, result.Success, "action %s failed: %s", values.Get("action"), result.Error)
	return result.Data
}

func mustFail(t *testing.T, env *testEnv, client *http.Client, values url.Values) string {
	t.Helper()
	result := postAction(t, env, client, values)
	require.False(t, result.Success, "action %s unexpectedly succeeded", values.Get("action"))
	return result.Error
}

type testSnapshot struct {
	Servers map[string]struct {
		Name       string `json:"name"`
		UserRole   string `json:"userRole"`
		InviteCode string `json:"invite_code"`
		OwnerID    int64  `json:"owner_id"`
	} `json:"servers"`
	Features map[string][]struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"features"`
	Content     map[string]json.RawMessage `json:"content"`
	CurrentUser *struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Nickname string `json:"nickname"`
	} `json:"currentUser"`
	LoggedIn bool `json:"loggedIn"`
}

func decodeSnapshot(t *testing.T, raw json.RawMessage) testSnapshot {
	t.Helper()
	var snap testSnapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	return snap
}

type loginData struct {
	LoggedIn bool            `json:"loggedIn"`
	State    json.RawMessage `json:"state"`
}

func register(t *testing.T, env *testEnv, client *http.Client, username string, password string) {
	t.Helper()
	mustSucceed(t, env, client, url.Values{
		"action": {"register"}, "username": {username}, "password": {password},
	})
}

func login(t *testing.T, env *testEnv, client *http.Client, username string, password string) testSnapshot {
	t.Helper()
	data := mustSucceed(t, env, client, url.Values{
		"action": {"login"}, "username": {username}, "password": {password},
	})

	var ld loginData
	require.NoError(t, json.Unmarshal(data, &ld))
	require.True(t, ld.LoggedIn)
	return decodeSnapshot(t, ld.State)
}

func addServer(t *testing.T, env *testEnv, client *http.Client, name string) testSnapshot {
	t.Helper()
	data := mustSucceed(t, env, client, url.Values{"action": {"addServer"}, "name": {name}})
	return decodeSnapshot(t, data)
}

func findFeature(t *testing.T, snap testSnapshot, serverID string, featureType string) string {
	t.Helper()
	for _, feature := range snap.Features[serverID] {
		if feature.Type == featureType {
			return feature.ID
		}
	}
	t.Fatalf("server %s has no %s feature", serverID, featureType)
	return ""
}

func soleServerID(t *testing.T, snap testSnapshot) string {
	t.Helper()
	require.Len(t, snap.Servers, 1)
	for id := range snap.Servers {
		return id
	}
	return ""
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	register(t, env, client, "alice", "secret123")

	assert.Equal(t, "Username already exists", mustFail(t, env, client, url.Values{
		"action": {"register"}, "username": {"alice"}, "password": {"secret123"},
	}))
	assert.Equal(t, "Password must be at least 6 characters", mustFail(t, env, client, url.Values{
		"action": {"register"}, "username": {"bob"}, "password": {"short"},
	}))

	assert.Equal(t, "Username not found", mustFail(t, env, client, url.Values{
		"action": {"login"}, "username": {"nobody"}, "password": {"secret123"},
	}))
	assert.Equal(t, "Wrong password", mustFail(t, env, client, url.Values{
		"action": {"login"}, "username": {"alice"}, "password": {"wrongwrong"},
	}))

	snap := login(t, env, client, "alice", "secret123")
	require.NotNil(t, snap.CurrentUser)
	assert.Equal(t, "alice", snap.CurrentUser.Username)
	assert.Equal(t, "alice", snap.CurrentUser.Nickname)

	data := mustSucceed(t, env, client, url.Values{"action": {"checkSession"}})
	var ld loginData
	require.NoError(t, json.Unmarshal(data, &ld))
	assert.True(t, ld.LoggedIn)

	mustSucceed(t, env, client, url.Values{"action": {"logout"}})

	data = mustSucceed(t, env, client, url.Values{"action": {"checkSession"}})
	require.NoError(t, json.Unmarshal(data, &ld))
	assert.False(t, ld.LoggedIn)
}

func TestDispatchGuards(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	assert.Equal(t, "unknown action: frobnicate", mustFail(t, env, client, url.Values{
		"action": {"frobnicate"},
	}))
	assert.Equal(t, "Not authenticated", mustFail(t, env, client, url.Values{
		"action": {"addServer"}, "name": {"Nope"},
	}))
}

func TestAddServerCreatesFixedFeatureSet(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	register(t, env, client, "alice", "secret123")
	login(t, env, client, "alice", "secret123")

	snap := addServer(t, env, client, "Study Group")
	serverID := soleServerID(t, snap)

	server := snap.Servers[serverID]
	assert.Equal(t, "Study Group", server.Name)
	assert.Equal(t, models.RoleOwner, server.UserRole)
	assert.NotEmpty(t, server.InviteCode)

	features := snap.Features[serverID]
	require.Len(t, features, len(content.DefaultFeatures))
	for i, entry := range content.DefaultFeatures {
		assert.Equal(t, entry.Type, features[i].Type)
		assert.Equal(t, entry.Name, features[i].Name)
		assert.Contains(t, snap.Content, features[i].ID, "every feature gets an initial document")
	}

	chatID := findFeature(t, snap, serverID, content.TypeChat)
	var chatDoc content.ChatDocument
	require.NoError(t, json.Unmarshal(snap.Content[chatID], &chatDoc))
	assert.Contains(t, chatDoc.SubItems, "general")
}

func TestMessagingFlow(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	register(t, env, client, "alice", "secret123")
	login(t, env, client, "alice", "secret123")

	snap := addServer(t, env, client, "Study Group")
	serverID := soleServerID(t, snap)
	chatID := findFeature(t, snap, serverID, content.TypeChat)

	data := mustSucceed(t, env, client, url.Values{
		"action": {"postMessage"}, "featureId": {chatID}, "subItemId": {"general"}, "content": {"hello all"},
	})

	snap = decodeSnapshot(t, data)
	var chatDoc content.ChatDocument
	require.NoError(t, json.Unmarshal(snap.Content[chatID], &chatDoc))
	require.Len(t, chatDoc.SubItems["general"].Messages, 1)
	assert.Equal(t, "hello all", chatDoc.SubItems["general"].Messages[0].Content)
	assert.Equal(t, "alice", chatDoc.SubItems["general"].Messages[0].AuthorID)

	assert.Equal(t, "Sub item not found", mustFail(t, env, client, url.Values{
		"action": {"postMessage"}, "featureId": {chatID}, "subItemId": {"nope"}, "content": {"lost"},
	}))

	mustSucceed(t, env, client, url.Values{
		"action": {"addSubItem"}, "featureId": {chatID}, "name": {"random"}, "type": {"channel"},
	})

	raw := mustSucceed(t, env, client, url.Values{
		"action": {"getFeatureContent"}, "featureId": {chatID},
	})
	require.NoError(t, json.Unmarshal(raw, &chatDoc))
	assert.Len(t, chatDoc.SubItems, 2)

	// missing documents read back as an empty object
	raw = mustSucceed(t, env, client, url.Values{
		"action": {"getFeatureContent"}, "featureId": {"feature_missing"},
	})
	assert.JSONEq(t, "{}", string(raw))
}

func TestWhiteboardAndSurveyActions(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	register(t, env, client, "alice", "secret123")
	login(t, env, client, "alice", "secret123")

	snap := addServer(t, env, client, "Study Group")
	serverID := soleServerID(t, snap)

	whiteboardID := findFeature(t, snap, serverID, content.TypeWhiteboard)
	mustSucceed(t, env, client, url.Values{
		"action": {"addWhiteboard"}, "featureId": {whiteboardID}, "name": {"Sketches"},
	})
	data := mustSucceed(t, env, client, url.Values{
		"action": {"saveWhiteboard"}, "featureId": {whiteboardID}, "boardId": {"main"},
		"elements": {`{"el1":{"type":"rect"}}`},
	})

	snap = decodeSnapshot(t, data)
	var wbDoc content.WhiteboardDocument
	require.NoError(t, json.Unmarshal(snap.Content[whiteboardID], &wbDoc))
	assert.Len(t, wbDoc.Boards, 2)
	assert.Contains(t, wbDoc.Boards["main"].Elements, "el1")

	surveyID := findFeature(t, snap, serverID, content.TypeSurvey)
	data = mustSucceed(t, env, client, url.Values{
		"action": {"createSurvey"}, "featureId": {surveyID}, "title": {"Lunch"},
		"questions": {`["pizza?"]`},
	})

	snap = decodeSnapshot(t, data)
	var surveyDoc content.SurveyDocument
	require.NoError(t, json.Unmarshal(snap.Content[surveyID], &surveyDoc))
	require.Len(t, surveyDoc.Surveys, 1)

	var createdSurveyID string
	for id := range surveyDoc.Surveys {
		createdSurveyID = id
	}

	mustSucceed(t, env, client, url.Values{
		"action": {"submitSurveyResponse"}, "featureId": {surveyID}, "surveyId": {createdSurveyID},
		"responses": {`["yes"]`},
	})

	projectsID := findFeature(t, snap, serverID, content.TypeProjects)
	data = mustSucceed(t, env, client, url.Values{
		"action": {"createProject"}, "featureId": {projectsID}, "name": {"Website"},
	})

	snap = decodeSnapshot(t, data)
	var projDoc content.ProjectsDocument
	require.NoError(t, json.Unmarshal(snap.Content[projectsID], &projDoc))
	require.Len(t, projDoc.Projects, 1)

	var createdProjectID string
	for id := range projDoc.Projects {
		createdProjectID = id
	}

	data = mustSucceed(t, env, client, url.Values{
		"action": {"createTask"}, "featureId": {projectsID}, "projectId": {createdProjectID},
		"title": {"Design logo"},
	})

	snap = decodeSnapshot(t, data)
	require.NoError(t, json.Unmarshal(snap.Content[projectsID], &projDoc))
	require.Len(t, projDoc.Tasks, 1)

	var createdTaskID string
	for id := range projDoc.Tasks {
		createdTaskID = id
	}

	mustSucceed(t, env, client, url.Values{
		"action": {"updateTaskStatus"}, "featureId": {projectsID}, "taskId": {createdTaskID},
		"status": {"done"},
	})
}

func TestInviteFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := newClient(t)
	bob := newClient(t)

	register(t, env, alice, "alice", "secret123")
	aliceSnap := login(t, env, alice, "alice", "secret123")
	register(t, env, bob, "bob", "secret123")
	login(t, env, bob, "bob", "secret123")

	snap := addServer(t, env, alice, "Study Group")
	serverID := soleServerID(t, snap)

	var invite struct {
		InviteID   string `json:"inviteId"`
		InviteCode string `json:"inviteCode"`
		ExpiresAt  string `json:"expiresAt"`
	}
	data := mustSucceed(t, env, alice, url.Values{"action": {"createInvite"}, "serverId": {serverID}})
	require.NoError(t, json.Unmarshal(data, &invite))
	require.NotEmpty(t, invite.InviteCode)

	expiresAt, err := time.Parse(time.RFC3339, invite.ExpiresAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	data = mustSucceed(t, env, bob, url.Values{"action": {"acceptInvite"}, "inviteCode": {invite.InviteCode}})
	bobSnap := decodeSnapshot(t, data)
	require.Contains(t, bobSnap.Servers, serverID)
	assert.Equal(t, models.RoleMember, bobSnap.Servers[serverID].UserRole)

	// a consumed invite can't be used again
	assert.Equal(t, "Invalid or expired invite code", mustFail(t, env, bob, url.Values{
		"action": {"acceptInvite"}, "inviteCode": {invite.InviteCode},
	}))

	// accepting a fresh invite while already a member is a no-op
	data = mustSucceed(t, env, alice, url.Values{"action": {"createInvite"}, "serverId": {serverID}})
	require.NoError(t, json.Unmarshal(data, &invite))
	data = mustSucceed(t, env, bob, url.Values{"action": {"acceptInvite"}, "inviteCode": {invite.InviteCode}})
	bobSnap = decodeSnapshot(t, data)
	assert.Equal(t, models.RoleMember, bobSnap.Servers[serverID].UserRole)

	// members can't mint invites
	assert.Equal(t, "You don't have permission to invite", mustFail(t, env, bob, url.Values{
		"action": {"createInvite"}, "serverId": {serverID},
	}))

	// expired invites are rejected at lookup
	_, err = env.db.Exec(
		"INSERT INTO server_invites (id, server_id, inviter_id, invite_code, expires_at, created_at) VALUES ('inv_old', ?, ?, 'oldcode', ?, ?)",
		serverID, aliceSnap.CurrentUser.ID, time.Now().Add(-time.Hour).Unix(), time.Now().Add(-25*time.Hour).Unix(),
	)
	require.NoError(t, err)

	assert.Equal(t, "Invalid or expired invite code", mustFail(t, env, bob, url.Values{
		"action": {"acceptInvite"}, "inviteCode": {"oldcode"},
	}))
}

func TestMemberManagement(t *testing.T) {
	env := newTestEnv(t)
	alice := newClient(t)
	bob := newClient(t)

	register(t, env, alice, "alice", "secret123")
	aliceSnap := login(t, env, alice, "alice", "secret123")
	register(t, env, bob, "bob", "secret123")
	bobSnap := login(t, env, bob, "bob", "secret123")

	snap := addServer(t, env, alice, "Study Group")
	serverID := soleServerID(t, snap)

	var invite struct {
		InviteCode string `json:"inviteCode"`
	}
	data := mustSucceed(t, env, alice, url.Values{"action": {"createInvite"}, "serverId": {serverID}})
	require.NoError(t, json.Unmarshal(data, &invite))
	mustSucceed(t, env, bob, url.Values{"action": {"acceptInvite"}, "inviteCode": {invite.InviteCode}})

	aliceID := strconv.FormatInt(aliceSnap.CurrentUser.ID, 10)
	bobID := strconv.FormatInt(bobSnap.CurrentUser.ID, 10)

	assert.Equal(t, "You don't have permission to change roles", mustFail(t, env, bob, url.Values{
		"action": {"updateMemberRole"}, "serverId": {serverID}, "userId": {bobID}, "role": {"admin"},
	}))
	assert.Equal(t, "Invalid role", mustFail(t, env, alice, url.Values{
		"action": {"updateMemberRole"}, "serverId": {serverID}, "userId": {bobID}, "role": {"king"},
	}))
	assert.Equal(t, "The owner's role can't be changed", mustFail(t, env, alice, url.Values{
		"action": {"updateMemberRole"}, "serverId": {serverID}, "userId": {aliceID}, "role": {"admin"},
	}))
	assert.Equal(t, "Member not found", mustFail(t, env, alice, url.Values{
		"action": {"updateMemberRole"}, "serverId": {serverID}, "userId": {"999999"}, "role": {"admin"},
	}))

	mustSucceed(t, env, alice, url.Values{
		"action": {"updateMemberRole"}, "serverId": {serverID}, "userId": {bobID}, "role": {"admin"},
	})

	var membersData struct {
		Members []struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"members"`
	}
	data = mustSucceed(t, env, alice, url.Values{"action": {"getServerMembers"}, "serverId": {serverID}})
	require.NoError(t, json.Unmarshal(data, &membersData))
	require.Len(t, membersData.Members, 2)

	roles := map[string]string{}
	for _, m := range membersData.Members {
		roles[m.Username] = m.Role
	}
	assert.Equal(t, models.RoleOwner, roles["alice"])
	assert.Equal(t, models.RoleAdmin, roles["bob"])

	assert.Equal(t, "The owner can't be removed", mustFail(t, env, bob, url.Values{
		"action": {"kickMember"}, "serverId": {serverID}, "userId": {aliceID},
	}))

	mustSucceed(t, env, alice, url.Values{
		"action": {"kickMember"}, "serverId": {serverID}, "userId": {bobID},
	})

	assert.Equal(t, "You are not a member of this server", mustFail(t, env, bob, url.Values{
		"action": {"getServerMembers"}, "serverId": {serverID},
	}))
}

func TestPasswordRecovery(t *testing.T) {
	env := newTestEnv(t)
	alice := newClient(t)
	bob := newClient(t)
	anon := newClient(t)

	register(t, env, alice, "alice", "secret123")
	register(t, env, bob, "bob", "secret123")

	assert.Equal(t, "User not found", mustFail(t, env, anon, url.Values{
		"action": {"requestPasswordRecovery"}, "username": {"alice"}, "partnerUsername": {"nobody"},
	}))

	var request struct {
		RecoveryToken string `json:"recoveryToken"`
	}
	data := mustSucceed(t, env, anon, url.Values{
		"action": {"requestPasswordRecovery"}, "username": {"alice"}, "partnerUsername": {"bob"},
	})
	require.NoError(t, json.Unmarshal(data, &request))
	require.NotEmpty(t, request.RecoveryToken)

	assert.Equal(t, "A password recovery request already exists", mustFail(t, env, anon, url.Values{
		"action": {"requestPasswordRecovery"}, "username": {"alice"}, "partnerUsername": {"bob"},
	}))

	// pending requests can't reset yet
	assert.Equal(t, "Invalid or expired recovery token", mustFail(t, env, anon, url.Values{
		"action": {"resetPassword"}, "recoveryToken": {request.RecoveryToken}, "newPassword": {"newsecret"},
	}))

	// approval needs an authenticated partner
	assert.Equal(t, "Not authenticated", mustFail(t, env, anon, url.Values{
		"action": {"approvePasswordRecovery"}, "recoveryToken": {request.RecoveryToken},
	}))

	login(t, env, alice, "alice", "secret123")
	assert.Equal(t, "Invalid recovery token", mustFail(t, env, alice, url.Values{
		"action": {"approvePasswordRecovery"}, "recoveryToken": {request.RecoveryToken},
	}))

	login(t, env, bob, "bob", "secret123")
	mustSucceed(t, env, bob, url.Values{
		"action": {"approvePasswordRecovery"}, "recoveryToken": {request.RecoveryToken},
	})

	assert.Equal(t, "Password must be at least 6 characters", mustFail(t, env, anon, url.Values{
		"action": {"resetPassword"}, "recoveryToken": {request.RecoveryToken}, "newPassword": {"tiny"},
	}))

	mustSucceed(t, env, anon, url.Values{
		"action": {"resetPassword"}, "recoveryToken": {request.RecoveryToken}, "newPassword": {"newsecret"},
	})

	// a completed token is spent
	assert.Equal(t, "Invalid or expired recovery token", mustFail(t, env, anon, url.Values{
		"action": {"resetPassword"}, "recoveryToken": {request.RecoveryToken}, "newPassword": {"another1"},
	}))

	assert.Equal(t, "Wrong password", mustFail(t, env, anon, url.Values{
		"action": {"login"}, "username": {"alice"}, "password": {"secret123"},
	}))
	login(t, env, anon, "alice", "newsecret")
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	register(t, env, client, "alice", "secret123")
	login(t, env, client, "alice", "secret123")

	assert.Equal(t, "No fields to update", mustFail(t, env, client, url.Values{
		"action": {"updateProfile"},
	}))
	assert.Equal(t, "admission_year must be a number", mustFail(t, env, client, url.Values{
		"action": {"updateProfile"}, "admission_year": {"not-a-year"},
	}))

	data := mustSucceed(t, env, client, url.Values{
		"action": {"updateProfile"}, "nickname": {"Ali"}, "admission_year": {"2020"}, "bio": {"hi"},
	})

	snap := decodeSnapshot(t, data)
	require.NotNil(t, snap.CurrentUser)
	assert.Equal(t, "Ali", snap.CurrentUser.Nickname)
}

func TestUploadFile(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	register(t, env, client, "alice", "secret123")
	login(t, env, client, "alice", "secret123")
	snap := addServer(t, env, client, "Study Group")
	serverID := soleServerID(t, snap)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("action", "uploadFile"))
	require.NoError(t, writer.WriteField("serverId", serverID))
	part, err := writer.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := client.Post(env.ts.URL+"/api.cgi", writer.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	var result envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.True(t, result.Success, result.Error)

	var upload struct {
		FileID           string `json:"fileId"`
		OriginalFilename string `json:"originalFilename"`
		FileSize         int64  `json:"fileSize"`
		URL              string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(result.Data, &upload))
	assert.Equal(t, "notes.txt", upload.OriginalFilename)
	assert.Equal(t, int64(5), upload.FileSize)

	fileResp, err := client.Get(env.ts.URL + upload.URL)
	require.NoError(t, err)
	defer fileResp.Body.Close()
	require.Equal(t, http.StatusOK, fileResp.StatusCode)

	served, err := io.ReadAll(fileResp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(served))

	assert.Equal(t, "No file was selected", mustFail(t, env, client, url.Values{
		"action": {"uploadFile"}, "serverId": {serverID},
	}))
}

func TestSaveWhiteboardImage(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	register(t, env, client, "alice", "secret123")
	login(t, env, client, "alice", "secret123")
	snap := addServer(t, env, client, "Study Group")
	serverID := soleServerID(t, snap)
	whiteboardID := findFeature(t, snap, serverID, content.TypeWhiteboard)

	imageData := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'})

	data := mustSucceed(t, env, client, url.Values{
		"action": {"saveWhiteboardImage"}, "featureId": {whiteboardID}, "boardId": {"main"},
		"imageData": {imageData},
	})

	var saved struct {
		ImageID   string `json:"imageId"`
		ImagePath string `json:"imagePath"`
	}
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.NotEmpty(t, saved.ImageID)
	assert.NotEmpty(t, saved.ImagePath)

	assert.Equal(t, "Feature ID, board ID, and image data are required", mustFail(t, env, client, url.Values{
		"action": {"saveWhiteboardImage"}, "featureId": {whiteboardID},
	}))
}

func TestUpdateFeatureContent(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	register(t, env, client, "alice", "secret123")
	login(t, env, client, "alice", "secret123")
	snap := addServer(t, env, client, "Study Group")
	serverID := soleServerID(t, snap)
	wikiID := findFeature(t, snap, serverID, content.TypeWiki)

	assert.Equal(t, "Invalid JSON data", mustFail(t, env, client, url.Values{
		"action": {"updateFeatureContent"}, "featureId": {wikiID}, "content": {"not json"},
	}))

	data := mustSucceed(t, env, client, url.Values{
		"action": {"updateFeatureContent"}, "featureId": {wikiID}, "content": {`{"pages":{}}`},
	})

	snap = decodeSnapshot(t, data)
	assert.JSONEq(t, `{"pages":{}}`, string(snap.Content[wikiID]))
}
