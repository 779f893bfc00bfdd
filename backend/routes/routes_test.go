package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"assignmentmate/backend/api"
	"assignmentmate/backend/session"
	"assignmentmate/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "Bearer tok-1"

type envelope struct {
	Success  bool            `json:"success"`
	Error    string          `json:"error"`
	Message  string          `json:"message"`
	Redirect string          `json:"redirect"`
	Data     json.RawMessage `json:"data"`
	Details  json.RawMessage `json:"details"`
	Meta     json.RawMessage `json:"meta"`
}

// backend fakes the Django API the gateway proxies.
type backend struct {
	mux       *http.ServeMux
	submitted atomic.Int32
	lastAuth  atomic.Value
	lastPage  atomic.Value
	lastBody  atomic.Value

	// submitKey, when set, is the only key the submit endpoint accepts.
	submitKey []byte
}

func (b *backend) record(r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	b.lastBody.Store(string(data))
}

func newBackend() *backend {
	b := &backend{mux: http.NewServeMux()}
	b.mux.HandleFunc("/api/token/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail": "No active account found with the given credentials"}`)
			return
		}
		io.WriteString(w, `{"access": "acc", "refresh": "ref"}`)
	})
	b.mux.HandleFunc("/api/quiz/quizzes/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error": "database is down"}`)
	})
	b.mux.HandleFunc("/api/quiz/start/3/", func(w http.ResponseWriter, r *http.Request) {
		b.lastAuth.Store(r.Header.Get("Authorization"))
		io.WriteString(w, `{"id": 7, "quiz": {"id": 3, "title": "Go", "questions": [
			{"id": 1, "text": "q1", "options": ["a", "b"], "correct_option": 1},
			{"id": 2, "text": "q2", "options": ["a", "b", "c"], "correct_option": 0}
		]}, "completed_at": null}`)
	})
	b.mux.HandleFunc("/api/quiz/start/4/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": 9, "quiz": {"id": 4, "title": "Done", "questions": []}, "completed_at": "2024-05-01T10:00:00Z"}`)
	})
	b.mux.HandleFunc("/api/quiz/submit/7/", func(w http.ResponseWriter, r *http.Request) {
		if b.submitKey != nil && !validToken(r.Header.Get("Authorization"), b.submitKey) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail": "Given token not valid for any token type"}`)
			return
		}
		b.submitted.Add(1)
		io.WriteString(w, `{"id": 7, "score": 50, "completed_at": "2024-05-01T10:00:00Z"}`)
	})
	b.mux.HandleFunc("/api/quiz/history/", func(w http.ResponseWriter, r *http.Request) {
		b.lastPage.Store(r.URL.Query().Get("page"))
		io.WriteString(w, `{"count": 12, "next": null, "previous": "http://b/?page=1", "results": {
			"results": [{"id": 5, "quiz": {"id": 3, "title": "Go"}, "score": 85}],
			"statistics": {"total_attempts": 12, "average_score": 70.5, "highest_score": 100}
		}}`)
	})
	b.mux.HandleFunc("/api/quiz/results/3/{$}", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	b.mux.HandleFunc("/api/quiz/results/5/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error": "relation quiz_attempt does not exist"}`)
	})
	b.mux.HandleFunc("/api/quiz/results/3/7/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": 7, "quiz": {"id": 3}, "score": null, "incorrect_questions": null, "time_taken": 42.5}`)
	})
	b.mux.HandleFunc("/api/quiz/signup/", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": 1, "username": "ada", "email": "ada@example.com"}`)
	})
	b.mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		io.WriteString(w, `{"access": "acc-2"}`)
	})
	b.mux.HandleFunc("/api/assignment-assist/documents/1/extract_questions/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id": 1, "text": "Explain channels"}, {"id": 2, "text": "Explain select"}]`)
	})
	b.mux.HandleFunc("/api/assignment-assist/documents/1/update_questions/", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		io.WriteString(w, `{}`)
	})
	b.mux.HandleFunc("/api/assignment-assist/documents/1/questions/answers/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			io.WriteString(w, `{"document_id": 1, "responses": [{"question_id": 1, "question": "Explain channels", "answer": "Typed pipes."}]}`)
			return
		}
		b.record(r)
		io.WriteString(w, `{"questions": [{"id": 1, "text": "Explain channels", "answer": "Typed pipes."}], "answers": {"1": "Typed pipes."}}`)
	})
	return b
}

func signToken(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func validToken(header string, key []byte) bool {
	raw := strings.TrimPrefix(header, "Bearer ")
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) { return key, nil })
	return err == nil && token.Valid
}

func setupApp(t *testing.T, b *backend) *fiber.App {
	t.Helper()
	server := httptest.NewServer(b.mux)
	t.Cleanup(server.Close)

	logger := log.New(io.Discard, "", 0)
	manager := session.NewManager(time.Minute)
	t.Cleanup(manager.Close)

	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	SetupRoutes(app, api.New(server.URL, 0), manager, logger)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	return doJSONAs(t, app, testToken, method, path, body)
}

func doJSONAs(t *testing.T, app *fiber.App, authorization, method, path string, body interface{}) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authorization)
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	if resp.StatusCode != fiber.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp, env
}

func TestGuardRedirectsToLogin(t *testing.T) {
	app := setupApp(t, newBackend())

	req := httptest.NewRequest(http.MethodGet, "/api/quizzes", nil)
	resp, env := send(t, app, req)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/login", env.Redirect)
}

func TestLogin(t *testing.T) {
	app := setupApp(t, newBackend())

	resp, env := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "ada", "password": "secret123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "/quizzes", env.Redirect)
	assert.JSONEq(t, `{"access": "acc", "refresh": "ref"}`, string(env.Data))

	resp, env = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "ada", "password": "wrong-pass",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials.", env.Message)
}

func TestLoginValidation(t *testing.T) {
	app := setupApp(t, newBackend())

	resp, env := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(env.Details), "username")
}

func TestQuizListFailureIsGeneric(t *testing.T) {
	app := setupApp(t, newBackend())

	resp, env := doJSON(t, app, http.MethodGet, "/api/quizzes", nil)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Could not load quizzes.", env.Message)
	assert.NotContains(t, env.Message, "database")
}

func TestGenerateQuizValidation(t *testing.T) {
	app := setupApp(t, newBackend())

	resp, env := doJSON(t, app, http.MethodPost, "/api/quizzes/generate", map[string]interface{}{
		"topic": "Go", "difficulty": "impossible", "numOfQuestions": 5,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(env.Details), "difficulty")
}

func TestHistoryView(t *testing.T) {
	b := newBackend()
	app := setupApp(t, b)

	resp, env := doJSON(t, app, http.MethodGet, "/api/history?page=2", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "2", b.lastPage.Load())

	var view struct {
		Page        int  `json:"page"`
		NumPages    int  `json:"num_pages"`
		HasPrevious bool `json:"has_previous"`
		HasNext     bool `json:"has_next"`
		Entries     []struct {
			Badge      string `json:"badge"`
			ResultsURL string `json:"results_url"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 2, view.NumPages)
	assert.True(t, view.HasPrevious)
	assert.False(t, view.HasNext)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "high", view.Entries[0].Badge)
	assert.Equal(t, "/quiz/results/3/5", view.Entries[0].ResultsURL)
}

func TestSessionLifecycle(t *testing.T) {
	b := newBackend()
	app := setupApp(t, b)

	resp, env := doJSON(t, app, http.MethodPost, "/api/sessions", map[string]int{"quiz_id": 3})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Bearer tok-1", b.lastAuth.Load())

	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, session.StateActive, snap.State)
	assert.Equal(t, 7, snap.AttemptID)
	assert.Equal(t, 120, snap.TimeBudget)
	require.NotNil(t, snap.Quiz)
	assert.Nil(t, snap.Quiz.Questions[0].CorrectOption)

	path := "/api/sessions/" + snap.ID
	resp, env = doJSON(t, app, http.MethodPost, path+"/selections", map[string]int{"question": 1, "option": 2})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, 1, snap.Answered)
	assert.Equal(t, 0.5, snap.Progress)

	resp, _ = doJSON(t, app, http.MethodPost, path+"/selections", map[string]int{"question": 0, "option": 5})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, env = doJSON(t, app, http.MethodPost, path+"/submit", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "/quiz/results/3/7", env.Redirect)
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.True(t, snap.Celebrate)
	assert.Equal(t, int32(1), b.submitted.Load())

	resp, _ = doJSON(t, app, http.MethodPost, path+"/submit", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, int32(1), b.submitted.Load())

	resp, _ = doJSON(t, app, http.MethodDelete, path, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, path, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSessionCompletedAttemptRedirects(t *testing.T) {
	app := setupApp(t, newBackend())

	resp, env := doJSON(t, app, http.MethodPost, "/api/sessions", map[string]int{"quiz_id": 4})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "/quiz/results/4/9", env.Redirect)
}

func TestSessionUnknownQuizGoesBackToList(t *testing.T) {
	app := setupApp(t, newBackend())

	resp, env := doJSON(t, app, http.MethodPost, "/api/sessions", map[string]int{"quiz_id": 99})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "/quizzes", env.Redirect)
}

func TestSessionIsPrivateToOwner(t *testing.T) {
	app := setupApp(t, newBackend())

	_, env := doJSON(t, app, http.MethodPost, "/api/sessions", map[string]int{"quiz_id": 3})
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+snap.ID, nil)
	req.Header.Set("Authorization", "Bearer someone-else")
	resp, _ := send(t, app, req)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	app := setupApp(t, newBackend())

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	io.WriteString(part, "plain text")
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", testToken)
	resp, env := send(t, app, req)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Only PDF files are accepted", env.Message)
}

func TestSessionFollowsCallerCredential(t *testing.T) {
	b := newBackend()
	b.submitKey = []byte("backend-signing-key")
	app := setupApp(t, b)

	owner := "Bearer " + signToken(t, b.submitKey, jwt.MapClaims{"user_id": 5})
	forged := "Bearer " + signToken(t, []byte("guessed-key"), jwt.MapClaims{"user_id": 5})

	_, env := doJSONAs(t, app, owner, http.MethodPost, "/api/sessions", map[string]int{"quiz_id": 3})
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	path := "/api/sessions/" + snap.ID + "/submit"

	resp, env := doJSONAs(t, app, forged, http.MethodPost, path, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/login", env.Redirect)
	assert.Equal(t, int32(0), b.submitted.Load(), "the backend never sees the owner's token")

	resp, env = doJSONAs(t, app, owner, http.MethodPost, path, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "/quiz/results/3/7", env.Redirect)
	assert.Equal(t, int32(1), b.submitted.Load())
}

func TestSignupAndRefresh(t *testing.T) {
	b := newBackend()
	app := setupApp(t, b)

	resp, env := doJSON(t, app, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "ada", "email": "ada@example.com", "password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", env.Redirect)
	assert.Contains(t, b.lastBody.Load().(string), `"email":"ada@example.com"`)

	resp, env = doJSON(t, app, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "ada", "email": "not-an-email", "password": "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(env.Details), "email")
	assert.Contains(t, string(env.Details), "password")

	resp, env = doJSON(t, app, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh": "ref-1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"access": "acc-2", "refresh": "ref-1"}`, string(env.Data))
	assert.JSONEq(t, `{"refresh": "ref-1"}`, b.lastBody.Load().(string))
}

func TestListAttempts(t *testing.T) {
	app := setupApp(t, newBackend())

	resp, env := doJSON(t, app, http.MethodGet, "/api/quizzes/3/attempts", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.JSONEq(t, `{"attempt_url": "/quiz/attempt/3"}`, string(env.Meta))

	resp, env = doJSON(t, app, http.MethodGet, "/api/quizzes/5/attempts", nil)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Could not load attempts.", env.Message)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/quizzes/abc/attempts", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetResult(t *testing.T) {
	app := setupApp(t, newBackend())

	resp, env := doJSON(t, app, http.MethodGet, "/api/quizzes/3/attempts/7", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Score      float64           `json:"score"`
		TimeTaken  float64           `json:"time_taken"`
		Incorrect  []json.RawMessage `json:"incorrect_questions"`
		AllCorrect bool              `json:"all_correct"`
		HistoryURL string            `json:"history_url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 42.5, result.TimeTaken)
	assert.NotNil(t, result.Incorrect)
	assert.Empty(t, result.Incorrect)
	assert.True(t, result.AllCorrect)
	assert.Equal(t, "/quiz/history", result.HistoryURL)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/quizzes/3/attempts/99", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDocumentQuestionsAndAnswers(t *testing.T) {
	b := newBackend()
	app := setupApp(t, b)

	resp, env := doJSON(t, app, http.MethodPost, "/api/documents/1/questions/extract", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id": 1, "text": "Explain channels"}, {"id": 2, "text": "Explain select"}]`, string(env.Data))

	edited := []map[string]interface{}{{"id": 1, "text": "Explain buffered channels"}}
	resp, _ = doJSON(t, app, http.MethodPatch, "/api/documents/1/questions", map[string]interface{}{"questions": edited})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id": 1, "text": "Explain buffered channels"}]`, b.lastBody.Load().(string))

	resp, env = doJSON(t, app, http.MethodPatch, "/api/documents/1/questions", map[string]interface{}{
		"questions": []map[string]interface{}{{"id": 1}},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(env.Details), "text")

	resp, env = doJSON(t, app, http.MethodGet, "/api/documents/1/answers", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), "Typed pipes.")

	resp, env = doJSON(t, app, http.MethodPost, "/api/documents/1/answers", map[string]interface{}{
		"questions":        edited,
		"answer_detailing": "brief",
		"marks":            5,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "/assignment-assist/1/viewAnswers/", env.Redirect)
	assert.Contains(t, b.lastBody.Load().(string), `"answer_detailing":"brief"`)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/documents/1/answers", map[string]interface{}{
		"questions": []interface{}{}, "answer_detailing": "brief",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
