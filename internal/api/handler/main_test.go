package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/filedrive/filedrive/internal/api"
	"github.com/filedrive/filedrive/internal/auth"
	"github.com/filedrive/filedrive/internal/file"
	"github.com/filedrive/filedrive/internal/insight"
	"github.com/filedrive/filedrive/internal/user"
)

const apiPrefix = "/api/v1"

// memUserRepo is an in-memory user.Repository.
type memUserRepo struct {
	users map[uuid.UUID]*user.User
	seq   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}
	r.seq++
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC().Add(time.Duration(r.seq) * time.Millisecond)
	u.UpdatedAt = u.CreatedAt
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context, limit, offset int) ([]user.User, error) {
	all := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return slicePage(all, limit, offset), nil
}

func (r *memUserRepo) Count(_ context.Context) (int, error) { return len(r.users), nil }

func (r *memUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *memUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// memFileRepo is an in-memory file.Repository.
type memFileRepo struct {
	files map[uuid.UUID]*file.File
	seq   int
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: make(map[uuid.UUID]*file.File)}
}

func (r *memFileRepo) Create(_ context.Context, f *file.File) error {
	r.seq++
	f.ID = uuid.New()
	f.CreatedAt = time.Now().UTC().Add(time.Duration(r.seq) * time.Millisecond)
	f.UpdatedAt = f.CreatedAt
	clone := *f
	r.files[f.ID] = &clone
	return nil
}

func (r *memFileRepo) GetByID(_ context.Context, id uuid.UUID) (*file.File, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, file.ErrFileNotFound
	}
	clone := *f
	return &clone, nil
}

func (r *memFileRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]file.File, error) {
	var owned []file.File
	for _, f := range r.files {
		if f.UserID == userID {
			owned = append(owned, *f)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	return slicePage(owned, limit, offset), nil
}

func (r *memFileRepo) ListAll(_ context.Context, limit, offset int) ([]file.File, error) {
	all := make([]file.File, 0, len(r.files))
	for _, f := range r.files {
		all = append(all, *f)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return slicePage(all, limit, offset), nil
}

func (r *memFileRepo) Count(_ context.Context) (int, error) { return len(r.files), nil }

func (r *memFileRepo) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, f := range r.files {
		if f.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *memFileRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.files[id]; !ok {
		return file.ErrFileNotFound
	}
	delete(r.files, id)
	return nil
}

func slicePage[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// memInsightRepo is an in-memory insight.Repository.
type memInsightRepo struct {
	insights map[uuid.UUID]*insight.Insight
}

func newMemInsightRepo() *memInsightRepo {
	return &memInsightRepo{insights: make(map[uuid.UUID]*insight.Insight)}
}

func (r *memInsightRepo) Create(_ context.Context, in *insight.Insight) error {
	in.ID = uuid.New()
	in.CreatedAt = time.Now().UTC()
	clone := *in
	r.insights[in.ID] = &clone
	return nil
}

func (r *memInsightRepo) GetByID(_ context.Context, id uuid.UUID) (*insight.Insight, error) {
	in, ok := r.insights[id]
	if !ok {
		return nil, insight.ErrInsightNotFound
	}
	clone := *in
	return &clone, nil
}

func (r *memInsightRepo) ListByFile(_ context.Context, fileID uuid.UUID) ([]insight.Insight, error) {
	result := []insight.Insight{}
	for _, in := range r.insights {
		if in.FileID == fileID {
			result = append(result, *in)
		}
	}
	return result, nil
}

func (r *memInsightRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.insights[id]; !ok {
		return insight.ErrInsightNotFound
	}
	delete(r.insights, id)
	return nil
}

// memStore is an in-memory ObjectStore.
type memStore struct {
	objects   map[string][]byte
	signCalls int
	failPut   bool
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Put(_ context.Context, key string, body io.Reader, _ string) error {
	if s.failPut {
		return errors.New("put rejected")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *memStore) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	s.signCalls++
	return fmt.Sprintf("https://signed.example/%s?n=%d", key, s.signCalls), nil
}

func (s *memStore) URI(key string) string { return "s3://test-bucket/" + key }

// stubGenerator returns a canned response or a failure.
type stubGenerator struct {
	response string
	err      error
}

func (g *stubGenerator) Generate(_ context.Context, _, _, _ string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(_ context.Context) error { return p.err }

// testEnv wires the full router over in-memory backends.
type testEnv struct {
	router    http.Handler
	userRepo  *memUserRepo
	fileRepo  *memFileRepo
	store     *memStore
	generator *stubGenerator
	pinger    *stubPinger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenManager("handler-test-secret", time.Hour)
	require.NoError(t, err)

	env := &testEnv{
		userRepo:  newMemUserRepo(),
		fileRepo:  newMemFileRepo(),
		store:     newMemStore(),
		generator: &stubGenerator{response: "a canned insight"},
		pinger:    &stubPinger{},
	}

	insightRepo := newMemInsightRepo()
	userService := user.NewService(env.userRepo, 4)
	fileService := file.NewService(env.fileRepo, env.store, time.Hour)
	insightService := insight.NewService(insightRepo, env.fileRepo, env.store, env.generator)

	env.router = api.NewRouter(api.RouterDeps{
		Prefix:         apiPrefix,
		Version:        "test",
		DBPinger:       env.pinger,
		Tokens:         tokens,
		UserRepo:       env.userRepo,
		UserService:    userService,
		FileService:    fileService,
		InsightService: insightService,
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, apiPrefix+path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	return e.do(t, method, path, token, reader, "application/json")
}

// register creates a user through the API and returns its access token.
func (e *testEnv) register(t *testing.T, username, email, password string) string {
	t.Helper()

	w := e.doJSON(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeData(t, w)
	token, _ := data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

// registerAdmin registers a user and promotes it directly in the repository.
func (e *testEnv) registerAdmin(t *testing.T, username, email, password string) string {
	t.Helper()

	e.register(t, username, email, password)
	for _, u := range e.userRepo.users {
		if u.Email == email {
			u.IsAdmin = true
		}
	}

	// Re-login so the token carries the admin claim.
	form := url.Values{"username": {email}, "password": {password}}
	w := e.do(t, http.MethodPost, "/auth/login", "", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, _ := decodeData(t, w)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

// upload pushes a small file through POST /files and returns its ID.
func (e *testEnv) upload(t *testing.T, token, filename, content string) string {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := e.do(t, http.MethodPost, "/files", token, &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	id, _ := decodeData(t, w)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	data, ok := decodeEnvelope(t, w)["data"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	apiErr, ok := decodeEnvelope(t, w)["error"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	code, _ := apiErr["code"].(string)
	return code
}

// principalID resolves a registered user's ID by email.
func (e *testEnv) principalID(t *testing.T, email string) uuid.UUID {
	t.Helper()

	for _, u := range e.userRepo.users {
		if u.Email == email {
			return u.ID
		}
	}
	t.Fatalf("no user with email %s", email)
	return uuid.Nil
}
