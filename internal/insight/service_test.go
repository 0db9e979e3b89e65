package insight_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedrive/filedrive/internal/file"
	"github.com/filedrive/filedrive/internal/insight"
)

// fakeFileRepo holds a fixed set of files.
type fakeFileRepo struct {
	files map[uuid.UUID]*file.File
}

func (r *fakeFileRepo) GetByID(_ context.Context, id uuid.UUID) (*file.File, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, file.ErrFileNotFound
	}
	return f, nil
}

func (r *fakeFileRepo) Create(_ context.Context, _ *file.File) error { return nil }
func (r *fakeFileRepo) ListByUser(_ context.Context, _ uuid.UUID, _, _ int) ([]file.File, error) {
	return nil, nil
}
func (r *fakeFileRepo) ListAll(_ context.Context, _, _ int) ([]file.File, error) { return nil, nil }
func (r *fakeFileRepo) Count(_ context.Context) (int, error)                     { return 0, nil }
func (r *fakeFileRepo) CountByUser(_ context.Context, _ uuid.UUID) (int, error)  { return 0, nil }
func (r *fakeFileRepo) Delete(_ context.Context, _ uuid.UUID) error              { return nil }

// fakeInsightRepo is an in-memory insight.Repository.
type fakeInsightRepo struct {
	insights map[uuid.UUID]*insight.Insight
}

func newFakeInsightRepo() *fakeInsightRepo {
	return &fakeInsightRepo{insights: make(map[uuid.UUID]*insight.Insight)}
}

func (r *fakeInsightRepo) Create(_ context.Context, in *insight.Insight) error {
	in.ID = uuid.New()
	in.CreatedAt = time.Now().UTC()
	clone := *in
	r.insights[in.ID] = &clone
	return nil
}

func (r *fakeInsightRepo) GetByID(_ context.Context, id uuid.UUID) (*insight.Insight, error) {
	in, ok := r.insights[id]
	if !ok {
		return nil, insight.ErrInsightNotFound
	}
	clone := *in
	return &clone, nil
}

func (r *fakeInsightRepo) ListByFile(_ context.Context, fileID uuid.UUID) ([]insight.Insight, error) {
	result := []insight.Insight{}
	for _, in := range r.insights {
		if in.FileID == fileID {
			result = append(result, *in)
		}
	}
	return result, nil
}

func (r *fakeInsightRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.insights[id]; !ok {
		return insight.ErrInsightNotFound
	}
	delete(r.insights, id)
	return nil
}

// fakeStore only needs to produce storage URIs here.
type fakeStore struct{}

func (fakeStore) Put(_ context.Context, _ string, _ io.Reader, _ string) error { return nil }
func (fakeStore) Delete(_ context.Context, _ string) error                     { return nil }
func (fakeStore) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}
func (fakeStore) URI(key string) string { return "s3://test-bucket/" + key }

// fakeGenerator records the last call and returns a canned response.
type fakeGenerator struct {
	lastPrompt   string
	lastFileURI  string
	lastMimeType string
	response     string
	err          error
}

func (g *fakeGenerator) Generate(_ context.Context, prompt, fileURI, mimeType string) (string, error) {
	g.lastPrompt = prompt
	g.lastFileURI = fileURI
	g.lastMimeType = mimeType
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func setup(t *testing.T) (*insight.Service, *fakeInsightRepo, *fakeGenerator, *file.File) {
	t.Helper()

	owner := uuid.New()
	f := &file.File{
		ID:       uuid.New(),
		UserID:   owner,
		Name:     owner.String() + "-report.pdf",
		MimeType: "application/pdf",
	}

	fileRepo := &fakeFileRepo{files: map[uuid.UUID]*file.File{f.ID: f}}
	repo := newFakeInsightRepo()
	gen := &fakeGenerator{response: "a summary of the report"}

	svc := insight.NewService(repo, fileRepo, fakeStore{}, gen)
	return svc, repo, gen, f
}

func TestGenerate(t *testing.T) {
	svc, _, gen, f := setup(t)
	ctx := context.Background()

	in, err := svc.Generate(ctx, "summarize the key findings", f.ID)
	require.NoError(t, err)

	assert.Equal(t, "a summary of the report", in.Data)
	assert.Equal(t, "summarize the key findings", in.Prompt)
	assert.Equal(t, f.ID, in.FileID)
	// Persisted against the file's owner, not the requester.
	assert.Equal(t, f.UserID, in.UserID)

	// The generator saw the stored object's URI and MIME type.
	assert.Equal(t, "s3://test-bucket/"+f.Name, gen.lastFileURI)
	assert.Equal(t, "application/pdf", gen.lastMimeType)
}

func TestGenerate_FileMissing(t *testing.T) {
	svc, _, _, _ := setup(t)

	_, err := svc.Generate(context.Background(), "summarize this please", uuid.New())
	assert.ErrorIs(t, err, file.ErrFileNotFound)
}

func TestGenerate_ModelFailure(t *testing.T) {
	svc, repo, gen, f := setup(t)
	gen.err = errors.New("model unavailable")

	_, err := svc.Generate(context.Background(), "summarize this please", f.ID)
	assert.ErrorIs(t, err, insight.ErrGeneration)

	// Nothing persisted on failure.
	assert.Empty(t, repo.insights)
}

func TestListByFile_EmptyIsNotAnError(t *testing.T) {
	svc, _, _, f := setup(t)

	insights, err := svc.ListByFile(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Empty(t, insights)
}

func TestListByFile_FileMissing(t *testing.T) {
	svc, _, _, _ := setup(t)

	_, err := svc.ListByFile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, file.ErrFileNotFound)
}

func TestGetAndDelete(t *testing.T) {
	svc, _, _, f := setup(t)
	ctx := context.Background()

	in, err := svc.Generate(ctx, "summarize the key findings", f.ID)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, in.ID))

	_, err = svc.GetByID(ctx, in.ID)
	assert.ErrorIs(t, err, insight.ErrInsightNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, in.ID), insight.ErrInsightNotFound)
}
