package docs

import (
	"context"
	"docproxy/internal/dto"
	"docproxy/internal/models"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) Fetch(ctx context.Context, docID string, workgroup string, user *models.User) (*models.DocumentView, error) {
	args := m.Called(ctx, docID, workgroup, user)
	view, _ := args.Get(0).(*models.DocumentView)
	return view, args.Error(1)
}

type mockBuilder struct{ mock.Mock }

func (m *mockBuilder) EditorPayload(ctx context.Context, docID string, user *models.User) (*dto.EditorConfig, error) {
	args := m.Called(ctx, docID, user)
	payload, _ := args.Get(0).(*dto.EditorConfig)
	return payload, args.Error(1)
}

type mockPerms struct{ mock.Mock }

func (m *mockPerms) CanEdit(ctx context.Context, user *models.User, workgroup string) (bool, error) {
	args := m.Called(ctx, user, workgroup)
	return args.Bool(0), args.Error(1)
}

func withUser(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), models.UserContextKey, user))
}

func TestConfig_Success(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/docs/doc-1/config?workgroup=wg", nil)

	user := &models.User{ID: "u1", Name: "Ann"}
	req = withUser(req, user)
	ctx := req.Context()

	perms := new(mockPerms)
	perms.On("CanEdit", ctx, user, "wg").Return(true, nil)

	fetcher := new(mockFetcher)
	fetcher.On("Fetch", ctx, "doc-1", "wg", user).Return(&models.DocumentView{ID: "doc-1"}, nil)

	builder := new(mockBuilder)
	builder.On("EditorPayload", ctx, "doc-1", user).Return(&dto.EditorConfig{
		Document:     dto.EditorDocument{Key: "k1", Title: "report.docx"},
		DocumentType: models.DocumentTypeWord,
	}, nil)

	Config(ctx, slog.Default(), w, req, "doc-1", fetcher, builder, perms)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed dto.EditorConfig
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, "k1", parsed.Document.Key)

	perms.AssertExpectations(t)
	fetcher.AssertExpectations(t)
	builder.AssertExpectations(t)
}

func TestConfig_Fail_NoIdentity(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/docs/doc-1/config?workgroup=wg", nil)
	ctx := req.Context()

	Config(ctx, slog.Default(), w, req, "doc-1", nil, nil, nil)

	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}

func TestConfig_Fail_MissingWorkgroup(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/docs/doc-1/config", nil)
	req = withUser(req, &models.User{ID: "u1"})
	ctx := req.Context()

	Config(ctx, slog.Default(), w, req, "doc-1", nil, nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestConfig_Fail_PermissionDenied(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/docs/doc-1/config?workgroup=wg", nil)

	user := &models.User{ID: "u1"}
	req = withUser(req, user)
	ctx := req.Context()

	perms := new(mockPerms)
	perms.On("CanEdit", ctx, user, "wg").Return(false, nil)

	fetcher := new(mockFetcher)

	Config(ctx, slog.Default(), w, req, "doc-1", fetcher, nil, perms)

	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	perms.AssertExpectations(t)
}

func TestConfig_Fail_PermissionGatewayError(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/docs/doc-1/config?workgroup=wg", nil)

	user := &models.User{ID: "u1"}
	req = withUser(req, user)
	ctx := req.Context()

	perms := new(mockPerms)
	perms.On("CanEdit", ctx, user, "wg").Return(false, errors.New("gateway down"))

	Config(ctx, slog.Default(), w, req, "doc-1", nil, nil, perms)

	assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}

func TestConfig_Fail_RemoteNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/docs/doc-404/config?workgroup=wg", nil)

	user := &models.User{ID: "u1"}
	req = withUser(req, user)
	ctx := req.Context()

	perms := new(mockPerms)
	perms.On("CanEdit", ctx, user, "wg").Return(true, nil)

	fetcher := new(mockFetcher)
	fetcher.On("Fetch", ctx, "doc-404", "wg", user).Return(nil, models.ErrDocumentNotFound)

	Config(ctx, slog.Default(), w, req, "doc-404", fetcher, nil, perms)

	assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}
