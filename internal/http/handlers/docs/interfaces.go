package docs

import (
	"context"
	"docproxy/internal/dto"
	"docproxy/internal/models"
	"io"
)

const pkg = "docsHandler/"

type DocumentFetcher interface {
	Fetch(ctx context.Context, docID string, workgroup string, user *models.User) (*models.DocumentView, error)
}

type PayloadBuilder interface {
	EditorPayload(ctx context.Context, docID string, user *models.User) (*dto.EditorConfig, error)
}

type EditPermissionChecker interface {
	CanEdit(ctx context.Context, user *models.User, workgroup string) (bool, error)
}

type CachedFileOpener interface {
	OpenCached(ctx context.Context, docID string, key string) (io.ReadCloser, *models.DocumentView, error)
}

type DocumentRemover interface {
	Remove(ctx context.Context, docID string) error
}

type SaveHandler interface {
	HandleSave(ctx context.Context, docID string, srcURL string) error
	SaveRevision(ctx context.Context, docID string, srcURL string) error
}
