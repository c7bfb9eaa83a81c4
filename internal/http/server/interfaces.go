package server

import (
	"context"
	"docproxy/internal/dto"
	"docproxy/internal/models"
	"io"
)

type LifecycleService interface {
	Fetch(ctx context.Context, docID string, workgroup string, user *models.User) (*models.DocumentView, error)
	Remove(ctx context.Context, docID string) error
	EditorPayload(ctx context.Context, docID string, user *models.User) (*dto.EditorConfig, error)
	OpenCached(ctx context.Context, docID string, key string) (io.ReadCloser, *models.DocumentView, error)
	SaveRevision(ctx context.Context, docID string, srcURL string) error
	HandleSave(ctx context.Context, docID string, srcURL string) error
	CanEdit(ctx context.Context, user *models.User, workgroup string) (bool, error)
}
