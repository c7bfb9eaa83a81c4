package lifecycleservice

import (
	"context"
	"docproxy/internal/models"
	"io"
)

type RecordRepository interface {
	RecordByID(ctx context.Context, id string) (*models.DocumentRecord, error)
	UpsertRecord(ctx context.Context, rec *models.DocumentRecord) error
	SetState(ctx context.Context, id string, state models.DocumentState, accessKey string) error
}

type FileStorage interface {
	SaveFile(id string, reader io.Reader) error
	LoadFile(id string) (io.ReadCloser, error)
	DeleteFile(id string) error
	FileExists(id string) bool
	FilePath(id string) string
}

type RemoteStorage interface {
	GetMetadata(ctx context.Context, workgroup string, id string) (*models.RemoteMetadata, error)
	DownloadBytes(ctx context.Context, workgroup string, id string) (io.ReadCloser, error)
	CreateFromURL(ctx context.Context, workgroup string, srcURL string, fileName string, parent string) error
}

type PermissionChecker interface {
	CanEdit(ctx context.Context, user *models.User, workgroup string) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
}

type TokenSigner interface {
	Sign(payload map[string]any) (string, error)
}
