package lifecycleservice

import (
	"context"
	"docproxy/internal/dto"
	"docproxy/internal/models"
	"docproxy/internal/utils/keylock"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	uuid "github.com/satori/go.uuid"
	"golang.org/x/sync/singleflight"
)

const pkg = "lifecycleService/"

const (
	EventDocumentDownloaded     = "document-downloaded"
	EventDocumentDownloadFailed = "document-download-failed"
)

// Config is the explicit configuration the service needs; nothing is read
// from ambient globals.
type Config struct {
	// PublicBaseURL is the address the editing service can reach us on; it
	// is the base for download and callback URLs in the editing payload.
	PublicBaseURL string
	// RotateOnRedownload rotates the access key on every fetch instead of
	// only on removal. With it off, a re-download of an unchanged document
	// keeps previously issued editor payloads valid.
	RotateOnRedownload bool
	SigningEnabled     bool
}

type LifecycleService struct {
	log     *slog.Logger
	cfg     Config
	records RecordRepository
	files   FileStorage
	remote  RemoteStorage
	perms   PermissionChecker
	bus     EventPublisher
	signer  TokenSigner

	locks *keylock.KeyLock
	group singleflight.Group
}

func New(
	log *slog.Logger,
	cfg Config,
	records RecordRepository,
	files FileStorage,
	remote RemoteStorage,
	perms PermissionChecker,
	bus EventPublisher,
	signer TokenSigner,
) *LifecycleService {
	return &LifecycleService{
		log:     log,
		cfg:     cfg,
		records: records,
		files:   files,
		remote:  remote,
		perms:   perms,
		bus:     bus,
		signer:  signer,
		locks:   keylock.New(),
	}
}

// Fetch downloads the document into the local cache and records it as
// downloaded. The record is written last: bytes and refreshed metadata must
// both be in place before the state says so, and the success notification is
// the terminal step. Concurrent fetches of one identifier are collapsed into
// a single download.
func (s *LifecycleService) Fetch(ctx context.Context, docID string, workgroup string, user *models.User) (*models.DocumentView, error) {
	res, err, _ := s.group.Do(docID, func() (any, error) {
		return s.fetch(ctx, docID, workgroup)
	})
	if err != nil {
		return nil, err
	}

	return res.(*models.DocumentView), nil
}

func (s *LifecycleService) fetch(ctx context.Context, docID string, workgroup string) (*models.DocumentView, error) {
	op := pkg + "fetch"

	log := s.log.With(slog.String("op", op), slog.String("doc_id", docID))

	s.locks.Lock(docID)
	defer s.locks.Unlock(docID)

	log.Debug("attempting to fetch document", slog.String("workgroup", workgroup))

	rec, err := s.records.RecordByID(ctx, docID)
	if err != nil {
		if !errors.Is(err, models.ErrRecordNotFound) {
			log.Error("failed to load record", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}
		rec = nil
	}

	key := newAccessKey()
	if rec != nil && !s.cfg.RotateOnRedownload {
		key = rec.AccessKey
	}

	rec = &models.DocumentRecord{
		ID:        docID,
		State:     models.StateDownloading,
		AccessKey: key,
		Workgroup: workgroup,
		UpdatedAt: time.Now(),
	}

	if err := s.records.UpsertRecord(ctx, rec); err != nil {
		log.Error("failed to mark record downloading", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	meta, err := s.remote.GetMetadata(ctx, workgroup, docID)
	if err != nil {
		s.rollback(ctx, log, rec, err)
		if errors.Is(err, models.ErrDocumentNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	content, err := s.remote.DownloadBytes(ctx, workgroup, docID)
	if err != nil {
		s.rollback(ctx, log, s.applyMetadata(rec, meta), err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	saveErr := s.files.SaveFile(docID, content)
	_ = content.Close()
	if saveErr != nil {
		s.rollback(ctx, log, s.applyMetadata(rec, meta), saveErr)
		return nil, fmt.Errorf("%s: %w", op, saveErr)
	}

	rec = s.applyMetadata(rec, meta)
	rec.State = models.StateDownloaded
	rec.UpdatedAt = time.Now()

	if err := s.records.UpsertRecord(ctx, rec); err != nil {
		s.rollback(ctx, log, rec, err)
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	view := s.buildView(rec)

	if err := s.bus.Publish(ctx, EventDocumentDownloaded, view); err != nil {
		log.Error("failed to publish downloaded event", slog.String("error", err.Error()))
	}

	log.Debug("document fetched successfully", slog.String("name", rec.Name))

	return view, nil
}

// rollback is the compensating sequence after a failed fetch: the record goes
// to removed with a rotated key first, then any partial bytes are deleted,
// then the failure is published. If the state write itself fails the record
// stays parked in downloading with no bytes behind it and no retry path under
// the same identifier; this gap is known and deliberately not papered over.
func (s *LifecycleService) rollback(ctx context.Context, log *slog.Logger, rec *models.DocumentRecord, cause error) {
	if err := s.records.SetState(ctx, rec.ID, models.StateRemoved, newAccessKey()); err != nil {
		log.Error("failed to mark record removed after fetch failure",
			slog.String("error", err.Error()),
			slog.String("cause", cause.Error()))
	}

	if err := s.files.DeleteFile(rec.ID); err != nil && !errors.Is(err, models.ErrNotCached) {
		log.Error("failed to delete partial cached file", slog.String("error", err.Error()))
	}

	failed := struct {
		Document *models.DocumentView `json:"document"`
		Error    string               `json:"error"`
	}{
		Document: s.buildView(rec),
		Error:    cause.Error(),
	}

	if err := s.bus.Publish(ctx, EventDocumentDownloadFailed, failed); err != nil {
		log.Error("failed to publish download-failed event", slog.String("error", err.Error()))
	}
}

// IsDownloaded reports whether the document is usable: the cached file must
// exist and the record must say downloaded. The two are written by separate
// operations, so neither alone is sufficient.
func (s *LifecycleService) IsDownloaded(ctx context.Context, docID string) (bool, error) {
	op := pkg + "IsDownloaded"

	rec, err := s.records.RecordByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return rec.State == models.StateDownloaded && s.files.FileExists(docID), nil
}

// Remove invalidates the document: the access key is rotated and recorded
// durably before the cached bytes are deleted, so a crash between the two
// steps leaves the key already rotated and only the file deletion pending.
func (s *LifecycleService) Remove(ctx context.Context, docID string) error {
	op := pkg + "Remove"

	log := s.log.With(slog.String("op", op), slog.String("doc_id", docID))

	s.locks.Lock(docID)
	defer s.locks.Unlock(docID)

	log.Debug("attempting to remove document")

	if err := s.records.SetState(ctx, docID, models.StateRemoved, newAccessKey()); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			log.Warn("no record to remove")
			return fmt.Errorf("%s: %w", op, models.ErrRecordNotFound)
		}
		log.Error("failed to mark record removed", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := s.files.DeleteFile(docID); err != nil && !errors.Is(err, models.ErrNotCached) {
		log.Error("failed to delete cached file", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	log.Debug("document removed successfully")

	return nil
}

// EditorPayload builds the structure handed to the editing service. The
// access key is read from the record here, at construction time, so a payload
// can never embed a key that a completed rotation has superseded.
func (s *LifecycleService) EditorPayload(ctx context.Context, docID string, user *models.User) (*dto.EditorConfig, error) {
	op := pkg + "EditorPayload"

	log := s.log.With(slog.String("op", op), slog.String("doc_id", docID))

	rec, err := s.records.RecordByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrRecordNotFound)
		}
		log.Error("failed to load record", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if rec.State != models.StateDownloaded || !s.files.FileExists(docID) {
		log.Warn("payload requested for non-downloaded document", slog.String("state", string(rec.State)))
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotDownloaded)
	}

	view := s.buildView(rec)

	payload := &dto.EditorConfig{
		Document: dto.EditorDocument{
			FileType: view.FileExt,
			Title:    view.Name,
			URL:      view.DownloadURL,
			Key:      rec.AccessKey,
		},
		DocumentType: view.DocumentType,
		EditorConfig: dto.EditorSettings{
			User: dto.EditorUser{
				ID:   user.ID,
				Name: user.Name,
			},
			CallbackURL:   view.CallbackURL,
			Customization: dto.Customization{Forcesave: true},
		},
	}

	if s.cfg.SigningEnabled {
		claims, err := payloadClaims(payload)
		if err != nil {
			log.Error("failed to build signing claims", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}

		token, err := s.signer.Sign(claims)
		if err != nil {
			log.Error("failed to sign editor payload", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
		}
		payload.Token = token
	}

	return payload, nil
}

// payloadClaims flattens the payload into the claim set the token is
// computed over, so the signature covers exactly what is sent.
func payloadClaims(payload *dto.EditorConfig) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var claims map[string]any
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// OpenCached hands out the cached bytes iff the presented key matches the
// record's current key and the document is usable.
func (s *LifecycleService) OpenCached(ctx context.Context, docID string, key string) (io.ReadCloser, *models.DocumentView, error) {
	op := pkg + "OpenCached"

	log := s.log.With(slog.String("op", op), slog.String("doc_id", docID))

	rec, err := s.records.RecordByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, models.ErrRecordNotFound)
		}
		log.Error("failed to load record", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if key == "" || rec.AccessKey != key {
		log.Warn("access key mismatch")
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrKeyMismatch)
	}

	if rec.State != models.StateDownloaded {
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrNotDownloaded)
	}

	file, err := s.files.LoadFile(docID)
	if err != nil {
		if errors.Is(err, models.ErrNotCached) {
			return nil, nil, fmt.Errorf("%s: %w", op, models.ErrNotCached)
		}
		log.Error("failed to open cached file", slog.String("error", err.Error()))
		return nil, nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return file, s.buildView(rec), nil
}

// SaveRevision uploads an edited revision from the editing service's URL to
// the remote store without invalidating the local copy (force-save keeps the
// editing session open).
func (s *LifecycleService) SaveRevision(ctx context.Context, docID string, srcURL string) error {
	op := pkg + "SaveRevision"

	log := s.log.With(slog.String("op", op), slog.String("doc_id", docID))

	rec, err := s.records.RecordByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return fmt.Errorf("%s: %w", op, models.ErrRecordNotFound)
		}
		log.Error("failed to load record", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := s.remote.CreateFromURL(ctx, rec.Workgroup, srcURL, rec.Name, ""); err != nil {
		log.Error("failed to upload revision to remote storage", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("revision uploaded successfully")

	return nil
}

// HandleSave processes a save-and-close: the new revision goes to the remote
// store, then the local copy is invalidated so the old key can never serve
// the superseded bytes.
func (s *LifecycleService) HandleSave(ctx context.Context, docID string, srcURL string) error {
	op := pkg + "HandleSave"

	if err := s.SaveRevision(ctx, docID, srcURL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.Remove(ctx, docID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CanEdit delegates to the permission gateway. The result is never cached;
// gateway failures are propagated, not swallowed.
func (s *LifecycleService) CanEdit(ctx context.Context, user *models.User, workgroup string) (bool, error) {
	op := pkg + "CanEdit"

	allowed, err := s.perms.CanEdit(ctx, user, workgroup)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return allowed, nil
}

func (s *LifecycleService) applyMetadata(rec *models.DocumentRecord, meta *models.RemoteMetadata) *models.DocumentRecord {
	rec.Name = meta.Name
	rec.Size = meta.Size
	if meta.Workgroup != "" {
		rec.Workgroup = meta.Workgroup
	}
	rec.RemoteCreatedAt = meta.CreatedAt
	rec.RemoteModifiedAt = meta.ModifiedAt
	return rec
}

func (s *LifecycleService) buildView(rec *models.DocumentRecord) *models.DocumentView {
	view := &models.DocumentView{
		ID:           rec.ID,
		Name:         rec.Name,
		Size:         rec.Size,
		Workgroup:    rec.Workgroup,
		State:        rec.State,
		AccessKey:    rec.AccessKey,
		FileExt:      models.FileExt(rec.Name),
		DocumentType: models.DocumentTypeOf(rec.Name),
		CreatedAt:    rec.RemoteCreatedAt,
		ModifiedAt:   rec.RemoteModifiedAt,
		Path:         s.files.FilePath(rec.ID),
	}

	if rec.State == models.StateDownloaded {
		view.DownloadURL = fmt.Sprintf("%s/api/docs/%s/download?key=%s", s.cfg.PublicBaseURL, rec.ID, rec.AccessKey)
		view.CallbackURL = fmt.Sprintf("%s/api/docs/%s/callback", s.cfg.PublicBaseURL, rec.ID)
	}

	return view
}

func newAccessKey() string {
	return uuid.NewV4().String()
}
