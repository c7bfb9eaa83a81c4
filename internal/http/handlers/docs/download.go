package docs

import (
	"context"
	"docproxy/internal/models"
	httperrors "docproxy/internal/utils/http_errors"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Download serves the cached bytes to the editing service. The presented key
// must match the record's current key; a rotated-away key gets 403.
func Download(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, opener CachedFileOpener) {
	op := pkg + "Download"

	log = log.With(slog.String("op", op))

	key := r.URL.Query().Get("key")

	file, view, err := opener.OpenCached(ctx, docID, key)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrKeyMismatch):
			log.Warn("download with stale or invalid key", slog.String("doc_id", docID))
			httperrors.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		case errors.Is(err, models.ErrRecordNotFound), errors.Is(err, models.ErrNotCached), errors.Is(err, models.ErrNotDownloaded):
			log.Warn("download of unusable document", slog.String("doc_id", docID), slog.String("error", err.Error()))
			httperrors.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
		default:
			log.Error("failed to open cached document", slog.String("error", err.Error()))
			httperrors.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		}
		return
	}
	defer file.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", view.Name))
	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, file); err != nil {
		log.Error("failed to write file response", slog.String("error", err.Error()))
	}
}
