package docs

import (
	"context"
	"docproxy/internal/models"
	httperrors "docproxy/internal/utils/http_errors"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Delete invalidates the cached document explicitly: the access key is
// rotated and the bytes are deleted.
func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, remover DocumentRemover) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	if err := remover.Remove(ctx, docID); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			log.Warn("delete of unknown document", slog.String("doc_id", docID))
			httperrors.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
			return
		}
		log.Error("failed to remove document", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "removed"}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
