package docs

import (
	"context"
	"docproxy/internal/dto"
	"docproxy/internal/models"
	httperrors "docproxy/internal/utils/http_errors"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Callback handles the editing service's status reports. A save-and-close
// uploads the revision and invalidates the cached copy; a plain close just
// invalidates; a force-save uploads without invalidating.
func Callback(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, saver SaveHandler, remover DocumentRemover) {
	op := pkg + "Callback"

	log = log.With(slog.String("op", op), slog.String("doc_id", docID))

	var req dto.CallbackRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode callback body", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	var err error

	switch req.Status {
	case dto.CallbackStatusSave:
		if req.URL == "" {
			log.Warn("save callback without revision url")
			httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		err = saver.HandleSave(ctx, docID, req.URL)
	case dto.CallbackStatusForceSave:
		if req.URL == "" {
			log.Warn("force-save callback without revision url")
			httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
			return
		}
		err = saver.SaveRevision(ctx, docID, req.URL)
	case dto.CallbackStatusClosed:
		err = remover.Remove(ctx, docID)
	case dto.CallbackStatusEditing, dto.CallbackStatusSaveError:
		// nothing to do, acknowledge
	default:
		log.Warn("unknown callback status", slog.Int("status", req.Status))
	}

	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			log.Warn("callback for unknown document")
			httperrors.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
			return
		}
		log.Error("failed to process callback", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]int{"error": 0}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
