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

// Config fetches the document into the local cache and returns the editing
// payload for it. Permission is re-checked on every call.
func Config(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, fetcher DocumentFetcher, builder PayloadBuilder, perms EditPermissionChecker) {
	op := pkg + "Config"

	log = log.With(slog.String("op", op))

	requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
	if !ok {
		log.Error("failed to get user from context")
		httperrors.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	workgroup := r.URL.Query().Get("workgroup")
	if workgroup == "" {
		log.Warn("missing workgroup param")
		httperrors.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	allowed, err := perms.CanEdit(ctx, requester, workgroup)
	if err != nil {
		log.Error("failed to check edit permission", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	if !allowed {
		log.Warn("user is not allowed to edit in workgroup",
			slog.String("user_id", requester.ID), slog.String("workgroup", workgroup))
		httperrors.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return
	}

	if _, err := fetcher.Fetch(ctx, docID, workgroup, requester); err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			log.Warn("document not found in remote storage", slog.String("doc_id", docID))
			httperrors.WriteJSONError(w, http.StatusNotFound, models.ErrDocumentNotFound.Error())
			return
		}
		log.Error("failed to fetch document", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	payload, err := builder.EditorPayload(ctx, docID, requester)
	if err != nil {
		log.Error("failed to build editor payload", slog.String("error", err.Error()))
		httperrors.WriteJSONError(w, http.StatusInternalServerError, models.ErrInternal.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
