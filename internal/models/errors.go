package models

import "errors"

var (
	ErrInternal         = errors.New("internal server error")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrForbidden        = errors.New("access denied")
	ErrInvalidParams    = errors.New("invalid params")
	ErrDocumentNotFound = errors.New("document not found in remote storage")
	ErrRecordNotFound   = errors.New("document record not found")
	ErrNotCached        = errors.New("document is not cached locally")
	ErrNotDownloaded    = errors.New("document is not in downloaded state")
	ErrKeyMismatch      = errors.New("access key does not match")
)
