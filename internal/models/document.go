package models

import (
	"path/filepath"
	"strings"
	"time"
)

type DocumentState string

const (
	StateDownloading DocumentState = "downloading"
	StateDownloaded  DocumentState = "downloaded"
	StateRemoved     DocumentState = "removed"
)

// DocumentRecord is the durable per-identifier state kept in the metadata
// store. Records are never deleted: removal is a state, so a key issued
// before a removal can always be proven stale against the stored one.
type DocumentRecord struct {
	ID               string        `json:"id"`
	State            DocumentState `json:"state"`
	AccessKey        string        `json:"access_key"`
	Name             string        `json:"name"`
	Size             int64         `json:"size"`
	Workgroup        string        `json:"workgroup"`
	RemoteCreatedAt  time.Time     `json:"remote_created_at"`
	RemoteModifiedAt time.Time     `json:"remote_modified_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// RemoteMetadata is the snapshot returned by the remote storage gateway.
type RemoteMetadata struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Workgroup  string    `json:"workgroup"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// DocumentView is the per-request projection handed to callers. Path is the
// local cache location and never leaves the process.
type DocumentView struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Size         int64         `json:"size"`
	Workgroup    string        `json:"workgroup"`
	State        DocumentState `json:"state"`
	AccessKey    string        `json:"-"`
	FileExt      string        `json:"file_ext"`
	DocumentType string        `json:"document_type"`
	DownloadURL  string        `json:"download_url,omitempty"`
	CallbackURL  string        `json:"callback_url,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	ModifiedAt   time.Time     `json:"modified_at"`

	Path string `json:"-"`
}

const (
	DocumentTypeWord  = "word"
	DocumentTypeCell  = "cell"
	DocumentTypeSlide = "slide"
)

var documentTypes = map[string]string{
	"doc": DocumentTypeWord, "docx": DocumentTypeWord, "odt": DocumentTypeWord,
	"rtf": DocumentTypeWord, "txt": DocumentTypeWord, "pdf": DocumentTypeWord,
	"xls": DocumentTypeCell, "xlsx": DocumentTypeCell, "ods": DocumentTypeCell,
	"csv": DocumentTypeCell,
	"ppt": DocumentTypeSlide, "pptx": DocumentTypeSlide, "odp": DocumentTypeSlide,
}

// FileExt returns the lower-cased extension without the leading dot, the
// form the editing service expects in fileType.
func FileExt(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// DocumentTypeOf classifies a file name into the editing service's
// word/cell/slide groups, defaulting to word.
func DocumentTypeOf(name string) string {
	if t, ok := documentTypes[FileExt(name)]; ok {
		return t
	}
	return DocumentTypeWord
}
