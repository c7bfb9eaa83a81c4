package storage

import "io"

type FileRepository interface {
	SaveFile(id string, reader io.Reader) error
	LoadFile(id string) (io.ReadCloser, error)
	DeleteFile(id string) error
	FileExists(id string) bool
	FilePath(id string) string
}
