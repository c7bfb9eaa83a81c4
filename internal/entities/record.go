package entities

import "time"

type DocumentRecord struct {
	ID               string    `db:"id"`
	State            string    `db:"state"`
	AccessKey        string    `db:"access_key"`
	Name             string    `db:"name"`
	Size             int64     `db:"size"`
	Workgroup        string    `db:"workgroup"`
	RemoteCreatedAt  time.Time `db:"remote_created_at"`
	RemoteModifiedAt time.Time `db:"remote_modified_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
