package dto

// EditorConfig is the payload handed to the editing service. Key carries the
// document's current access key; Token is attached only when signing is
// enabled.
type EditorConfig struct {
	Document     EditorDocument `json:"document"`
	DocumentType string         `json:"documentType"`
	EditorConfig EditorSettings `json:"editorConfig"`
	Token        string         `json:"token,omitempty"`
}

type EditorDocument struct {
	FileType string `json:"fileType"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Key      string `json:"key"`
}

type EditorSettings struct {
	User          EditorUser    `json:"user"`
	CallbackURL   string        `json:"callbackUrl"`
	Customization Customization `json:"customization"`
}

type EditorUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Customization struct {
	Forcesave bool `json:"forcesave"`
}

// CallbackRequest is what the editing service posts back on status changes.
type CallbackRequest struct {
	Key    string `json:"key"`
	Status int    `json:"status"`
	URL    string `json:"url,omitempty"`
}

// Editing-service callback status codes.
const (
	CallbackStatusEditing   = 1
	CallbackStatusSave      = 2
	CallbackStatusSaveError = 3
	CallbackStatusClosed    = 4
	CallbackStatusForceSave = 6
)
