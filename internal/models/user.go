package models

type contextKey string

const UserContextKey contextKey = "user"

// User is the editing identity passed through to the permission gateway and
// embedded into the editing-service payload. The proxy keeps no accounts.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
