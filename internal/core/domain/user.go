package domain

// User is the person recorded as a document's creator. Users are owned by the identity
// collaborator; the core only looks them up.
type User struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	AuditFields
}
