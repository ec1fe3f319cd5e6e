package models

// User is a person recorded as the creator of documents.
type User struct {
	UserID string `db:"user_id"`
	Name   string `db:"name"`
	Email  string `db:"email"`
	AuditFields
}
