package models

// Client represents a row of the clients table.
type Client struct {
	ClientID string `db:"client_id"`
	Name     string `db:"name"`
	Company  string `db:"company"`
	Email    string `db:"email"`
	Phone    string `db:"phone"`
	Address  string `db:"address"`
	AuditFields
}
