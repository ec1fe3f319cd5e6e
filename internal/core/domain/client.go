package domain

// Client is the customer a quote or invoice is addressed to.
type Client struct {
	ClientID string `json:"clientID"`
	Name     string `json:"name"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	AuditFields
}
