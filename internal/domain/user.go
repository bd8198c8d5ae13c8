package domain

// Role distinguishes the three kinds of accounts the backend issues.
type Role string

const (
	RoleClient  Role = "client"
	RoleAdmin   Role = "admin"
	RoleLivreur Role = "livreur"
)

// User is the authenticated identity held by the session store.
type User struct {
	ID   int64  `json:"id"`
	Nom  string `json:"nom,omitempty"`
	Role Role   `json:"role"`
}
