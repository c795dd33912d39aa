package models

// Role classifies a viewer for visibility decisions.
type Role string

const (
	// RoleManager sees and edits everything.
	RoleManager Role = "manager"
	// RolePersonal is a regular member of the workspace.
	RolePersonal Role = "personal"
)

// User identifies a viewer or creator of records.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
