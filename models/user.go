package models

// ExternalIdentity is the chat platform's representation of a user.
// Transient input only - never persisted.
type ExternalIdentity struct {
	ObjectID      string `json:"object_id"`
	Email         string `json:"email"`
	PrincipalName string `json:"principal_name"`
	DisplayName   string `json:"display_name"`
}

// User is an internal account owned by the external domain service
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	PrincipalName string `json:"principal_name"`
	Name          string `json:"name"`
}

// ProjectRole is a user's role within one project
type ProjectRole string

const (
	ProjectRoleAdmin  ProjectRole = "ADMIN"
	ProjectRoleTester ProjectRole = "TESTER"
	ProjectRoleViewer ProjectRole = "VIEWER"
)

// ProjectMember is a user's membership record within one project
type ProjectMember struct {
	UserID    string      `json:"user_id"`
	ProjectID string      `json:"project_id"`
	Role      ProjectRole `json:"role"`
}
