package identity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"eztestbot/models"
)

// RoleMatrix maps a project role onto its effective permission set
type RoleMatrix map[models.ProjectRole][]string

const defaultRoleMatrixYAML = `
ADMIN:
  - project.admin
  - testcase.create
  - testcase.read
  - defect.create
TESTER:
  - testcase.create
  - testcase.read
  - defect.create
VIEWER:
  - testcase.read
`

// DefaultRoleMatrix returns the built-in role-to-permission mapping
func DefaultRoleMatrix() RoleMatrix {
	matrix, err := parseRoleMatrix([]byte(defaultRoleMatrixYAML))
	if err != nil {
		// the built-in matrix is a compile-time constant
		panic("invalid built-in role matrix: " + err.Error())
	}
	return matrix
}

// LoadRoleMatrix reads a role-to-permission mapping from a YAML file,
// e.g. to grant a custom role set per deployment
func LoadRoleMatrix(path string) (RoleMatrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read role matrix file: %w", err)
	}
	return parseRoleMatrix(data)
}

func parseRoleMatrix(data []byte) (RoleMatrix, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse role matrix: %w", err)
	}

	matrix := make(RoleMatrix, len(raw))
	for role, permissions := range raw {
		matrix[models.ProjectRole(role)] = permissions
	}
	return matrix, nil
}

// Grants reports whether a role's effective permission set contains the
// given permission keyword
func (m RoleMatrix) Grants(role models.ProjectRole, permission string) bool {
	for _, p := range m[role] {
		if p == permission {
			return true
		}
	}
	return false
}
