package identity

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"eztestbot/clients"
	"eztestbot/models"
)

type IdentityService struct {
	domainClient clients.DomainClient
	roleMatrix   RoleMatrix
}

func NewIdentityService(domainClient clients.DomainClient, roleMatrix RoleMatrix) *IdentityService {
	return &IdentityService{
		domainClient: domainClient,
		roleMatrix:   roleMatrix,
	}
}

// ResolveIdentity maps an external chat identity onto an internal account.
// Exact match on primary email first, then on principal name; first match
// wins and there is no fuzzy fallback.
func (s *IdentityService) ResolveIdentity(
	ctx context.Context,
	identity models.ExternalIdentity,
) (mo.Option[*models.User], error) {
	log.Printf("📋 Starting to resolve identity: %s (%s)", identity.DisplayName, identity.ObjectID)

	if identity.Email != "" {
		maybeUser, err := s.domainClient.GetUserByEmail(ctx, identity.Email)
		if err != nil {
			return mo.None[*models.User](), fmt.Errorf("failed to look up user by email: %w", err)
		}
		if maybeUser.IsPresent() {
			user := maybeUser.MustGet()
			log.Printf("📋 Completed successfully - resolved identity by email to user: %s", user.ID)
			return mo.Some(user), nil
		}
	}

	if identity.PrincipalName != "" && identity.PrincipalName != identity.Email {
		maybeUser, err := s.domainClient.GetUserByPrincipalName(ctx, identity.PrincipalName)
		if err != nil {
			return mo.None[*models.User](), fmt.Errorf("failed to look up user by principal name: %w", err)
		}
		if maybeUser.IsPresent() {
			user := maybeUser.MustGet()
			log.Printf("📋 Completed successfully - resolved identity by principal name to user: %s", user.ID)
			return mo.Some(user), nil
		}
	}

	log.Printf("📋 Completed successfully - no internal account for identity: %s", identity.ObjectID)
	return mo.None[*models.User](), nil
}

// HasProjectAccess is true only when the user is a member of the project
// and, if a permission keyword is given, the member's role grants it.
func (s *IdentityService) HasProjectAccess(
	ctx context.Context,
	userID, projectID, permission string,
) (bool, error) {
	log.Printf("📋 Starting to check access for user %s on project %s (permission: %q)", userID, projectID, permission)

	maybeMember, err := s.domainClient.GetProjectMember(ctx, projectID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get project member: %w", err)
	}
	if !maybeMember.IsPresent() {
		log.Printf("📋 Completed successfully - user %s is not a member of project %s", userID, projectID)
		return false, nil
	}

	if permission == "" {
		log.Printf("📋 Completed successfully - user %s is a member of project %s", userID, projectID)
		return true, nil
	}

	member := maybeMember.MustGet()
	granted := s.roleMatrix.Grants(member.Role, permission)
	log.Printf("📋 Completed successfully - role %s grants %q: %t", member.Role, permission, granted)
	return granted, nil
}
