package identity_test

import (
	"context"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eztestbot/clients/domain"
	"eztestbot/models"
	"eztestbot/services/identity"
)

var testIdentity = models.ExternalIdentity{
	ObjectID:      "aad-obj-1",
	Email:         "tester@example.com",
	PrincipalName: "tester@corp.example.com",
	DisplayName:   "Test Er",
}

func TestIdentityService_ResolveIdentity(t *testing.T) {
	t.Run("resolves by primary email first", func(t *testing.T) {
		mockDomain := &domain.MockDomainClient{}
		user := &models.User{ID: "u-1", Email: testIdentity.Email}
		mockDomain.On("GetUserByEmail", mock.Anything, testIdentity.Email).
			Return(mo.Some(user), nil)

		service := identity.NewIdentityService(mockDomain, identity.DefaultRoleMatrix())

		resolved, err := service.ResolveIdentity(context.Background(), testIdentity)
		require.NoError(t, err)
		require.True(t, resolved.IsPresent())
		assert.Equal(t, "u-1", resolved.MustGet().ID)

		// first match wins - principal name lookup never happens
		mockDomain.AssertNotCalled(t, "GetUserByPrincipalName", mock.Anything, mock.Anything)
	})

	t.Run("falls back to principal name on email miss", func(t *testing.T) {
		mockDomain := &domain.MockDomainClient{}
		user := &models.User{ID: "u-2", PrincipalName: testIdentity.PrincipalName}
		mockDomain.On("GetUserByEmail", mock.Anything, testIdentity.Email).
			Return(mo.None[*models.User](), nil)
		mockDomain.On("GetUserByPrincipalName", mock.Anything, testIdentity.PrincipalName).
			Return(mo.Some(user), nil)

		service := identity.NewIdentityService(mockDomain, identity.DefaultRoleMatrix())

		resolved, err := service.ResolveIdentity(context.Background(), testIdentity)
		require.NoError(t, err)
		require.True(t, resolved.IsPresent())
		assert.Equal(t, "u-2", resolved.MustGet().ID)
	})

	t.Run("no match on either field is absent, not an error", func(t *testing.T) {
		mockDomain := &domain.MockDomainClient{}
		mockDomain.On("GetUserByEmail", mock.Anything, mock.Anything).
			Return(mo.None[*models.User](), nil)
		mockDomain.On("GetUserByPrincipalName", mock.Anything, mock.Anything).
			Return(mo.None[*models.User](), nil)

		service := identity.NewIdentityService(mockDomain, identity.DefaultRoleMatrix())

		resolved, err := service.ResolveIdentity(context.Background(), testIdentity)
		require.NoError(t, err)
		assert.False(t, resolved.IsPresent())
	})

	t.Run("skips duplicate principal name lookup when it equals the email", func(t *testing.T) {
		mockDomain := &domain.MockDomainClient{}
		mockDomain.On("GetUserByEmail", mock.Anything, "same@example.com").
			Return(mo.None[*models.User](), nil)

		service := identity.NewIdentityService(mockDomain, identity.DefaultRoleMatrix())

		slackStyle := models.ExternalIdentity{
			ObjectID:      "U123",
			Email:         "same@example.com",
			PrincipalName: "same@example.com",
		}
		resolved, err := service.ResolveIdentity(context.Background(), slackStyle)
		require.NoError(t, err)
		assert.False(t, resolved.IsPresent())
		mockDomain.AssertNotCalled(t, "GetUserByPrincipalName", mock.Anything, mock.Anything)
	})
}

func TestIdentityService_HasProjectAccess(t *testing.T) {
	member := &models.ProjectMember{UserID: "u-1", ProjectID: "p-1", Role: models.ProjectRoleTester}

	t.Run("member with granting role has access", func(t *testing.T) {
		mockDomain := &domain.MockDomainClient{}
		mockDomain.On("GetProjectMember", mock.Anything, "p-1", "u-1").
			Return(mo.Some(member), nil)

		service := identity.NewIdentityService(mockDomain, identity.DefaultRoleMatrix())

		ok, err := service.HasProjectAccess(context.Background(), "u-1", "p-1", models.PermissionTestCaseCreate)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("member without the permission is denied", func(t *testing.T) {
		viewer := &models.ProjectMember{UserID: "u-1", ProjectID: "p-1", Role: models.ProjectRoleViewer}
		mockDomain := &domain.MockDomainClient{}
		mockDomain.On("GetProjectMember", mock.Anything, "p-1", "u-1").
			Return(mo.Some(viewer), nil)

		service := identity.NewIdentityService(mockDomain, identity.DefaultRoleMatrix())

		ok, err := service.HasProjectAccess(context.Background(), "u-1", "p-1", models.PermissionDefectCreate)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("non-member is denied regardless of permission", func(t *testing.T) {
		mockDomain := &domain.MockDomainClient{}
		mockDomain.On("GetProjectMember", mock.Anything, "p-1", "u-9").
			Return(mo.None[*models.ProjectMember](), nil)

		service := identity.NewIdentityService(mockDomain, identity.DefaultRoleMatrix())

		ok, err := service.HasProjectAccess(context.Background(), "u-9", "p-1", "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("membership alone is enough when no permission keyword is given", func(t *testing.T) {
		mockDomain := &domain.MockDomainClient{}
		mockDomain.On("GetProjectMember", mock.Anything, "p-1", "u-1").
			Return(mo.Some(member), nil)

		service := identity.NewIdentityService(mockDomain, identity.DefaultRoleMatrix())

		ok, err := service.HasProjectAccess(context.Background(), "u-1", "p-1", "")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestRoleMatrix(t *testing.T) {
	matrix := identity.DefaultRoleMatrix()

	assert.True(t, matrix.Grants(models.ProjectRoleAdmin, models.PermissionProjectAdmin))
	assert.True(t, matrix.Grants(models.ProjectRoleTester, models.PermissionDefectCreate))
	assert.False(t, matrix.Grants(models.ProjectRoleTester, models.PermissionProjectAdmin))
	assert.False(t, matrix.Grants(models.ProjectRoleViewer, models.PermissionTestCaseCreate))
	assert.False(t, matrix.Grants(models.ProjectRole("UNKNOWN"), models.PermissionTestCaseRead))
}
