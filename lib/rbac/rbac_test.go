package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"

	"staff-tools-backend/models"
)

func TestRbac(t *testing.T) {
	t.Run(`pathToRegex check`, func(t *testing.T) {
		path, method, err := parseSwaggerPattern("/api/v1/requests/{id}/transition [put]")
		require.Nil(t, err)
		require.Equal(t, PUT, method)
		r1 := pathToRegex(path)

		validUri := "/api/v1/requests/123-321/transition"
		isMatch := r1.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri := "/api/v1/requests/transition"
		isMatch = r1.MatchString(invalidUri)
		require.Equal(t, false, isMatch)

		path, method, err = parseSwaggerPattern("/api/v1/requests/{id}/attachments/{attachmentId}/url [get]")
		require.Nil(t, err)
		require.Equal(t, GET, method)
		r2 := pathToRegex(path)

		validUri = "/api/v1/requests/123-321/attachments/qwe-ewr123-wr-12/url"
		isMatch = r2.MatchString(validUri)
		require.Equal(t, true, isMatch)

		invalidUri = "/api/v1/requests/we-ewr123-wr-12/attachments/url"
		isMatch = r2.MatchString(invalidUri)
		require.Equal(t, false, isMatch)
	})

	t.Run(`registered rules gate by role check`, func(t *testing.T) {
		NewHandler()

		handler, found := Instance.GetRuleFunc("GET", "/api/v1/requests/export")
		require.True(t, found)
		require.True(t, handler("u-adm", models.AdminRole, "/api/v1/requests/export"))
		require.False(t, handler("u-rev", models.ReviewerRole, "/api/v1/requests/export"))
		require.False(t, handler("u-col", models.CollaboratorRole, "/api/v1/requests/export"))

		handler, found = Instance.GetRuleFunc("PUT", "/api/v1/requests/abc-123/transition")
		require.True(t, found)
		require.True(t, handler("u-col", models.CollaboratorRole, "/api/v1/requests/abc-123/transition"))

		handler, found = Instance.GetRuleFunc("PUT", "/api/v1/notifications/settings")
		require.True(t, found)
		require.True(t, handler("u-adm", models.AdminRole, "/api/v1/notifications/settings"))
		require.False(t, handler("u-col", models.CollaboratorRole, "/api/v1/notifications/settings"))
	})

	t.Run(`permission matrix is filled per role check`, func(t *testing.T) {
		NewHandler()

		adminPermissions := Instance.GetPermissions(models.AdminRole)
		require.Contains(t, adminPermissions[models.ExportModule], models.ViewPermission)
		require.Contains(t, adminPermissions[models.SettingsModule], models.ManagePermission)

		collaboratorPermissions := Instance.GetPermissions(models.CollaboratorRole)
		require.Contains(t, collaboratorPermissions[models.RequestModule], models.CreatePermission)
		require.NotContains(t, collaboratorPermissions[models.SettingsModule], models.ManagePermission)
	})
}
