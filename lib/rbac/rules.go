package rbac

import (
	"staff-tools-backend/models"
)

var (
	AdminRoleSet         = []models.UserRole{models.AdminRole}
	AdminReviewerRoleSet = []models.UserRole{models.AdminRole, models.ReviewerRole}
	AllRoles             = []models.UserRole{models.AdminRole, models.ReviewerRole, models.CollaboratorRole}
)

func (i *impl) initRules() {
	i.addRequestRbac()
	i.addNotificationRbac()
	i.addSettingsRbac()
	i.addExportRbac()
}

func (i *impl) addRequestRbac() {
	// VIEW
	i.RegisterRule(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/requests/list [post]", nil)
	i.RegisterRule(models.RequestModule, models.ViewPermission, AllRoles, "/api/v1/requests/{id} [get]", nil)
	// CREATE
	i.RegisterRule(models.RequestModule, models.CreatePermission, AllRoles, "/api/v1/requests [post]", nil)
	// FLOW: the edge table inside the engine decides, every role may knock
	i.RegisterRule(models.RequestModule, models.FlowPermission, AllRoles, "/api/v1/requests/{id}/transition [put]", nil)
	// FILES
	i.RegisterRule(models.AttachmentModule, models.FilesPermission, AllRoles, "/api/v1/requests/{id}/attachments [post]", nil)
	i.RegisterRule(models.AttachmentModule, models.ViewPermission, AllRoles, "/api/v1/requests/{id}/attachments/{attachmentId}/url [get]", nil)
}

func (i *impl) addNotificationRbac() {
	i.RegisterRule(models.NotificationModule, models.ViewPermission, AllRoles, "/api/v1/notifications [get]", nil)
	i.RegisterRule(models.NotificationModule, models.ManagePermission, AllRoles, "/api/v1/notifications/{id}/read [put]", nil)
	i.RegisterRule(models.NotificationModule, models.ManagePermission, AllRoles, "/api/v1/notifications/{id} [delete]", nil)
}

func (i *impl) addSettingsRbac() {
	i.RegisterRule(models.SettingsModule, models.ViewPermission, AdminRoleSet, "/api/v1/notifications/settings [get]", nil)
	i.RegisterRule(models.SettingsModule, models.ManagePermission, AdminRoleSet, "/api/v1/notifications/settings [put]", nil)
}

func (i *impl) addExportRbac() {
	i.RegisterRule(models.ExportModule, models.ViewPermission, AdminRoleSet, "/api/v1/requests/export [get]", nil)
}
