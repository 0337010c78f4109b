package models

type RbacFunc func(userID string, role UserRole, path string) bool

type Module string

const (
	RequestModule      Module = "REQUEST"
	AttachmentModule   Module = "ATTACHMENT"
	NotificationModule Module = "NOTIFICATION"
	SettingsModule     Module = "SETTINGS"
	ExportModule       Module = "EXPORT"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	ViewPermission   Permission = "VIEW"
	FlowPermission   Permission = "FLOW"
	FilesPermission  Permission = "FILES"
	ManagePermission Permission = "MANAGE"
)
