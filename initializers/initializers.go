package initializers

import (
	"context"

	"staff-tools-backend/config"
	"staff-tools-backend/fiberlog"
	docstorage "staff-tools-backend/lib/doc-storage"
	xlsexport "staff-tools-backend/lib/export/xls"
	notificationhandler "staff-tools-backend/lib/notification/handler"
	notificationsettingshandler "staff-tools-backend/lib/notification/settings-handler"
	"staff-tools-backend/lib/rbac"
	requesthandler "staff-tools-backend/lib/request"
	requesthistoryhandler "staff-tools-backend/lib/request-history"
	connectionhub "staff-tools-backend/lib/ws/hub/connection-hub"
	s3client "staff-tools-backend/s3"
)

var LoggerConfig *fiberlog.Config

// InitAllServices wires the singleton handlers in dependency order: the
// notification dispatcher needs the hub, the lifecycle engine needs the
// dispatcher and the document gateway.
func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	connectionhub.Init()
	docstorage.NewHandler(s3client.NewClient(s3client.Client))
	requesthistoryhandler.NewHandler()
	notificationsettingshandler.NewHandler()
	notificationhandler.NewHandler()
	xlsexport.NewHandler()
	requesthandler.NewHandler()
	rbac.NewHandler()
}
