package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"staff-tools-backend/controllers"
	notificationsettingshandler "staff-tools-backend/lib/notification/settings-handler"
	apimodels "staff-tools-backend/models/api"
	notificationapimodels "staff-tools-backend/models/api/notification"
)

type notificationSettingsApiController struct {
	controllers.BaseAPIController
}

func InitNotificationSettingsApiRouters(app *fiber.App) {
	controller := notificationSettingsApiController{}
	app.Route("notifications/settings", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Put("", controller.toggle)
	})
}

// @Summary Matrice impostazioni notifiche
// @Tags Impostazioni notifiche
// @Description Matrice completa (evento, ruolo) delle impostazioni di notifica
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]notificationapimodels.SettingView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications/settings [get]
func (c *notificationSettingsApiController) list(ctx *fiber.Ctx) error {
	list, err := notificationsettingshandler.Instance.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "notification settings listing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Aggiornamento impostazione notifiche
// @Tags Impostazioni notifiche
// @Description Abilita o disabilita un canale per la coppia (evento, ruolo)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		notificationapimodels.SettingData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications/settings [put]
func (c *notificationSettingsApiController) toggle(ctx *fiber.Ctx) error {
	var payload notificationapimodels.SettingData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := notificationsettingshandler.Instance.Toggle(payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "notification setting update failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
