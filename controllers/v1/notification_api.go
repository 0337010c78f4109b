package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"staff-tools-backend/controllers"
	notificationhandler "staff-tools-backend/lib/notification/handler"
	"staff-tools-backend/middleware"
	apimodels "staff-tools-backend/models/api"
)

type notificationApiController struct {
	controllers.BaseAPIController
}

func InitNotificationApiRouters(app *fiber.App) {
	controller := notificationApiController{}
	app.Route("notifications", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Put(":id/read", controller.markRead)
		router.Delete(":id", controller.dismiss)
	})
}

// @Summary Elenco notifiche
// @Tags Notifiche
// @Description Elenco notifiche in-app del chiamante
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]notificationapimodels.NotificationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications [get]
func (c *notificationApiController) list(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)

	list, err := notificationhandler.Instance.ListForUser(userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "notification listing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Notifica letta
// @Tags Notifiche
// @Description Marca una notifica come letta
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"notification id"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications/{id}/read [put]
func (c *notificationApiController) markRead(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := notificationhandler.Instance.MarkRead(actor, id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "notification update failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Eliminazione notifica
// @Tags Notifiche
// @Description Elimina una notifica del chiamante
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"notification id"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications/{id} [delete]
func (c *notificationApiController) dismiss(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := notificationhandler.Instance.Dismiss(actor, id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "notification removal failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
