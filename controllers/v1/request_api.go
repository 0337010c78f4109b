package apiv1

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"staff-tools-backend/controllers"
	requesthandler "staff-tools-backend/lib/request"
	"staff-tools-backend/middleware"
	apimodels "staff-tools-backend/models/api"
	requestapimodels "staff-tools-backend/models/api/request"
)

type requestApiController struct {
	controllers.BaseAPIController
}

func InitRequestApiRouters(app *fiber.App) {
	controller := requestApiController{}
	app.Route("requests", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("list", controller.list)
		router.Get("export", controller.export)
		router.Get(":id", controller.getByID)
		router.Put(":id/transition", controller.transition)
		router.Post(":id/attachments", controller.addAttachment)
		router.Get(":id/attachments/:attachmentId/url", controller.getAttachmentURL)
	})
}

// @Summary Creazione richiesta
// @Tags Richieste
// @Description Creazione richiesta (compenso, rimborso spese o ticket)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		requestapimodels.RequestCreateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests [post]
func (c *requestApiController) create(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	var payload requestapimodels.RequestCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	id, err := requesthandler.Instance.Create(ctx.Context(), actor, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "request creation failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Elenco richieste
// @Tags Richieste
// @Description Elenco richieste visibili al chiamante
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body				body		requestapimodels.RequestFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/list [post]
func (c *requestApiController) list(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	var payload requestapimodels.RequestFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	list, rowCount, err := requesthandler.Instance.List(actor, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "request listing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Dettaglio richiesta
// @Tags Richieste
// @Description Dettaglio richiesta con allegati e cronologia
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"request id"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestDetailView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id} [get]
func (c *requestApiController) getByID(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	view, err := requesthandler.Instance.GetByID(actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "request lookup failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Avanzamento richiesta
// @Tags Richieste
// @Description Applica una transizione di stato alla richiesta
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"request id"
// @Param	body				body		requestapimodels.TransitionData	true	"request body"
// @Success 200 {object} apimodels.Response{data=requestapimodels.RequestView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/transition [put]
func (c *requestApiController) transition(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload requestapimodels.TransitionData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	view, err := requesthandler.Instance.ApplyTransition(ctx.Context(), actor, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "request transition failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Caricamento allegato
// @Tags Richieste
// @Description Carica un allegato sulla richiesta, ammesso solo nella finestra di modifica
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"request id"
// @Param	body				body		requestapimodels.AttachmentData	true	"request body"
// @Success 200 {object} apimodels.Response{data=requestapimodels.AttachmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/attachments [post]
func (c *requestApiController) addAttachment(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload requestapimodels.AttachmentData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	view, err := requesthandler.Instance.AddAttachment(ctx.Context(), actor, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "attachment upload failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Link di scaricamento allegato
// @Tags Richieste
// @Description Rilascia un link firmato temporaneo per l'allegato
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id					path		string	true	"request id"
// @Param   attachmentId		path		string	true	"attachment id"
// @Success 200 {object} apimodels.Response{data=requestapimodels.AttachmentURLView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/{id}/attachments/{attachmentId}/url [get]
func (c *requestApiController) getAttachmentURL(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	attachmentID := ctx.Params("attachmentId")
	if attachmentID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("attachmentId is required"))
	}

	view, err := requesthandler.Instance.GetAttachmentURLs(ctx.Context(), actor, id, attachmentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "attachment link issuing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Esportazione registro richieste
// @Tags Richieste
// @Description Esporta il registro richieste in formato xlsx, solo amministrazione
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {file} file
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/requests/export [get]
func (c *requestApiController) export(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)

	data, err := requesthandler.Instance.Export(actor)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "register export failed")
	}
	fileName := fmt.Sprintf("richieste-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
