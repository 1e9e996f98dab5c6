package controller

import (
	"design-team-be/internal/dto"
	"design-team-be/internal/pkg/serverutils"
	"design-team-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStateController interface {
	RegisterRoutes(r fiber.Router)
	GetAppState(ctx *fiber.Ctx) error
	SetAppState(ctx *fiber.Ctx) error
	GetUserState(ctx *fiber.Ctx) error
	SetUserState(ctx *fiber.Ctx) error
}

type stateController struct {
	stateService service.IStateService
}

func NewStateController(stateService service.IStateService) IStateController {
	return &stateController{stateService: stateService}
}

func (c *stateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/state/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("app/:app", c.GetAppState)
	h.Put("app/:app", c.SetAppState)
	h.Get("user", c.GetUserState)
	h.Put("user", c.SetUserState)
}

func (c *stateController) GetAppState(ctx *fiber.Ctx) error {
	res, err := c.stateService.GetAppState(ctx.Context(), ctx.Params("app"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get app state", res))
}

func (c *stateController) SetAppState(ctx *fiber.Ctx) error {
	var req dto.SetStateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.stateService.SetAppState(ctx.Context(), ctx.Params("app"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success set app state", res))
}

func (c *stateController) GetUserState(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)

	res, err := c.stateService.GetUserState(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get user state", res))
}

func (c *stateController) SetUserState(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)

	var req dto.SetStateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.stateService.SetUserState(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success set user state", res))
}
