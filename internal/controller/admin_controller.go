package controller

import (
	"design-team-be/internal/dto"
	"design-team-be/internal/pkg/serverutils"
	"design-team-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Info(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	DeleteUserData(ctx *fiber.Ctx) error
	Cleanup(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
}

func NewAdminController(adminService service.IAdminService) IAdminController {
	return &adminController{adminService: adminService}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.AdminMiddleware)
	h.Get("info", c.Info)
	h.Delete("session/:id", c.DeleteSession)
	h.Delete("user/:user_id", c.DeleteUserData)
	h.Post("cleanup", c.Cleanup)
}

func (c *adminController) Info(ctx *fiber.Ctx) error {
	res, err := c.adminService.Info(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get store info", res))
}

func (c *adminController) DeleteSession(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.adminService.DeleteSession(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete session", res))
}

func (c *adminController) DeleteUserData(ctx *fiber.Ctx) error {
	userId, err := uuid.Parse(ctx.Params("user_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	res, err := c.adminService.DeleteUserData(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete user data", res))
}

func (c *adminController) Cleanup(ctx *fiber.Ctx) error {
	var req dto.CleanupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.adminService.Cleanup(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success cleanup stale sessions", res))
}
