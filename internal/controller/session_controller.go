package controller

import (
	"design-team-be/internal/dto"
	"design-team-be/internal/pkg/serverutils"
	"design-team-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Resume(ctx *fiber.Ctx) error
	Run(ctx *fiber.Ctx) error
	Signal(ctx *fiber.Ctx) error
	Pause(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Document(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService   service.ISessionService
	sequencerService service.ISequencerService
}

func NewSessionController(sessionService service.ISessionService, sequencerService service.ISequencerService) ISessionController {
	return &sessionController{
		sessionService:   sessionService,
		sequencerService: sequencerService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workflow/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("session", c.Create)
	h.Get("session", c.GetAll)
	h.Get("session/:id", c.Resume)
	h.Post("session/:id/run", c.Run)
	h.Post("session/:id/signal", c.Signal)
	h.Post("session/:id/pause", c.Pause)
	h.Post("session/:id/close", c.Close)
	h.Get("session/:id/events", c.History)
	h.Get("session/:id/document", c.Document)
	h.Get("session/:id/status", c.Status)
}

func requestUser(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

func sessionIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	return id, nil
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.UserId = userId

	res, err := c.sessionService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) GetAll(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)

	res, err := c.sessionService.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Resume(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Resume(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success resume session", res))
}

func (c *sessionController) Run(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sequencerService.RunStage(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success run stage", res))
}

func (c *sessionController) Signal(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SignalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.SessionId = id

	res, err := c.sequencerService.Signal(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success signal gate", res))
}

func (c *sessionController) Pause(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Pause(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success pause session", res))
}

func (c *sessionController) Close(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CloseSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.Id = id

	res, err := c.sessionService.Close(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success close session", res))
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	req := dto.SessionHistoryRequest{
		Id:      id,
		FromSeq: int64(ctx.QueryInt("from_seq", 0)),
	}

	res, err := c.sessionService.History(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list events", res))
}

func (c *sessionController) Document(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sequencerService.Document(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success assemble document", res))
}

func (c *sessionController) Status(ctx *fiber.Ctx) error {
	userId := requestUser(ctx)
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.sequencerService.Status(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get status", res))
}
