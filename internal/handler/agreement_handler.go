package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pitchvault/internal/domain"
	"pitchvault/internal/middleware"
	"pitchvault/internal/service/agreement"
)

type AgreementHandler struct {
	agreementService agreement.Service
}

func NewAgreementHandler(agreementService agreement.Service) *AgreementHandler {
	return &AgreementHandler{agreementService: agreementService}
}

func (h *AgreementHandler) Create(c *fiber.Ctx) error {
	actor, err := middleware.GetActor(c)
	if err != nil {
		return err
	}

	var input domain.CreateAgreementInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.PitchID == uuid.Nil {
		return middleware.BadRequest("pitch_id is required")
	}

	a, err := h.agreementService.Create(c.Context(), actor, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(a)
}

func (h *AgreementHandler) Get(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid agreement ID")
	}

	a, err := h.agreementService.GetByID(c.Context(), actorID, id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(a)
}

func (h *AgreementHandler) List(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	query := domain.AgreementQuery{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		Urgency:   c.Query("urgency"),
		SortBy:    domain.SortKey(c.Query("sort_by")),
		SortOrder: domain.SortOrder(c.Query("sort_order")),
	}

	result, err := h.agreementService.List(c.Context(), actorID, query, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AgreementHandler) CanRequest(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	pitchID, err := uuid.Parse(c.Params("pitchId"))
	if err != nil {
		return middleware.BadRequest("Invalid pitch ID")
	}

	eligibility, err := h.agreementService.CanRequest(c.Context(), actorID, pitchID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(eligibility)
}

func (h *AgreementHandler) Approve(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid agreement ID")
	}

	var input domain.ApproveAgreementInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	a, err := h.agreementService.Approve(c.Context(), id, actorID, input, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(a)
}

func (h *AgreementHandler) Reject(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid agreement ID")
	}

	var input domain.RejectAgreementInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	a, err := h.agreementService.Reject(c.Context(), id, actorID, input, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(a)
}

func (h *AgreementHandler) Revoke(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid agreement ID")
	}

	var input domain.RevokeAgreementInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	a, err := h.agreementService.Revoke(c.Context(), id, actorID, input, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(a)
}

func (h *AgreementHandler) Sign(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid agreement ID")
	}

	var input domain.SignAgreementInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	a, err := h.agreementService.Sign(c.Context(), id, actorID, input, requestMeta(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(a)
}

func (h *AgreementHandler) BulkApprove(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	var input domain.BulkApproveInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.agreementService.BulkApprove(c.Context(), actorID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AgreementHandler) BulkReject(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	var input domain.BulkRejectInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.agreementService.BulkReject(c.Context(), actorID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *AgreementHandler) AuditTrail(c *fiber.Ctx) error {
	actorID, err := middleware.GetActorID(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid agreement ID")
	}

	result, err := h.agreementService.AuditTrail(c.Context(), actorID, id, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func requestMeta(c *fiber.Ctx) *agreement.RequestMeta {
	return &agreement.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		params.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size")); err == nil && pageSize > 0 && pageSize <= 100 {
		params.PageSize = pageSize
	}
	return params
}
