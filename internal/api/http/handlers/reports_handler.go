package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Geraldo-Morris/tvriapp/internal/api/dto"
	"github.com/Geraldo-Morris/tvriapp/internal/auth"
	"github.com/Geraldo-Morris/tvriapp/internal/domain"
	"github.com/Geraldo-Morris/tvriapp/internal/service"
	apperrors "github.com/Geraldo-Morris/tvriapp/pkg/util"
)

// ReportsHandler manages report endpoints for all roles.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Create POST /reports.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	report, err := h.service.CreateReport(c.Context(), principal.User, service.CreateReportInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    domain.Location{Floor: req.Floor, Room: req.Room},
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reportDetail(report)})
}

// List GET /reports. Visibility is derived from the caller's role.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	reports, err := h.service.ListReports(c.Context(), principal.User)
	if err != nil {
		return err
	}
	items := make([]dto.ReportSummary, 0, len(reports))
	for i := range reports {
		items = append(items, reportSummary(&reports[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /reports/:id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	report, err := h.service.GetReport(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportDetail(report)})
}

// History GET /reports/:id/history.
func (h *ReportsHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	history, err := h.service.GetHistory(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(history)})
}

// Transition POST /reports/:id/transition.
func (h *ReportsHandler) Transition(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewMissingInput("status")
	}

	report, err := h.service.Transition(c.Context(), principal.User, c.Params("id"), service.TransitionInput{
		Target:       req.Status,
		TechnicianID: req.TechnicianID,
		Comment:      req.Comment,
		Version:      req.Version,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportDetail(report)})
}

// ListTechnicians GET /technicians.
func (h *ReportsHandler) ListTechnicians(c *fiber.Ctx) error {
	technicians, err := h.service.ListTechnicians(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianResponse, 0, len(technicians))
	for _, t := range technicians {
		items = append(items, dto.TechnicianResponse{ID: t.ID, Name: t.Name, Email: t.Email})
	}
	return c.JSON(fiber.Map{"data": items})
}

func reportSummary(report *domain.Report) dto.ReportSummary {
	return dto.ReportSummary{
		ID:             report.ID,
		Title:          report.Title,
		Category:       report.Category,
		Floor:          report.Location.Floor,
		Room:           report.Location.Room,
		ReporterName:   report.ReporterName,
		Status:         report.Status,
		TechnicianName: report.TechnicianName,
		Version:        report.Version,
		CreatedAt:      report.CreatedAt,
		UpdatedAt:      report.UpdatedAt,
	}
}

func reportDetail(report *domain.Report) dto.ReportDetailResponse {
	return dto.ReportDetailResponse{
		ID:             report.ID,
		Title:          report.Title,
		Description:    report.Description,
		Category:       report.Category,
		Floor:          report.Location.Floor,
		Room:           report.Location.Room,
		ReportedBy:     report.ReportedBy,
		ReporterName:   report.ReporterName,
		Status:         report.Status,
		AssignedTo:     report.AssignedTo,
		TechnicianName: report.TechnicianName,
		Version:        report.Version,
		CreatedAt:      report.CreatedAt,
		UpdatedAt:      report.UpdatedAt,
		AssignedAt:     report.AssignedAt,
		ResolvedAt:     report.ResolvedAt,
		UnresolvedAt:   report.UnresolvedAt,
		History:        historyResponses(report.History),
	}
}

func historyResponses(entries []domain.HistoryEntry) []dto.HistoryEntryResponse {
	resp := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.HistoryEntryResponse{
			Status:        entry.Status,
			Action:        entry.Action,
			Comment:       entry.Comment,
			UpdatedBy:     entry.UpdatedBy,
			UpdatedByName: entry.UpdatedByName,
			Timestamp:     entry.Timestamp,
		})
	}
	return resp
}
