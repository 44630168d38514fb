package http

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrportal/expense-service/internal/apperror"
	"github.com/hrportal/expense-service/internal/application/port"
	"github.com/hrportal/expense-service/internal/application/service"
	"github.com/hrportal/expense-service/internal/domain/expense"
)

const maxReceiptSize = 10 << 20 // 10 MiB

// Handlers contains all HTTP request handlers
type Handlers struct {
	claimService    service.ClaimService
	approvalService service.ApprovalService
	paymentService  service.PaymentService
	queryService    service.QueryService
	employeeService service.EmployeeService
	receiptStore    port.ReceiptStore
	logger          Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	claimService service.ClaimService,
	approvalService service.ApprovalService,
	paymentService service.PaymentService,
	queryService service.QueryService,
	employeeService service.EmployeeService,
	receiptStore port.ReceiptStore,
	logger Logger,
) *Handlers {
	return &Handlers{
		claimService:    claimService,
		approvalService: approvalService,
		paymentService:  paymentService,
		queryService:    queryService,
		employeeService: employeeService,
		receiptStore:    receiptStore,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// UpdateStatusRequest is the body of PATCH /api/expenses/:id/status
type UpdateStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}

// PayCombinedRequest is the body of POST /api/expenses/pay-combined
type PayCombinedRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// ListExpensesRequest represents query parameters for listing expenses
type ListExpensesRequest struct {
	Status              string `form:"status"`
	ReimbursementPeriod string `form:"period"`
	EmployeeID          int64  `form:"employee_id"`
	EmployeeEmail       string `form:"employee_email"`
	Page                int    `form:"page"`
	Limit               int    `form:"limit"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// CreateExpense handles POST /api/expenses
func (h *Handlers) CreateExpense(c *gin.Context) {
	var input service.CreateClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Error("Invalid claim payload", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	exp, err := h.claimService.CreateClaim(c.Request.Context(), currentActor(c), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    exp,
	})
}

// ListExpenses handles GET /api/expenses
func (h *Handlers) ListExpenses(c *gin.Context) {
	var req ListExpensesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	page, err := h.queryService.ListExpenses(c.Request.Context(), currentActor(c), service.QueryParams{
		Status:              req.Status,
		ReimbursementPeriod: req.ReimbursementPeriod,
		EmployeeID:          req.EmployeeID,
		EmployeeEmail:       req.EmployeeEmail,
		Page:                req.Page,
		Limit:               req.Limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    page.Expenses,
		Meta:    page.Meta,
	})
}

// GetExpense handles GET /api/expenses/:id
func (h *Handlers) GetExpense(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	exp, err := h.queryService.GetExpense(c.Request.Context(), currentActor(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    exp,
	})
}

// UpdateExpenseStatus handles PATCH /api/expenses/:id/status
func (h *Handlers) UpdateExpenseStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid status payload", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	exp, err := h.approvalService.UpdateStatus(c.Request.Context(), currentActor(c), id,
		expense.Status(req.Status), req.RejectionReason)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    exp,
	})
}

// PaySeparate handles PATCH /api/expenses/:id/pay-separate
func (h *Handlers) PaySeparate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	exp, err := h.paymentService.PaySeparate(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    exp,
	})
}

// PayCombined handles POST /api/expenses/pay-combined
func (h *Handlers) PayCombined(c *gin.Context) {
	var req PayCombinedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid pay-combined payload", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	result, err := h.paymentService.PayCombined(c.Request.Context(), req.IDs)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// UploadReceipt handles POST /api/receipts (multipart form, field "file")
func (h *Handlers) UploadReceipt(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "missing receipt file",
		})
		return
	}
	if fileHeader.Size > maxReceiptSize {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "receipt file too large",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, apperror.Internal("failed to read receipt upload", err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		h.respondError(c, apperror.Internal("failed to read receipt upload", err))
		return
	}

	saved, err := h.receiptStore.Save(c.Request.Context(), fileHeader.Filename, content)
	if err != nil {
		h.respondError(c, apperror.Internal("failed to store receipt", err))
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    saved,
	})
}

// CreateEmployee handles POST /api/employees
func (h *Handlers) CreateEmployee(c *gin.Context) {
	var input service.CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Error("Invalid employee payload", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	emp, err := h.employeeService.CreateEmployee(c.Request.Context(), currentActor(c), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    emp,
	})
}

// pathID parses the :id path parameter, responding 400 on garbage
func (h *Handlers) pathID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid expense id",
		})
		return 0, false
	}
	return id, true
}

// respondError maps application error kinds to HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		status = http.StatusBadRequest
	case apperror.KindAuthorization:
		status = http.StatusForbidden
	case apperror.KindConflict:
		status = http.StatusConflict
	case apperror.KindNotFound:
		status = http.StatusNotFound
	default:
		h.logger.Error("Request failed", "error", err)
		message = "internal server error"
	}

	c.JSON(status, Response{
		Success: false,
		Error:   message,
	})
}
