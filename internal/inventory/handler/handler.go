package handler

import (
	"errors"

	"github.com/bitfantasy/labstock/internal/inventory/repository"
	"github.com/bitfantasy/labstock/internal/inventory/service"
	"github.com/gin-gonic/gin"
)

// Handlers is the aggregate of all route handlers.
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Item        *ItemHandler
	Withdrawal  *WithdrawalHandler
	Dashboard   *DashboardHandler
	Export      *ExportHandler
	EmailConfig *EmailConfigHandler
}

func NewHandlers(svc *service.Services, repos *repository.Repositories) *Handlers {
	return &Handlers{
		Auth:        NewAuthHandler(svc.Auth),
		User:        NewUserHandler(svc.User),
		Item:        NewItemHandler(svc.Item),
		Withdrawal:  NewWithdrawalHandler(svc.Withdrawal),
		Dashboard:   NewDashboardHandler(svc.Dashboard),
		Export:      NewExportHandler(svc.Export),
		EmailConfig: NewEmailConfigHandler(repos.EmailConfig),
	}
}

// Response is the common envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an envelope whose HTTP status is the leading three
// digits of the application code.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// fail maps domain errors onto the envelope. Unrecognized errors become
// a 500 without leaking internals.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "Record not found")
	case errors.Is(err, repository.ErrInsufficientStock),
		errors.Is(err, repository.ErrAlreadyProcessed),
		errors.Is(err, service.ErrEmployeeNumberTaken),
		errors.Is(err, service.ErrSelfDelete),
		errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidExportFilter):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrNoItemsMatchedFilter):
		NotFound(c, err.Error())
	default:
		InternalError(c, "Internal server error")
	}
}
