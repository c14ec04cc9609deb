package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/karatledger/internal/auth/domain"
	"github.com/smallbiznis/karatledger/internal/authorization"
	"github.com/smallbiznis/karatledger/internal/balance"
	"github.com/smallbiznis/karatledger/internal/fiscalyear"
	"github.com/smallbiznis/karatledger/internal/party"
	"github.com/smallbiznis/karatledger/internal/paymethod"
	"github.com/smallbiznis/karatledger/internal/reference"
	"github.com/smallbiznis/karatledger/internal/sequence"
	"github.com/smallbiznis/karatledger/pkg/amount"
	"github.com/smallbiznis/karatledger/pkg/dates"
	"github.com/smallbiznis/karatledger/pkg/db"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrTooManyRequests    = errors.New("too_many_requests")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

const (
	msgDuplicate       = "Duplicate field value entered"
	msgNotAuthorized   = "Not authorized to access this route"
	msgTooManyRequests = "Too many requests from this IP, please try again later."
	msgServerError     = "Server Error"
)

// messageError pins the status and text a handler wants for err while
// keeping err reachable through errors.Is.
type messageError struct {
	status  int
	message string
	err     error
}

func (e *messageError) Error() string { return e.message }
func (e *messageError) Unwrap() error { return e.err }

func withMessage(err error, status int, message string) error {
	return &messageError{status: status, message: message, err: err}
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		if status == http.StatusNotFound && payload.Error == "" {
			payload.Error = notFoundMessage(c)
		}
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// notFoundMessage names the entity of the route, falling back to a
// generic text on routes without one.
func notFoundMessage(c *gin.Context) string {
	name := c.GetString(contextEntityKey)
	id := strings.TrimSpace(c.Param("id"))
	if name == "" || id == "" {
		return "Resource not found"
	}
	return fmt.Sprintf("%s not found with id of %s", name, id)
}

// mapError returns the status and envelope for err. A 404 leaves Error
// empty so the caller can name the entity.
func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: msgServerError}
	}

	var mErr *messageError
	if errors.As(err, &mErr) {
		return mErr.status, errorResponse{Error: mErr.message}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorResponse{
			Error:  joinValidationMessages(vErr.Errors),
			Errors: vErr.Errors,
		}
	}

	switch {
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorResponse{Error: msgTooManyRequests}
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authorization.ErrInvalidActor),
		errors.Is(err, authdomain.ErrUserInactive),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorResponse{Error: msgNotAuthorized}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: msgNotAuthorized}
	case isDuplicateError(err):
		return http.StatusConflict, errorResponse{Error: msgDuplicate}
	case errors.Is(err, party.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "Party not found"}
	case isNotFoundError(err):
		return http.StatusNotFound, errorResponse{}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorResponse{Error: "Service unavailable"}
	}

	if msg, ok := businessRuleMessage(err); ok {
		return http.StatusBadRequest, errorResponse{Error: msg}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		ve := ValidationError{
			Field:   validationErrorField(code),
			Code:    code,
			Message: validationErrorMessage(code),
		}
		return http.StatusBadRequest, errorResponse{
			Error:  ve.Message,
			Errors: []ValidationError{ve},
		}
	}

	return http.StatusInternalServerError, errorResponse{Error: msgServerError}
}

// classifyErrorForLog feeds the request logger's error_type and
// error_code fields.
func classifyErrorForLog(err error) (string, string) {
	status, _ := mapError(err)
	code := validationErrorCode(err)
	if vErr := asValidationErrors(err); vErr != nil && len(vErr.Errors) > 0 {
		code = vErr.Errors[0].Code
	}
	switch {
	case status == http.StatusBadRequest:
		return "validation_error", code
	case status == http.StatusUnauthorized:
		return "unauthorized", code
	case status == http.StatusForbidden:
		return "forbidden", code
	case status == http.StatusNotFound:
		return "not_found", code
	case status == http.StatusConflict:
		return "conflict", code
	case status == http.StatusTooManyRequests:
		return "rate_limited", code
	default:
		return "internal_error", "internal_error"
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func errorsIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errorsIsAny(err,
			balance.ErrInvalidDirection,
			balance.ErrUnsupportedMetal,
			balance.ErrNegativeAmount,
			balance.ErrEmptyUpdate,
			paymethod.ErrInvalidMethod,
			party.ErrMissingName,
			reference.ErrInvalidDocumentKind,
			reference.ErrMissingDocumentID,
			reference.ErrInvalidPartyKind,
			reference.ErrMissingPartyID,
			fiscalyear.ErrInvalidLabel,
			amount.ErrInvalidDiscount,
			dates.ErrInvalidDate,
			sequence.ErrUnknownKind,
		):
		return true
	case isCustomerValidationError(err),
		isJobWorkerValidationError(err),
		isAgentValidationError(err),
		isItemValidationError(err),
		isStationValidationError(err),
		isRateBookValidationError(err),
		isLoanValidationError(err),
		isBillValidationError(err),
		isOrderValidationError(err),
		isPaymentValidationError(err),
		isTransactionValidationError(err),
		isAuditValidationError(err):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, authdomain.ErrUserNotFound):
		return true
	case isCustomerNotFound(err),
		isJobWorkerNotFound(err),
		isAgentNotFound(err),
		isItemNotFound(err),
		isStationNotFound(err),
		isRateBookNotFound(err),
		isLoanNotFound(err),
		isBillNotFound(err),
		isOrderNotFound(err),
		isPaymentNotFound(err),
		isTransactionNotFound(err):
		return true
	default:
		return false
	}
}

func isDuplicateError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		db.IsDuplicateKeyErr(err):
		return true
	case isCustomerDuplicate(err),
		isJobWorkerDuplicate(err),
		isAgentDuplicate(err),
		isItemDuplicate(err),
		isStationDuplicate(err),
		isLoanDuplicate(err),
		isBillDuplicate(err),
		isOrderDuplicate(err),
		isPaymentDuplicate(err):
		return true
	default:
		return false
	}
}

// businessRuleMessage covers the rule violations that carry their own
// wording instead of a field error.
func businessRuleMessage(err error) (string, bool) {
	for _, lookup := range []func(error) (string, bool){
		authRuleMessage,
		customerRuleMessage,
		itemRuleMessage,
		rateBookRuleMessage,
		loanRuleMessage,
		billRuleMessage,
		orderRuleMessage,
		transactionRuleMessage,
	} {
		if msg, ok := lookup(err); ok {
			return msg, true
		}
	}
	return "", false
}

func validationErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	switch {
	case code == "invalid_request":
		return "request"
	case strings.HasPrefix(code, "invalid_"):
		return strings.TrimPrefix(code, "invalid_")
	case strings.HasPrefix(code, "missing_"):
		return strings.TrimPrefix(code, "missing_")
	case strings.HasSuffix(code, "_required"):
		return strings.TrimSuffix(code, "_required")
	default:
		return ""
	}
}

func validationErrorMessage(code string) string {
	if code == "" {
		return "invalid value"
	}
	return strings.ReplaceAll(code, "_", " ")
}

func joinValidationMessages(errs []ValidationError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Message != "" {
			msgs = append(msgs, e.Message)
		}
	}
	if len(msgs) == 0 {
		return "validation error"
	}
	return strings.Join(msgs, ", ")
}
