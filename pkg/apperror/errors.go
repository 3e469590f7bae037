package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same error code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Class returns the taxonomy prefix of the code (VAL, AUTH, STATE, MATH, FUND, VENUE, RATE, SYS).
func (e *AppError) Class() string {
	if i := strings.IndexByte(e.Code, '_'); i > 0 {
		return e.Code[:i]
	}
	return e.Code
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ---- Validation (VAL) ----

// Validation returns a generic VAL_000 validation error.
func Validation(message string) *AppError {
	return New("VAL_000", message, http.StatusBadRequest)
}

func ErrInvalidDepositAmount() *AppError {
	return New("VAL_001", "Deposit amount must be greater than zero", http.StatusBadRequest)
}

func ErrInvalidWithdrawAmount() *AppError {
	return New("VAL_002", "Withdraw amount must be greater than zero", http.StatusBadRequest)
}

func ErrPlanIDTooLong() *AppError {
	return New("VAL_003", "Plan ID exceeds 32 characters", http.StatusBadRequest)
}

func ErrPlanNameTooLong() *AppError {
	return New("VAL_004", "Plan name exceeds 64 characters", http.StatusBadRequest)
}

func ErrInvalidFeeAmount() *AppError {
	return New("VAL_005", "Fee amount must be greater than zero", http.StatusBadRequest)
}

func ErrInvalidInterval() *AppError {
	return New("VAL_006", "Payment interval must be greater than zero", http.StatusBadRequest)
}

func ErrSessionTokenTooLong() *AppError {
	return New("VAL_007", "Session token exceeds 64 characters", http.StatusBadRequest)
}

func ErrSessionTokenRequired() *AppError {
	return New("VAL_008", "Session token is required", http.StatusBadRequest)
}

func ErrFeeTooHigh() *AppError {
	return New("VAL_009", "Protocol fee exceeds 1000 basis points", http.StatusBadRequest)
}

func ErrInvalidBufferRatio() *AppError {
	return New("VAL_010", "Target buffer ratio exceeds 5000 basis points", http.StatusBadRequest)
}

func ErrInvalidShareAmount() *AppError {
	return New("VAL_011", "Invalid share amount", http.StatusBadRequest)
}

func ErrYieldAmountTooSmall() *AppError {
	return New("VAL_012", "Amount too small after buffer allocation", http.StatusBadRequest)
}

func ErrInvalidCurrency() *AppError {
	return New("VAL_013", "Invalid currency", http.StatusBadRequest)
}

func ErrInvalidPrincipal() *AppError {
	return New("VAL_014", "Invalid principal", http.StatusBadRequest)
}

// ---- Authorization (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrUnauthorizedWalletAccess() *AppError {
	return New("AUTH_002", "Caller does not own this wallet", http.StatusForbidden)
}

func ErrUnauthorizedProtocolUpdate() *AppError {
	return New("AUTH_003", "Caller is not the protocol authority", http.StatusForbidden)
}

func ErrUnauthorizedCancellation() *AppError {
	return New("AUTH_004", "Caller is not the subscriber", http.StatusForbidden)
}

func ErrUnauthorizedPlanUpdate() *AppError {
	return New("AUTH_005", "Caller is not the plan merchant", http.StatusForbidden)
}

// ---- State preconditions (STATE) ----

func ErrNotFound(entity string) *AppError {
	return New("STATE_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrAlreadyExists(entity string) *AppError {
	return New("STATE_002", fmt.Sprintf("%s already exists", entity), http.StatusConflict)
}

func ErrSubscriptionInactive() *AppError {
	return New("STATE_003", "Subscription is not active", http.StatusUnprocessableEntity)
}

func ErrPaymentTooEarly() *AppError {
	return New("STATE_004", "Payment interval has not elapsed", http.StatusUnprocessableEntity)
}

func ErrPlanInactive() *AppError {
	return New("STATE_005", "Merchant plan is not active", http.StatusUnprocessableEntity)
}

func ErrInvalidMerchantPlan() *AppError {
	return New("STATE_006", "Merchant plan does not match subscription", http.StatusUnprocessableEntity)
}

func ErrSessionTokenAlreadyUsed() *AppError {
	return New("STATE_007", "Session token has already been used", http.StatusConflict)
}

func ErrYieldAlreadyEnabled() *AppError {
	return New("STATE_008", "Yield is already enabled for this wallet", http.StatusConflict)
}

func ErrYieldNotEnabled() *AppError {
	return New("STATE_009", "Yield is not enabled for this wallet", http.StatusUnprocessableEntity)
}

func ErrNoSharesToRedeem() *AppError {
	return New("STATE_010", "No shares to redeem", http.StatusUnprocessableEntity)
}

func ErrEmergencyModeEnabled() *AppError {
	return New("STATE_011", "Vault is in emergency mode", http.StatusConflict)
}

func ErrProtocolNotInitialized() *AppError {
	return New("STATE_012", "Protocol is not initialized", http.StatusConflict)
}

// ---- Arithmetic (MATH) ----

func ErrMathOverflow(err error) *AppError {
	return Wrap("MATH_001", "Arithmetic overflow", http.StatusUnprocessableEntity, err)
}

// ---- Insufficient resources (FUND) ----

func ErrInsufficientWalletBalance() *AppError {
	return New("FUND_001", "Wallet balance does not cover the 3-period commitment", http.StatusPaymentRequired)
}

func ErrInsufficientFunds() *AppError {
	return New("FUND_002", "Insufficient funds", http.StatusPaymentRequired)
}

func ErrInsufficientShares() *AppError {
	return New("FUND_003", "Insufficient shares", http.StatusUnprocessableEntity)
}

func ErrInsufficientAvailableBalance() *AppError {
	return New("FUND_004", "Amount exceeds withdrawable balance", http.StatusUnprocessableEntity)
}

func ErrInsufficientLiquidity() *AppError {
	return New("FUND_005", "Vault buffer cannot cover redemption", http.StatusServiceUnavailable)
}

// ---- Venue call-outs (VENUE) ----

func ErrVenueDepositFailed(err error) *AppError {
	return Wrap("VENUE_001", "Yield venue deposit failed", http.StatusBadGateway, err)
}

func ErrVenueWithdrawFailed(err error) *AppError {
	return Wrap("VENUE_002", "Yield venue withdraw failed", http.StatusBadGateway, err)
}

func ErrVenueQueryFailed(err error) *AppError {
	return Wrap("VENUE_003", "Yield venue valuation failed", http.StatusBadGateway, err)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
