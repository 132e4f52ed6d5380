package services

import (
	"fmt"
	"net/http"
)

// Error codes carried by ServiceError.
const (
	CodeWeekendOrder       = "WEEKEND_ORDER"
	CodeMenuNotFound       = "MENU_NOT_FOUND"
	CodeMenuInactive       = "MENU_INACTIVE"
	CodeDateOutOfRange     = "DATE_OUT_OF_RANGE"
	CodeRestaurantClosed   = "RESTAURANT_CLOSED"
	CodeDuplicateOrderDate = "DUPLICATE_ORDER_DATE"
	CodeItemInvalid        = "ITEM_INVALID"
	CodeEmptyOrder         = "EMPTY_ORDER"
	CodeOrderNotFound      = "ORDER_NOT_FOUND"
	CodeNotPending         = "NOT_PENDING"
	CodeAlreadyTerminal    = "ALREADY_TERMINAL"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeInvalidRange       = "INVALID_RANGE"
	CodePastStart          = "PAST_START"
	CodeOverlappingMenu    = "OVERLAPPING_MENU"
	CodeInvalidWeekday     = "INVALID_WEEKDAY"
	CodeRestaurantNotFound = "RESTAURANT_NOT_FOUND"
	CodeMenuItemNotFound   = "MENU_ITEM_NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeNoOrders           = "NO_ORDERS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

var codeStatus = map[string]int{
	CodeWeekendOrder:       http.StatusBadRequest,
	CodeMenuNotFound:       http.StatusNotFound,
	CodeMenuInactive:       http.StatusBadRequest,
	CodeDateOutOfRange:     http.StatusBadRequest,
	CodeRestaurantClosed:   http.StatusBadRequest,
	CodeDuplicateOrderDate: http.StatusConflict,
	CodeItemInvalid:        http.StatusBadRequest,
	CodeEmptyOrder:         http.StatusBadRequest,
	CodeOrderNotFound:      http.StatusNotFound,
	CodeNotPending:         http.StatusConflict,
	CodeAlreadyTerminal:    http.StatusConflict,
	CodeInvalidStatus:      http.StatusBadRequest,
	CodeInvalidRange:       http.StatusBadRequest,
	CodePastStart:          http.StatusBadRequest,
	CodeOverlappingMenu:    http.StatusConflict,
	CodeInvalidWeekday:     http.StatusBadRequest,
	CodeRestaurantNotFound: http.StatusNotFound,
	CodeMenuItemNotFound:   http.StatusNotFound,
	CodeUserNotFound:       http.StatusNotFound,
	CodeDuplicateEmail:     http.StatusConflict,
	CodeNoOrders:           http.StatusBadRequest,
	CodeValidation:         http.StatusBadRequest,
	CodeInternal:           http.StatusInternalServerError,
}

// ServiceError represents a typed error with an HTTP status code and a domain code.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func newError(code, message string) *ServiceError {
	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &ServiceError{StatusCode: status, Code: code, Message: message}
}

func newErrorf(code, format string, args ...interface{}) *ServiceError {
	return newError(code, fmt.Sprintf(format, args...))
}

func internalError(message string) *ServiceError {
	return newError(CodeInternal, message)
}
