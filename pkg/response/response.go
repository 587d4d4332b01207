package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the wire format for every failed request: a human-readable
// error message plus an optional machine-readable code (used by the frontend
// to distinguish auth failures).
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AppError is a structured application error carrying the HTTP status and
// optional machine code it should be rendered with.
type AppError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

// WithCode returns a copy of the error with a machine-readable code attached.
func (e *AppError) WithCode(code string) *AppError {
	return &AppError{HTTPStatus: e.HTTPStatus, Code: code, Message: e.Message}
}

// Pre-defined error constructors

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Message: msg}
}

func NewServerError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Message: msg}
}

// --- Gin response helpers ---

// OK sends a 200 response with the given body.
func OK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

// Created sends a 201 response with the given body.
func Created(c *gin.Context, body interface{}) {
	c.JSON(http.StatusCreated, body)
}

// Error renders err. An *AppError keeps its status and code; anything else
// becomes a generic 500 so unexpected failures never leak internals.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorBody{Error: appErr.Message, Code: appErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: "internal server error"})
}

// Convenience error responses

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Error: msg})
}

func Unauthorized(c *gin.Context, msg, code string) {
	c.JSON(http.StatusUnauthorized, ErrorBody{Error: msg, Code: code})
}

func Forbidden(c *gin.Context, msg, code string) {
	c.JSON(http.StatusForbidden, ErrorBody{Error: msg, Code: code})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, ErrorBody{Error: msg})
}

func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, ErrorBody{Error: msg})
}
