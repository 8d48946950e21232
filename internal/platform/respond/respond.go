// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Envelope
//
// Every response, success or failure, uses the same JSON shape:
//
//	{"status": 200, "data": {...}, "message": "...", "success": true}
//	{"status": 404, "data": null, "message": "...", "success": false, "errors": []}
//
// Clients branch on "success" and never need to inspect the status line.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/vidtube/internal/platform/apperr"
	"github.com/taibuivan/vidtube/internal/platform/ctxutil"
)

// Envelope is the JSON body of a successful response.
type Envelope struct {
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ErrorEnvelope is the JSON body of a failed response.
type ErrorEnvelope struct {
	Status  int                 `json:"status"`
	Data    any                 `json:"data"`
	Message string              `json:"message"`
	Success bool                `json:"success"`
	Errors  []apperr.FieldError `json:"errors"`
}

// JSON writes payload with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// Success writes a success envelope with an explicit status.
func Success(writer http.ResponseWriter, statusCode int, data any, message string) {
	JSON(writer, statusCode, Envelope{
		Status:  statusCode,
		Data:    data,
		Message: message,
		Success: true,
	})
}

// OK writes a 200 success envelope.
func OK(writer http.ResponseWriter, data any, message string) {
	Success(writer, http.StatusOK, data, message)
}

// Created writes a 201 success envelope.
func Created(writer http.ResponseWriter, data any, message string) {
	Success(writer, http.StatusCreated, data, message)
}

// Failure writes a failure envelope. The errors array is never null.
func Failure(writer http.ResponseWriter, statusCode int, message string, details []apperr.FieldError) {
	if details == nil {
		details = []apperr.FieldError{}
	}
	JSON(writer, statusCode, ErrorEnvelope{
		Status:  statusCode,
		Data:    nil,
		Message: message,
		Success: false,
		Errors:  details,
	})
}

// Error converts any Go error into a failure envelope.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	var appError *apperr.AppError
	if !errors.As(err, &appError) && errors.Is(err, context.DeadlineExceeded) {
		appError = apperr.Timeout(err)
	}
	if appError == nil {
		// Unexpected error: log full details but hide them from the client.
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= 500 {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	Failure(writer, appError.HTTPStatus, appError.Message, appError.Details)
}
