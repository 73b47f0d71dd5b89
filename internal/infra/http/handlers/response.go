package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/usecase"
)

const (
	codeInvalidJSON = "INVALID_JSON"
	codeRateLimited = "RATE_LIMITED"
)

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeError maps use case errors onto the response envelope. Technical
// errors are logged with their cause and reported without it.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeJSON(w, statusFor(de.Code), ErrorResponse{Error: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		logger.Error("❌ request failed", zap.String("code", te.Code), zap.Error(err))
		writeErrorResponse(w, statusFor(te.Code), te.Code, te.Message)
		return
	}

	if errors.Is(err, entity.ErrNotFound) {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNotFound, err.Error())
		return
	}

	logger.Error("❌ unexpected error", zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func statusFor(code string) int {
	switch code {
	case codeInvalidJSON, usecase.CodeValidation, usecase.CodeInvalidField:
		return http.StatusBadRequest
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeSyncInProgress:
		return http.StatusConflict
	case codeRateLimited:
		return http.StatusTooManyRequests
	case usecase.CodeUpstream:
		return http.StatusBadGateway
	case usecase.CodeQueue:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the body into dst, answering 400 INVALID_JSON on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, codeInvalidJSON, "invalid JSON body")
		return false
	}
	return true
}

// queryTime reads an optional timestamp or date query parameter.
func queryTime(r *http.Request, key string) (*time.Time, error) {
	t, _, err := parseQueryTime(r, key)
	return t, err
}

func parseQueryTime(r *http.Request, key string) (*time.Time, bool, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, false, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, false, nil
	}
	d, err := entity.ParseDate(v)
	if err != nil {
		return nil, false, &usecase.DomainError{Code: usecase.CodeValidation, Message: key + " must be a date or RFC3339 timestamp"}
	}
	return &d.Time, true, nil
}

// queryWindow reads start/end, accepting both start_date and start.
// A date-only end covers the whole day.
func queryWindow(r *http.Request) (*time.Time, *time.Time, error) {
	startKey, endKey := "start_date", "end_date"
	if r.URL.Query().Get(startKey) == "" && r.URL.Query().Get("start") != "" {
		startKey = "start"
	}
	if r.URL.Query().Get(endKey) == "" && r.URL.Query().Get("end") != "" {
		endKey = "end"
	}
	start, err := queryTime(r, startKey)
	if err != nil {
		return nil, nil, err
	}
	end, dateOnly, err := parseQueryTime(r, endKey)
	if err != nil {
		return nil, nil, err
	}
	if end != nil && dateOnly {
		eod := end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		end = &eod
	}
	return start, end, nil
}

func queryFloat(r *http.Request, key string) (*float64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, &usecase.DomainError{Code: usecase.CodeValidation, Message: key + " must be a number"}
	}
	return &f, nil
}

func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, &usecase.DomainError{Code: usecase.CodeValidation, Message: "invalid id"}
	}
	return id, nil
}
