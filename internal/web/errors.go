package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/sheetmap/internal/importer"
	"github.com/JonMunkholm/sheetmap/internal/logging"
)

// ErrorResponse is the JSON body of a failed API request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status from the support code group.
func statusFor(msg importer.UserMessage) int {
	switch {
	case msg.Code == "FILE001":
		return http.StatusRequestEntityTooLarge
	case msg.Code == "IMP004":
		return http.StatusConflict
	case msg.Code == "UPL002":
		return http.StatusServiceUnavailable
	case msg.Code == "UPL005":
		return http.StatusGatewayTimeout
	case strings.HasPrefix(msg.Code, "IMP"):
		return http.StatusNotFound
	case strings.HasPrefix(msg.Code, "BND"), strings.HasPrefix(msg.Code, "DOC"),
		strings.HasPrefix(msg.Code, "FILE"), msg.Code == "UPL004":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes its user message, as JSON for API
// routes and plain text otherwise.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := importer.MapError(err)
	status := statusFor(msg)

	logger := logging.FromContext(r.Context())
	attrs := []any{"path", r.URL.Path, "method", r.Method, "status", status, "code", msg.Code, "error", err}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if !wantsJSON(r) {
		http.Error(w, msg.Message+" ("+msg.Code+")", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isMaxBytes(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
