package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dailyquest/dq/internal/domain"
)

// errorBody is the error payload of the task service. detail is either a
// string or a list of field errors.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// fieldError is one entry of a list-valued detail.
type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// parseErrorBody extracts a message and, for field errors, the field name.
func parseErrorBody(data []byte) (msg, field string) {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return strings.TrimSpace(string(data)), ""
	}

	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil {
			return s, ""
		}
		var list []fieldError
		if err := json.Unmarshal(body.Detail, &list); err == nil && len(list) > 0 {
			msgs := make([]string, 0, len(list))
			for _, fe := range list {
				msgs = append(msgs, fe.Msg)
			}
			return strings.Join(msgs, "; "), lastLoc(list[0].Loc)
		}
	}
	return body.Message, ""
}

// lastLoc returns the innermost string element of a location path.
func lastLoc(loc []any) string {
	for i := len(loc) - 1; i >= 0; i-- {
		if s, ok := loc[i].(string); ok {
			return s
		}
	}
	return ""
}

// statusError maps a non-2xx response onto the error taxonomy.
// When completion is set, rejections that mean "already completed" become
// conflicts.
func statusError(status int, data []byte, completion bool) *domain.Error {
	msg, field := parseErrorBody(data)
	if msg == "" {
		msg = http.StatusText(status)
	}

	e := &domain.Error{Status: status, Message: msg}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = domain.KindUnauthorized
	case completion && status < http.StatusInternalServerError && domain.IsCompletionConflict(status, msg):
		e.Kind = domain.KindConflict
	case status == http.StatusNotFound:
		e.Kind = domain.KindNotFound
	case status == http.StatusConflict:
		e.Kind = domain.KindConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		e.Kind = domain.KindValidation
		e.Field = field
	case status >= http.StatusInternalServerError:
		e.Kind = domain.KindNetwork
	default:
		e.Kind = domain.KindBackend
	}
	return e
}
