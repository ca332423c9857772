package server

import (
	"errors"
	"net/http"

	"abilityctl/internal/api"
	"abilityctl/internal/invocationlog"

	"github.com/go-chi/render"
)

// APIResponse is the envelope of every JSON response. Status is 0 on
// success and the HTTP status otherwise.
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"ok"`
	Data   interface{} `json:"data,omitempty"`
}

func (a *APIResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ErrorData describes a failed request.
type ErrorData struct {
	Error  string                `json:"error"`
	Fields []api.ValidationError `json:"fields,omitempty"`
}

func success(w http.ResponseWriter, r *http.Request, msg string, data interface{}) {
	render.Status(r, http.StatusOK)
	_ = render.Render(w, r, &APIResponse{Msg: msg, Data: data})
}

func failure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	data := ErrorData{Error: err.Error()}

	var single api.ValidationError
	var multi api.ValidationErrors
	switch {
	case errors.As(err, &multi):
		data.Fields = multi
	case errors.As(err, &single):
		data.Fields = []api.ValidationError{single}
	}

	render.Status(r, status)
	_ = render.Render(w, r, &APIResponse{Status: status, Msg: http.StatusText(status), Data: data})
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	failure(w, r, api.NewValidationError("body", "invalid request body: %v", err))
}

// statusFor maps engine errors onto HTTP statuses.
func statusFor(err error) int {
	var pe *api.ProviderError
	switch {
	case api.IsValidationError(err), errors.Is(err, api.ErrUnknownProvider):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrAbilityNotFound), errors.Is(err, api.ErrExecutorNotFound):
		return http.StatusNotFound
	case errors.Is(err, api.ErrNoEligibleExecutor):
		return http.StatusConflict
	case errors.Is(err, invocationlog.ErrNotQueryable):
		return http.StatusNotImplemented
	case errors.As(err, &pe) && pe.Timeout:
		return http.StatusGatewayTimeout
	case errors.As(err, &pe):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
