package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elcriollo/station-frontend/internal/api"
	"github.com/elcriollo/station-frontend/internal/apiclient"
	"github.com/elcriollo/station-frontend/internal/forms"
	"github.com/elcriollo/station-frontend/internal/service"
)

// Refresher announces that a resource changed so open views re-list it.
type Refresher interface {
	Refresh(resource string)
}

// statusFor maps a failed facade call to the status the UI sees.
func statusFor(kind apiclient.Kind) int {
	switch kind {
	case apiclient.KindAuthentication, apiclient.KindSessionExpired:
		return http.StatusUnauthorized
	case apiclient.KindForbidden:
		return http.StatusForbidden
	case apiclient.KindNotFound:
		return http.StatusNotFound
	case apiclient.KindBadRequest:
		return http.StatusBadRequest
	case apiclient.KindConflict:
		return http.StatusConflict
	case apiclient.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func respondResult[T any](w http.ResponseWriter, res service.Result[T]) {
	if res.Success {
		api.RespondJSON(w, http.StatusOK, res)
		return
	}
	api.RespondJSON(w, statusFor(res.Kind), res)
}

// decodeForm decodes and validates a form. It writes the error response
// and returns false when the form is unusable.
func decodeForm(w http.ResponseWriter, r *http.Request, form any) bool {
	if err := api.DecodeJSON(r, form); err != nil {
		api.BadRequest(w, "Cuerpo de la solicitud inválido")
		return false
	}
	return validateForm(w, form)
}

func validateForm(w http.ResponseWriter, form any) bool {
	err := forms.Validate(form)
	if err == nil {
		return true
	}
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		api.RespondValidation(w, ve)
		return false
	}
	api.BadRequest(w, err.Error())
	return false
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		api.BadRequest(w, "Identificador inválido")
		return 0, false
	}
	return id, true
}
