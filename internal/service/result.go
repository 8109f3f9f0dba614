// Package service holds the facades over the remote API. Every facade call
// returns a Result; raw transport errors never reach the caller.
package service

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/elcriollo/station-frontend/internal/apiclient"
)

// User-facing messages.
const (
	MsgInvalidCredentials = "Email o contraseña incorrectos"
	MsgUserNotFound       = "Usuario no encontrado"
	MsgInvalidLogin       = "Verificar email y contraseña"
	MsgLoginFailed        = "Error al iniciar sesión"
	MsgRegisterInvalid    = "Datos inválidos o email ya registrado"
	MsgRegisterFailed     = "Error en el registro"
	MsgTimeout            = "El servidor tardó demasiado en responder"
	MsgNetwork            = "No se pudo conectar con el servidor"
	MsgSessionExpired     = "Tu sesión expiró, inicia sesión nuevamente"
	MsgForbidden          = "No tienes permisos para realizar esta acción"
	MsgNotFound           = "Recurso no encontrado"
	MsgServer             = "Error del servidor, intenta nuevamente"
	MsgUnexpected         = "Respuesta inesperada del servidor"
	MsgQuickLoginDisabled = "Acceso rápido deshabilitado"
	MsgSessionSaveFailed  = "No se pudo guardar la sesión"
	MsgUnknownRole        = "Rol de usuario no reconocido"
)

// API is the adapter surface the facades use.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
	BaseURL() string
}

// Result is the uniform outcome of a facade call.
type Result[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Message string         `json:"message,omitempty"`
	Kind    apiclient.Kind `json:"kind,omitempty"`
}

type resultJSON[T any] struct {
	Success bool           `json:"success"`
	Data    *T             `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
	Kind    apiclient.Kind `json:"kind,omitempty"`
}

// MarshalJSON writes data only for a successful result, so a failure is
// {success, message, kind} and never a zero entity.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	out := resultJSON[T]{Success: r.Success, Message: r.Message, Kind: r.Kind}
	if r.Success {
		out.Data = &r.Data
	}
	return json.Marshal(out)
}

func ok[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: message}
}

// fail builds a failed Result whose message is prefix plus a description
// of err.
func fail[T any](err error, prefix string) Result[T] {
	return Result[T]{Message: prefix + ": " + Describe(err), Kind: apiclient.KindOf(err)}
}

// Describe turns an adapter error into a user-facing sentence. The API's
// own message is used for rejected payloads; everything else maps to a
// fixed text.
func Describe(err error) string {
	switch apiclient.KindOf(err) {
	case apiclient.KindTimeout:
		return MsgTimeout
	case apiclient.KindNetwork:
		return MsgNetwork
	case apiclient.KindSessionExpired, apiclient.KindAuthentication:
		return MsgSessionExpired
	case apiclient.KindForbidden:
		return MsgForbidden
	case apiclient.KindNotFound:
		return MsgNotFound
	case apiclient.KindBadRequest, apiclient.KindConflict:
		if msg := apiclient.MessageOf(err); msg != "" {
			return msg
		}
		return "Datos inválidos"
	case apiclient.KindServer:
		return MsgServer
	default:
		return MsgUnexpected
	}
}
