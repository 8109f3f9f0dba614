// Package forms checks user input locally. A form that fails here is never
// sent to the API.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/elcriollo/station-frontend/internal/models"
)

// ValidationError maps form fields (by their JSON name) to a message.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// Loose on purpose: something@something.something.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("tablestatus", func(fl validator.FieldLevel) bool {
		return models.TableStatus(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return models.OrderStatus(fl.Field().String()).Valid()
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate checks form against its validate tags. It returns nil or a
// *ValidationError with one message per failing field.
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(ve))}
	for _, fe := range ve {
		if _, seen := out.Fields[fe.Field()]; !seen {
			out.Fields[fe.Field()] = fieldError(fe)
		}
	}
	return out
}

var messages = map[string]map[string]string{
	"Email": {
		"notblank":   "El email es requerido",
		"looseemail": "Email inválido",
	},
	"Password": {
		"notblank": "La contraseña es requerida",
		"min":      "La contraseña debe tener al menos %s caracteres",
	},
	"FullName": {
		"notblank": "El nombre completo es requerido",
		"min":      "El nombre debe tener al menos %s caracteres",
	},
	"ConfirmPassword": {
		"notblank": "Confirma tu contraseña",
		"eqfield":  "Las contraseñas no coinciden",
	},
	"Role": {
		"required": "Selecciona un rol",
		"role":     "Rol inválido",
	},
	"Number": {
		"min": "El número de mesa debe estar entre 1 y 999",
		"max": "El número de mesa debe estar entre 1 y 999",
	},
	"Capacity": {
		"min": "La capacidad debe estar entre 1 y 20",
		"max": "La capacidad debe estar entre 1 y 20",
	},
	"TableStatus": {
		"tablestatus": "Estado de mesa inválido",
	},
	"OrderStatus": {
		"required":    "Selecciona un estado",
		"orderstatus": "Estado de pedido inválido",
	},
}

func fieldError(fe validator.FieldError) string {
	if byTag, ok := messages[fe.StructField()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			if strings.Contains(msg, "%s") {
				return fmt.Sprintf(msg, fe.Param())
			}
			return msg
		}
	}
	return fmt.Sprintf("%s inválido (%s)", fe.Field(), fe.Tag())
}
