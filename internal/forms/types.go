package forms

import (
	"fmt"
	"strings"

	"github.com/elcriollo/station-frontend/internal/models"
)

type LoginForm struct {
	Email    string `json:"email" validate:"notblank,looseemail"`
	Password string `json:"password" validate:"notblank,min=3"`
}

// RegisterForm is used both for self-registration and for accounts created
// by an administrator.
type RegisterForm struct {
	FullName        string      `json:"fullName" validate:"notblank,min=2"`
	Email           string      `json:"email" validate:"notblank,looseemail"`
	Password        string      `json:"password" validate:"notblank,min=6"`
	ConfirmPassword string      `json:"confirmPassword" validate:"notblank,eqfield=Password"`
	Role            models.Role `json:"role" validate:"required,role"`
}

// Normalize trims the free-text fields before validation.
func (f *RegisterForm) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
}

// Request drops the confirmation and shapes the API payload.
func (f RegisterForm) Request() models.RegisterRequest {
	return models.RegisterRequest{
		FullName: strings.TrimSpace(f.FullName),
		Email:    strings.ToLower(strings.TrimSpace(f.Email)),
		Password: f.Password,
		Role:     f.Role,
	}
}

type TableForm struct {
	Number      int                `json:"number" validate:"min=1,max=999"`
	Capacity    int                `json:"capacity" validate:"min=1,max=20"`
	Location    string             `json:"location"`
	TableStatus models.TableStatus `json:"status" validate:"omitempty,tablestatus"`
}

func (f TableForm) Request() models.TableRequest {
	req := models.TableRequest{Number: f.Number, Capacity: f.Capacity, Status: f.TableStatus}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		req.Location = &loc
	}
	return req
}

// TableStatusForm changes the state of one table.
type TableStatusForm struct {
	TableStatus models.TableStatus `json:"status" validate:"tablestatus"`
}

type OrderStatusForm struct {
	OrderStatus models.OrderStatus `json:"status" validate:"required,orderstatus"`
	Notes       string             `json:"notes"`
}

// NotesPtr returns the trimmed notes, or nil when blank.
func (f OrderStatusForm) NotesPtr() *string {
	return optional(f.Notes)
}

// UpdateNotes is the note sent with the status change. Blank notes default
// to who changed the status and to what.
func (f OrderStatusForm) UpdateNotes(by string) *string {
	if n := f.NotesPtr(); n != nil {
		return n
	}
	return optional(fmt.Sprintf("Estado cambiado a %s por %s", f.OrderStatus, strings.TrimSpace(by)))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// AccountForm is an account created by an administrator; there is no
// confirmation field.
type AccountForm struct {
	FullName string      `json:"fullName" validate:"notblank,min=2"`
	Email    string      `json:"email" validate:"notblank,looseemail"`
	Password string      `json:"password" validate:"notblank,min=6"`
	Role     models.Role `json:"role" validate:"required,role"`
}

func (f AccountForm) Request() models.RegisterRequest {
	return RegisterForm{FullName: f.FullName, Email: f.Email, Password: f.Password, Role: f.Role}.Request()
}
