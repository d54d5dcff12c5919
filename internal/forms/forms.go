// Package forms decodes submitted form data into typed values and validates
// them before anything touches the database. Each Decode function returns the
// typed form plus a map of field name to message; an empty map means valid.
package forms

import (
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/LaviAzankot/CharityChick/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the singleton validator with the enum validators
// registered. validator caches struct metadata, so sharing one instance is
// both safe and faster.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// The enum values contain spaces, which the oneof tag cannot carry,
		// so each enumeration gets its own named validator.
		_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return slices.Contains(models.Categories, fl.Field().String())
		})
		_ = validate.RegisterValidation("area", func(fl validator.FieldLevel) bool {
			return slices.Contains(models.Areas, fl.Field().String())
		})
		_ = validate.RegisterValidation("condition", func(fl validator.FieldLevel) bool {
			return slices.Contains(models.Conditions, fl.Field().String())
		})
	})
	return validate
}

// PostForm carries the fields for creating or editing a post.
type PostForm struct {
	Title     string `validate:"required"`
	Category  string `validate:"required,category"`
	Condition string `validate:"required,condition"`
	ImgURL    string `validate:"required,url"`
	Content   string `validate:"required"`
}

// RegisterForm carries the fields for creating an account.
type RegisterForm struct {
	Name       string `validate:"required"`
	Email      string `validate:"required,email"`
	Password   string `validate:"required"`
	Area       string `validate:"required,area"`
	Address    string `validate:"required"`
	AddressURL string `validate:"required,url"`
}

// LoginForm carries the login credentials.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// SearchForm carries the home page search filter.
type SearchForm struct {
	Category string `validate:"required,category"`
	Area     string `validate:"required,area"`
}

// CommentForm carries a comment submission.
type CommentForm struct {
	Text string `validate:"required"`
}

// ContactForm carries a contact page submission.
type ContactForm struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"required"`
	Message string `validate:"required"`
}

// DecodePost reads a post form from the request.
func DecodePost(r *http.Request) (PostForm, map[string]string) {
	form := PostForm{
		Title:     strings.TrimSpace(r.FormValue("title")),
		Category:  r.FormValue("category"),
		Condition: r.FormValue("condition"),
		ImgURL:    strings.TrimSpace(r.FormValue("img_url")),
		Content:   strings.TrimSpace(r.FormValue("content")),
	}
	return form, check(form)
}

// DecodeRegister reads a registration form from the request.
func DecodeRegister(r *http.Request) (RegisterForm, map[string]string) {
	form := RegisterForm{
		Name:       strings.TrimSpace(r.FormValue("name")),
		Email:      strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		Password:   r.FormValue("password"),
		Area:       r.FormValue("area"),
		Address:    strings.TrimSpace(r.FormValue("address")),
		AddressURL: strings.TrimSpace(r.FormValue("address_url")),
	}
	return form, check(form)
}

// DecodeLogin reads a login form from the request.
func DecodeLogin(r *http.Request) (LoginForm, map[string]string) {
	form := LoginForm{
		Email:    strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		Password: r.FormValue("password"),
	}
	return form, check(form)
}

// DecodeSearch reads the home page search filter from the request.
func DecodeSearch(r *http.Request) (SearchForm, map[string]string) {
	form := SearchForm{
		Category: r.FormValue("category"),
		Area:     r.FormValue("area"),
	}
	return form, check(form)
}

// DecodeComment reads a comment form from the request.
func DecodeComment(r *http.Request) (CommentForm, map[string]string) {
	form := CommentForm{
		Text: strings.TrimSpace(r.FormValue("text")),
	}
	return form, check(form)
}

// DecodeContact reads a contact form from the request.
func DecodeContact(r *http.Request) (ContactForm, map[string]string) {
	form := ContactForm{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	return form, check(form)
}

// check validates a form struct and translates failures into field-level
// messages keyed by field name.
func check(form interface{}) map[string]string {
	fieldErrors := map[string]string{}
	err := getValidator().Struct(form)
	if err == nil {
		return fieldErrors
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fieldErrors[""] = "invalid submission"
		return fieldErrors
	}
	for _, fe := range validationErrs {
		fieldErrors[fe.Field()] = messageFor(fe)
	}
	return fieldErrors
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Must be a valid email address."
	case "url":
		return "Must be a valid URL."
	case "category", "area", "condition":
		return "Not one of the allowed choices."
	default:
		return "Invalid value."
	}
}
