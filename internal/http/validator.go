package http

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"libraryapi/internal/entity"
	"libraryapi/internal/httpx"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterValidation("isbn", validateISBN)
	validate.RegisterValidation("future_date", validateFutureDate)
}

func validateISBN(fl validator.FieldLevel) bool {
	isbn := fl.Field().String()
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")

	if len(isbn) == 10 {
		matched, _ := regexp.MatchString(`^\d{9}[\dX]$`, isbn)
		return matched
	}
	if len(isbn) == 13 {
		matched, _ := regexp.MatchString(`^\d{13}$`, isbn)
		return matched
	}
	return false
}

// validateFutureDate accepts a calendar date strictly after today.
func validateFutureDate(fl validator.FieldLevel) bool {
	date, err := time.Parse(entity.DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return date.After(today)
}

func ValidateStruct(s any) []httpx.ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var details []httpx.ErrorDetail
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "isbn":
			message = fmt.Sprintf("%s must be a valid ISBN (10 or 13 digits)", field)
		case "future_date":
			message = fmt.Sprintf("%s must be a date after today", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := strings.ToLower(field[:1]) + field[1:]
		details = append(details, httpx.ErrorDetail{
			Field:   fieldName,
			Message: message,
		})
	}

	return details
}
