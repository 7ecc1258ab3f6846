// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("user_role", validateUserRole)
		_ = v.RegisterValidation("project_state", validateProjectState)
		_ = v.RegisterValidation("company_request_state", validateCompanyRequestState)
	}
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "student", "company_rep", "staff":
		return true
	}
	return false
}

func validateProjectState(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "BOR", "REV", "APR", "REC":
		return true
	}
	return false
}

func validateCompanyRequestState(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "accepted", "rejected":
		return true
	}
	return false
}
