package provision

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"orgsync.dev/internal/directory"
)

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("prodrole", checkProductRole)
}

func checkProductRole(fl validator.FieldLevel) bool {
	return directory.ValidRole(fl.Field().String())
}

// ValidationError reports a rejected input field. It maps to a 4xx
// response; no remote call is issued once validation fails.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// checkStruct runs the validator and converts the first field error into a
// ValidationError. Struct field order determines which failure wins, so
// request structs declare fields in their contract's validation order.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &ValidationError{Field: "request", Reason: err.Error()}
	}
	fe := errs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Reason: "is required"}
	case "min":
		return &ValidationError{Field: field, Reason: "must not be empty"}
	case "email":
		return &ValidationError{Field: field, Reason: "is not a valid email address"}
	case "prodrole":
		return &ValidationError{Field: field, Reason: "must be one of: " + roleList()}
	default:
		return &ValidationError{Field: field, Reason: "is invalid"}
	}
}

func roleList() string {
	names := make([]string, len(directory.ProductRoles))
	for i, r := range directory.ProductRoles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
