// Package validation provides declarative request body validation for
// handlers. Rules are checked against the raw JSON body before the handler
// runs, and every failing rule is reported in a single response.
package validation

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FieldError reports one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorsResponse is the body of a 400 validation failure.
type ErrorsResponse struct {
	Errors []FieldError `json:"errors"`
}

// Check inspects a field value. The present flag distinguishes an absent key
// from an explicit null or empty value.
type Check func(value interface{}, present bool) bool

// Rule binds a body field to a check and the message reported on failure.
type Rule struct {
	Field   string
	Message string
	Check   Check
}

// NotEmpty passes when the field is present and is a non-blank string.
func NotEmpty(value interface{}, present bool) bool {
	if !present {
		return false
	}
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) != ""
}

// IsEmail passes when the field is a string shaped like an email address.
func IsEmail(value interface{}, present bool) bool {
	if !present {
		return false
	}
	s, ok := value.(string)
	return ok && emailRegex.MatchString(s)
}

// MinLength returns a check that passes when the field is a string of at
// least n characters.
func MinLength(n int) Check {
	return func(value interface{}, present bool) bool {
		if !present {
			return false
		}
		s, ok := value.(string)
		return ok && len(s) >= n
	}
}

// Required builds a presence rule with a conventional message.
func Required(field string) Rule {
	return Rule{Field: field, Message: field + " is required", Check: NotEmpty}
}

// Body returns a middleware that validates the JSON request body against the
// given rules. All failures are collected and returned together as a 400; the
// handler only runs on a clean body.
func Body(rules ...Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]interface{}
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorsResponse{
				Errors: []FieldError{{Field: "body", Message: "Invalid JSON body"}},
			})
		}

		var failed []FieldError
		for _, rule := range rules {
			value, present := body[rule.Field]
			if !rule.Check(value, present) {
				failed = append(failed, FieldError{Field: rule.Field, Message: rule.Message})
			}
		}

		if len(failed) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorsResponse{Errors: failed})
		}

		return c.Next()
	}
}
