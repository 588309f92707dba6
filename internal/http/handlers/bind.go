package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

var registerTagNames sync.Once

// jsonFieldNames makes validator report json names ("projectName") instead of Go field names.
func jsonFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(sf reflect.StructField) string {
			name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return sf.Name
			}
			return name
		})
	})
}

// isJSON accepts "application/json" with optional parameters such as charset.
func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), binding.MIMEJSON)
}

// BindJSON decodes and validates the body into out. On failure it writes the error envelope and returns false.
// Handlers call it after path ids are parsed, so a bad id wins over a bad Content-Type.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	if !isJSON(ctx.GetHeader("Content-Type")) {
		RespondError(ctx, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return false
	}

	jsonFieldNames()

	err := ctx.ShouldBindJSON(out)

	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(ctx, http.StatusRequestEntityTooLarge, "Request body too large", nil)
			return false
		}

		message, fields := parseBindError(err)
		RespondBadRequest(ctx, message, fields)

		return false
	}

	return true
}

func parseBindError(err error) (string, []FieldError) {
	// an empty body is a request with every field missing
	if errors.Is(err, io.EOF) {
		return msgMissingFields, nil
	}

	// validator errors (struct bind tags)

	var validatorErrors validator.ValidationErrors

	if errors.As(err, &validatorErrors) {
		fields := make([]FieldError, 0, len(validatorErrors))
		message := msgInvalidFields

		for _, fieldError := range validatorErrors {
			rule := fieldError.Tag()
			param := fieldError.Param()

			if rule == "required" {
				message = msgMissingFields
			}

			fields = append(fields, FieldError{
				Field:   fieldError.Field(),
				Rule:    rule,
				Param:   param,
				Message: validationMessage(rule, param),
			})
		}
		return message, fields
	}

	// in the event of a type mismatch

	var typeError *json.UnmarshalTypeError

	if errors.As(err, &typeError) {
		field := strings.TrimSpace(typeError.Field)

		return msgInvalidBody, []FieldError{
			{
				Field:   field,
				Rule:    "type",
				Message: fmt.Sprintf("must be of type %s", typeError.Type.String()),
			},
		}
	}

	// malformed json and anything else the decoder rejects
	return msgInvalidBody, nil
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "gt":
		return "must be greater than " + param
	case "lte":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
