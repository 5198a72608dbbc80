// Package respond writes the API's JSON error envelope.
//
// Errors always look like {"error": "..."}; validation failures add a
// "fields" map keyed by the JSON field name.
package respond

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	tagNames sync.Once
	// Go field name -> JSON name, filled as validator caches each struct
	jsonNames sync.Map
)

// UseJSONFieldNames makes validator report JSON tag names instead of Go field names.
func UseJSONFieldNames() {
	tagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			jsonNames.Store(f.Name, name)
			return name
		})
	})
}

// Error aborts the request with {"error": msg}.
func Error(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// ErrorCode is Error with a machine-readable code.
func ErrorCode(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}

// BindError turns a ShouldBind* failure into a 400.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		Validation(c, verrs)
		return
	}
	Error(c, http.StatusBadRequest, "invalid request body")
}

// Validation writes one message per failing field.
func Validation(c *gin.Context, errs validator.ValidationErrors) {
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field()] = describe(e)
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": fields,
	})
}

// Fields writes a validation failure that was detected outside validator.
func Fields(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": fields,
	})
}

func jsonName(field string) string {
	if name, ok := jsonNames.Load(field); ok {
		return name.(string)
	}
	return field
}

func describe(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "eqfield":
		return fmt.Sprintf("must match %s", jsonName(e.Param()))
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", e.Param())
	case "len":
		return fmt.Sprintf("must have length %s", e.Param())
	default:
		return "is invalid"
	}
}
