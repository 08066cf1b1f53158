package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pagecms/internal/service"
)

var validatorTagNamesOnce sync.Once

// useJSONFieldNames makes validator errors report the json tag name of
// a field instead of its Go name, so 422 bodies match the wire format.
func useJSONFieldNames() {
	validatorTagNamesOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func respondValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "validation failed",
		"errors": fields,
	})
}

// bindJSON decodes the request body into dst. Malformed JSON yields a
// 400; tag-level validation failures yield a 422 listing every failing
// field. The body stays cached for later presence checks.
func bindJSON(c *gin.Context, dst interface{}) bool {
	useJSONFieldNames()

	err := c.ShouldBindBodyWith(dst, binding.JSON)
	if err == nil {
		return true
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		fields := make(map[string]string, len(fieldErrors))
		for _, fe := range fieldErrors {
			fields[fe.Field()] = fieldErrorMessage(fe)
		}
		respondValidationError(c, fields)
		return false
	}

	respondError(c, http.StatusBadRequest, "invalid request body")
	return false
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s may not be longer than %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", fe.Field(), strings.Join(strings.Fields(fe.Param()), ", "))
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// jsonKeyState reports whether the cached JSON body contains key, and
// whether its value is an explicit null. Partial updates need the
// distinction between "absent" and "set to null".
func jsonKeyState(c *gin.Context, key string) (present, isNull bool) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		return false, false
	}
	value, ok := raw[key]
	if !ok {
		return false, false
	}
	return true, string(value) == "null"
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parsePageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatNullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// handleWriteError maps service failures on page/category writes to
// HTTP responses. notFound is the entity's own not-found sentinel.
func handleWriteError(c *gin.Context, err error, notFound error, notFoundMessage string) {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, notFound):
		respondError(c, http.StatusNotFound, notFoundMessage)
	case errors.As(err, &ve):
		respondValidationError(c, ve.Fields)
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

func paginationMeta(page, perPage int, total int64) gin.H {
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return gin.H{
		"current_page": page,
		"per_page":     perPage,
		"total":        total,
		"last_page":    lastPage,
	}
}
