package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/presentation/http/dto/response"
	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/pagination"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserPermissions extracts the user permissions from the Gin context
func GetUserPermissions(c *gin.Context) []string {
	permissions, _ := c.Get("user_permissions")
	list, _ := permissions.([]string)
	return list
}

// bindJSON binds the body and answers 422 with field errors for failed
// binding tags, or 400 for malformed JSON. It reports whether to continue.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		bindError(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		bindError(c, err)
		return false
	}
	return true
}

func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{
				Field:   snakeCase(fe.Field()),
				Message: validationMessage(fe),
			})
		}
		response.ValidationError(c, fields)
		return
	}
	response.BadRequest(c, "Invalid request body")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min", "gte":
		return "Must be at least " + fe.Param()
	case "max", "lte":
		return "Must be at most " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "eqfield":
		return "Must match " + snakeCase(fe.Param())
	case "uuid":
		return "Must be a valid UUID"
	}
	return "Is invalid"
}

// snakeCase turns a Go field name like ClientID into client_id
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// paramID parses a UUID path parameter, answering 400 when malformed
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+strings.ReplaceAll(name, "_", " "))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional UUID filter. Blank yields nil.
func optionalUUID(c *gin.Context, field, value string) (*uuid.UUID, bool) {
	if value == "" {
		return nil, true
	}
	id, err := uuid.Parse(value)
	if err != nil {
		response.Error(c, apperror.NewFieldError(field, "Must be a valid UUID"))
		return nil, false
	}
	return &id, true
}

// wantsCursor reports whether the request asks for keyset pagination
func wantsCursor(cursor string, limit int) bool {
	return cursor != "" || limit > 0
}

func cursorParams(cursor, direction string, limit int) *pagination.CursorParams {
	return &pagination.CursorParams{
		Cursor:    cursor,
		Direction: pagination.CursorDirection(direction),
		Limit:     limit,
	}
}

// optionalEnum parses an optional enum filter with the enum's own parser
func optionalEnum[T any](c *gin.Context, field, value string, parse func(string) (T, bool)) (*T, bool) {
	if value == "" {
		return nil, true
	}
	v, ok := parse(value)
	if !ok {
		response.Error(c, apperror.NewFieldError(field, "Invalid value"))
		return nil, false
	}
	return &v, true
}

func optionalBool(c *gin.Context, field, value string) (*bool, bool) {
	switch strings.ToLower(value) {
	case "":
		return nil, true
	case "1", "true", "yes":
		v := true
		return &v, true
	case "0", "false", "no":
		v := false
		return &v, true
	}
	response.Error(c, apperror.NewFieldError(field, "Must be true or false"))
	return nil, false
}
