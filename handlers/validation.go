package handlers

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	apperrors "github.com/feedbackx/feedbackx-backend/errors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	urlSafePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	registerOnce   sync.Once
)

// RegisterValidators installs the custom "urlsafe" tag on gin's validator and
// makes field errors report JSON field names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("urlsafe", func(fl validator.FieldLevel) bool {
			return urlSafePattern.MatchString(fl.Field().String())
		})
	})
}

// jsonFieldName names fields after their json tag, then their form tag, so
// issues use the names clients send.
func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

// bindJSONOrError binds the body into obj. Decode and validation failures
// become 400 AppErrors for ErrorHandler to render.
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.FromBinding(err))
		return false
	}
	return true
}

// bindQueryOrError is bindJSONOrError for query parameters.
func bindQueryOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		_ = c.Error(apperrors.FromBinding(err))
		return false
	}
	return true
}
