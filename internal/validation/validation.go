// Package validation implements the validated request pipeline: each route
// declares an ordered list of (schema, request-part) pairs, and the middleware
// binds and coerces every part in order, collecting all field errors for a
// part before failing. The first failing part short-circuits with a 400
// envelope; on success the typed value is stored on the context for handlers.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/openshelf/openshelf/internal/envelope"
)

type Part string

const (
	PartBody  Part = "body"
	PartQuery Part = "query"
	PartURI   Part = "uri"
)

// Pair couples a request part with the typed schema it must satisfy.
type Pair struct {
	part Part
	bind func(c *gin.Context) (any, error)
}

var (
	objectIDRe = regexp.MustCompile(`^[a-fA-F0-9]{24}$`)
	permNameRe = regexp.MustCompile(`^[a-z]+(-[a-z0-9]+)+$`)
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form", "uri"} {
			tag := strings.Split(fld.Tag.Get(key), ",")[0]
			if tag != "" && tag != "-" {
				return tag
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return objectIDRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("permname", func(fl validator.FieldLevel) bool {
		return permNameRe.MatchString(fl.Field().String())
	})
}

// Body declares that the JSON request body must bind to T.
func Body[T any]() Pair {
	return Pair{part: PartBody, bind: func(c *gin.Context) (any, error) {
		v := new(T)
		return v, c.ShouldBindJSON(v)
	}}
}

// Query declares that the query string must bind to T. Numeric and boolean
// parameters are coerced from their string form during binding.
func Query[T any]() Pair {
	return Pair{part: PartQuery, bind: func(c *gin.Context) (any, error) {
		v := new(T)
		return v, c.ShouldBindQuery(v)
	}}
}

// URI declares that path parameters must bind to T.
func URI[T any]() Pair {
	return Pair{part: PartURI, bind: func(c *gin.Context) (any, error) {
		v := new(T)
		return v, c.ShouldBindUri(v)
	}}
}

// Validate runs the pairs strictly in the order given. A failing part writes
// a 400 envelope with every field error for that part joined into the message
// and aborts the chain; later pairs and the handler never run.
func Validate(pairs ...Pair) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range pairs {
			v, err := p.bind(c)
			if err != nil {
				envelope.BadRequest(describe(err)).Write(c)
				c.Abort()
				return
			}
			c.Set(contextKey(p.part), v)
		}
		c.Next()
	}
}

// FromBody returns the validated body DTO. Panics if the route did not
// declare a Body pair for T, which is a programming error.
func FromBody[T any](c *gin.Context) *T {
	return c.MustGet(contextKey(PartBody)).(*T)
}

func FromQuery[T any](c *gin.Context) *T {
	return c.MustGet(contextKey(PartQuery)).(*T)
}

func FromURI[T any](c *gin.Context) *T {
	return c.MustGet(contextKey(PartURI)).(*T)
}

func contextKey(p Part) string {
	return "validated." + string(p)
}

func describe(err error) string {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		msgs := make([]string, 0, len(verr))
		for _, fe := range verr {
			msgs = append(msgs, fieldMessage(fe))
		}
		return strings.Join(msgs, "; ")
	}
	var jerr *json.UnmarshalTypeError
	if errors.As(err, &jerr) {
		return fmt.Sprintf("%s must be of type %s", jerr.Field, jerr.Type)
	}
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	return "malformed request: " + err.Error()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "objectid":
		return fe.Field() + " must be a valid object id"
	case "permname":
		return fe.Field() + " must match the action-route pattern (e.g. create-books)"
	case "dive":
		return fe.Field() + " contains an invalid entry"
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}
