package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/geocoder89/usershub/internal/apperr"
	"github.com/gin-gonic/gin"
)

// BindBody decodes a JSON or urlencoded body into out. The content type picks
// the decoder; an empty body leaves out at its zero value. Failures come back
// as Faults carrying 400 or 413.
func BindBody(ctx *gin.Context, out interface{}) error {
	err := ctx.ShouldBind(out)

	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	return parseBindError(err, out)
}

func parseBindError(err error, out interface{}) error {
	var tooLarge *http.MaxBytesError

	if errors.As(err, &tooLarge) {
		return apperr.Wrap(http.StatusRequestEntityTooLarge, fmt.Errorf("request entity too large"))
	}

	// in the event of bad json

	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) || errors.Is(err, io.ErrUnexpectedEOF) {
		return apperr.New(http.StatusBadRequest, "invalid JSON body")
	}

	// in the event of a type mismatch

	var unmatchedTypeError *json.UnmarshalTypeError

	if errors.As(err, &unmatchedTypeError) {
		field := jsonPathFromDotPath(baseStructType(out), unmatchedTypeError.Field)

		if field == "" {
			return apperr.New(http.StatusBadRequest, "request body must be a JSON object")
		}

		return apperr.New(http.StatusBadRequest, fmt.Sprintf("%s must be of type %s", field, unmatchedTypeError.Type.String()))
	}

	// final fallback if the error could not be deciphered
	return apperr.Wrap(http.StatusBadRequest, err)
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

func jsonPathFromDotPath(rootType reflect.Type, dotPath string) string {
	dotPath = strings.TrimSpace(dotPath)
	if dotPath == "" || rootType == nil {
		return ""
	}

	current := rootType
	out := make([]string, 0)

	for _, part := range strings.Split(dotPath, ".") {
		if part == "" {
			continue
		}

		jsonName := part

		if current != nil && current.Kind() == reflect.Struct {
			if sf, ok := current.FieldByName(part); ok {
				jsonName = jsonNameFromStructField(sf)
				current = sf.Type
			} else {
				current = nil
			}
		}

		out = append(out, jsonName)
	}

	return strings.Join(out, ".")
}

func jsonNameFromStructField(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" {
		return sf.Name
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return sf.Name
	}

	return name
}
