package minimalapi

import (
	"encoding/json"
	"io"
	"net/http"
)

// Result is the canonical HTTP result produced by every endpoint handler. The
// registrar writes it to the response verbatim.
type Result interface {
	WriteResult(w http.ResponseWriter, r *http.Request) error
}

// ResultFunc adapts a function to a Result.
type ResultFunc func(w http.ResponseWriter, r *http.Request) error

// WriteResult implements Result.
func (f ResultFunc) WriteResult(w http.ResponseWriter, r *http.Request) error {
	return f(w, r)
}

// JSONResult writes Value as JSON with the given status code.
type JSONResult struct {
	StatusCode int
	Value      any
}

// WriteResult implements Result.
func (res *JSONResult) WriteResult(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	return json.NewEncoder(w).Encode(res.Value)
}

// JSON returns a Result that writes v as JSON with the given status.
func JSON(status int, v any) *JSONResult {
	return &JSONResult{StatusCode: status, Value: v}
}

// OK returns a 200 JSON result.
func OK(v any) *JSONResult {
	return JSON(http.StatusOK, v)
}

// Created returns a 201 JSON result with a Location header.
func Created(location string, v any) Result {
	return ResultFunc(func(w http.ResponseWriter, r *http.Request) error {
		if location != "" {
			w.Header().Set("Location", location)
		}
		return JSON(http.StatusCreated, v).WriteResult(w, r)
	})
}

// Text returns a plain text result.
func Text(status int, body string) Result {
	return ResultFunc(func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, err := io.WriteString(w, body)
		return err
	})
}

// Status returns a result with an empty body.
func Status(status int) Result {
	return ResultFunc(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(status)
		return nil
	})
}

// NoContent returns a 204 result.
func NoContent() Result {
	return Status(http.StatusNoContent)
}

// Problem returns a result that writes err using the error envelope.
func Problem(err *Error) Result {
	return ResultFunc(func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(err.Code.HTTPStatus())
		return json.NewEncoder(w).Encode(err)
	})
}
