// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
)

// httpStatusCode maps the error taxonomy of the lower layers to http status
// codes. Lookups of unknown ids fail with os.ErrNotExist, duplicates and
// busy resources with os.ErrExist and rejected inputs with os.ErrInvalid.
func httpStatusCode(err error) int {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, os.ErrExist):
		return http.StatusConflict
	case errors.Is(err, os.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// httpPostJSONHandler adapts a request/response function into an http
// handler. The request is decoded from the POST body and checked through
// its Check method when one is defined.
func httpPostJSONHandler[T1, T2 any](fun func(context.Context, *T1) (*T2, error)) http.Handler {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "api requests must use the POST method", http.StatusMethodNotAllowed)
			return
		}
		if v := r.Header.Get("content-type"); !strings.EqualFold(v, "application/json") {
			http.Error(w, "api requests must have json content type", http.StatusBadRequest)
			return
		}
		req := new(T1)
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if x, ok := any(req).(interface{ Check() error }); ok {
			if err := x.Check(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		resp, err := fun(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), httpStatusCode(err))
			return
		}
		data, err := json.Marshal(resp)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("content-type", "application/json")
		w.Write(data)
	}
	return http.HandlerFunc(handler)
}
