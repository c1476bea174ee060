package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// PostIdentifyParams defines parameters for PostIdentify.
type PostIdentifyParams struct {
	// Status filters the registry by category; "all" disables filtering.
	// The multipart form field of the same name is used when absent.
	Status *string `form:"status,omitempty" json:"status,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /healthz)
	GetHealthz(w http.ResponseWriter, r *http.Request)
	// (POST /compare)
	PostCompare(w http.ResponseWriter, r *http.Request)
	// (POST /identify)
	PostIdentify(w http.ResponseWriter, r *http.Request, params PostIdentifyParams)
	// (POST /missing)
	PostMissing(w http.ResponseWriter, r *http.Request)
}

// MiddlewareFunc wraps a single operation handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts requests to handler parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) wrap(h http.HandlerFunc) http.Handler {
	handler := http.Handler(h)
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	return handler
}

// GetHealthz operation middleware
func (siw *ServerInterfaceWrapper) GetHealthz(w http.ResponseWriter, r *http.Request) {
	siw.wrap(siw.Handler.GetHealthz).ServeHTTP(w, r)
}

// PostCompare operation middleware
func (siw *ServerInterfaceWrapper) PostCompare(w http.ResponseWriter, r *http.Request) {
	siw.wrap(siw.Handler.PostCompare).ServeHTTP(w, r)
}

// PostIdentify operation middleware
func (siw *ServerInterfaceWrapper) PostIdentify(w http.ResponseWriter, r *http.Request) {
	var params PostIdentifyParams

	err := runtime.BindQueryParameter("form", true, false, "status", r.URL.Query(), &params.Status)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "status", Err: err})
		return
	}

	siw.wrap(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.PostIdentify(w, r, params)
	}).ServeHTTP(w, r)
}

// PostMissing operation middleware
func (siw *ServerInterfaceWrapper) PostMissing(w http.ResponseWriter, r *http.Request) {
	siw.wrap(siw.Handler.PostMissing).ServeHTTP(w, r)
}

// InvalidParamFormatError reports a parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux mounts si on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{BaseRouter: r})
}

// HandlerWithOptions mounts si on options.BaseRouter, or a new router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/healthz", wrapper.GetHealthz)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/compare", wrapper.PostCompare)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/identify", wrapper.PostIdentify)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/missing", wrapper.PostMissing)
	})
	return r
}
