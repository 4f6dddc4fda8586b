package minimalapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"runtime/debug"
)

// App registers endpoint catalogs into a Router and forwards every bound
// request to a Dispatcher.
//
// Example:
//
//	mux := minimalapi.NewMux(nil)
//	app := minimalapi.NewApp(mux).WithDispatcher(m)
//	if _, err := app.Register(catalog); err != nil {
//	    log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", mux)
type App struct {
	router             Router
	dispatcher         Dispatcher
	logger             *slog.Logger
	basePath           string
	maxRequestBodySize uint64
	maxMultipartMemory int64
	errorTransformer   ErrorTransformer
	maskInternalErrors bool
	middlewares        []func(http.Handler) http.Handler
	antiForgery        *http.CrossOriginProtection
	registry           *Registry
}

// NewApp returns an App that installs routes into router.
func NewApp(router Router) *App {
	return &App{
		router:             router,
		maxRequestBodySize: defaultMaxRequestBodySize,
		maxMultipartMemory: defaultMaxMultipartMemory,
	}
}

// WithDispatcher sets the collaborator bound requests are sent to.
// Register fails without one.
func (a *App) WithDispatcher(d Dispatcher) *App {
	a.dispatcher = d
	return a
}

// WithLogger sets a custom logger for the app.
// If not set, slog.Default() will be used.
func (a *App) WithLogger(logger *slog.Logger) *App {
	a.logger = logger
	return a
}

// WithBasePath prefixes every route path.
func (a *App) WithBasePath(path string) *App {
	a.basePath = path
	return a
}

// WithMaxRequestBodySize sets the maximum request body size.
// A value of 0 means no limit. Default is 1MB (1 << 20).
func (a *App) WithMaxRequestBodySize(size uint64) *App {
	a.maxRequestBodySize = size
	return a
}

// WithMaxMultipartMemory sets how much of a multipart form is kept in memory
// before file parts spill to disk. Default is 32MB.
func (a *App) WithMaxMultipartMemory(size int64) *App {
	a.maxMultipartMemory = size
	return a
}

// WithErrorTransformer adds a custom error transformer.
// It returns the app for chaining.
func (a *App) WithErrorTransformer(fn ErrorTransformer) *App {
	a.errorTransformer = fn
	return a
}

// WithMaskInternalErrors enables masking of internal error messages.
// This is useful in production to avoid leaking sensitive information.
// The original error is still logged.
func (a *App) WithMaskInternalErrors() *App {
	a.maskInternalErrors = true
	return a
}

// WithMiddleware adds an HTTP middleware wrapped around every installed route.
// Middleware is applied in the order added (first added is outermost).
func (a *App) WithMiddleware(mw func(http.Handler) http.Handler) *App {
	a.middlewares = append(a.middlewares, mw)
	return a
}

// WithAntiForgery sets the protection applied to form endpoints that enable
// anti-forgery. By default cross-origin browser requests with unsafe methods
// are rejected with permission_denied.
func (a *App) WithAntiForgery(p *http.CrossOriginProtection) *App {
	a.antiForgery = p
	return a
}

// Registry returns the table built by Register, or nil before registration.
func (a *App) Registry() *Registry {
	return a.registry
}

func (a *App) log() *slog.Logger {
	if a.logger == nil {
		return slog.Default()
	}
	return a.logger
}

// route is a planned endpoint waiting to be installed.
type route struct {
	desc    *Descriptor
	handler http.Handler
}

// Register plans every endpoint of the catalogs in order and then installs
// them. If any endpoint is misconfigured nothing is installed and the error
// identifies the offending type.
func (a *App) Register(catalogs ...*Catalog) (*Registry, error) {
	if a.dispatcher == nil {
		return nil, &DependencyMissingError{Dependency: "dispatcher"}
	}
	if a.router == nil {
		return nil, &DependencyMissingError{Dependency: "router"}
	}
	if a.registry != nil {
		return nil, errors.New("minimalapi: endpoints already registered")
	}

	var planned []route
	seen := make(map[string]*Descriptor)
	for _, c := range catalogs {
		if c == nil {
			continue
		}
		for _, e := range c.endpoints {
			rt, err := a.plan(c, e)
			if err != nil {
				return nil, err
			}
			key := rt.desc.String()
			if prev, dup := seen[key]; dup {
				return nil, &ConfigurationError{
					Type:   rt.desc.HandlerType,
					Reason: fmt.Sprintf("%s is already served by %s", key, prev.HandlerName()),
					Err:    ErrDuplicateRoute,
				}
			}
			seen[key] = rt.desc
			planned = append(planned, rt)
		}
	}

	if checker, ok := a.router.(RouteChecker); ok {
		patterns := make([]RoutePattern, len(planned))
		for i, rt := range planned {
			patterns[i] = RoutePattern{Method: rt.desc.Method, Pattern: rt.desc.Path}
		}
		if err := checker.CheckRoutes(patterns); err != nil {
			return nil, err
		}
	}

	logger := a.log()
	descriptors := make([]*Descriptor, 0, len(planned))
	for _, rt := range planned {
		if err := a.router.Handle(rt.desc.Method, rt.desc.Path, rt.handler); err != nil {
			return nil, withType(err, rt.desc.HandlerType)
		}
		logger.Debug("route installed",
			slog.String("method", rt.desc.Method),
			slog.String("path", rt.desc.Path),
			slog.String("handler", rt.desc.HandlerName()),
			slog.String("binding", rt.desc.Binding.String()))
		descriptors = append(descriptors, rt.desc)
	}

	a.registry = newRegistry(descriptors)
	logger.Info("endpoints registered", slog.Int("count", len(descriptors)))
	return a.registry, nil
}

func (a *App) plan(c *Catalog, e Endpoint) (route, error) {
	if e.Handler == nil {
		return route{}, &ValidationError{Reason: fmt.Sprintf("%s %s", e.Method, e.Route), Err: ErrMissingHandler}
	}
	handlerType := reflect.TypeOf(e.Handler)

	method, err := canonicalMethod(e.Method)
	if err != nil {
		return route{}, withType(err, handlerType)
	}

	requestType, responseType, err := ValidateHandler(handlerType)
	if err != nil {
		return route{}, err
	}

	base := derefType(handlerType)
	path, err := ResolvePath(e.Route, c.root, base.PkgPath(), base.Name(), e.Name)
	if err != nil {
		return route{}, withType(err, handlerType)
	}
	if a.basePath != "" {
		path = NormalizePath(a.basePath, path)
	}

	declared := DefaultBinding(method)
	if e.Binding != nil {
		if *e.Binding != ByField && *e.Binding != WholeBody {
			return route{}, &ConfigurationError{
				Type:   handlerType,
				Reason: "form strategies are selected by a FormBinding annotation, not " + e.Binding.String(),
			}
		}
		declared = *e.Binding
	}

	handlerMetadata := append(append([]any(nil), annotationsOf(handlerType)...), e.Metadata...)
	requestMetadata := annotationsOf(requestType)
	b, err := Classify(requestType, requestMetadata, declared)
	if err != nil {
		return route{}, withType(err, requestType)
	}

	model := e.ResponseModel
	if model == nil {
		model = c.responseModel(requestType)
	}

	d := &Descriptor{
		Method:          method,
		Path:            path,
		HandlerType:     base,
		HandlerMetadata: handlerMetadata,
		RequestType:     requestType,
		RequestMetadata: requestMetadata,
		ResponseType:    responseType,
		Binding:         b.Strategy,
		Form:            b.Form,
		ResponseModel:   model,
		RouteMetadata:   routeMetadata(handlerMetadata),
	}
	bind, err := a.newBinder(d, b)
	if err != nil {
		return route{}, err
	}
	return route{desc: d, handler: a.routeHandler(d, bind)}, nil
}

func (a *App) routeHandler(d *Descriptor, bind binder) http.Handler {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				a.log().Error("PANIC recovered",
					slog.String("route", d.String()),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())))
				writeError(w, NewError(CodeInternal, fmt.Sprintf("internal server error (panic): %v", rec)), a.logger)
			}
		}()

		ctx := r.Context()
		if a.maxRequestBodySize > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, int64(a.maxRequestBodySize))
		}

		req, err := bind(r)
		if err == nil {
			err = validateRequest(req)
		}
		if err != nil {
			a.handleError(w, d, err)
			return
		}

		res, err := a.dispatcher.Send(ctx, req)
		if err != nil {
			a.handleError(w, d, err)
			return
		}
		if res == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := res.WriteResult(w, r); err != nil {
			a.log().ErrorContext(ctx, "failed to write result",
				slog.String("route", d.String()),
				slog.Any("error", err))
		}
	})

	if d.AntiForgery() {
		h = a.crossOriginProtection().Handler(h)
	}
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		h = a.middlewares[i](h)
	}
	inner := h
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner.ServeHTTP(w, r.WithContext(newContext(r.Context(), r, d)))
	})
}

func (a *App) crossOriginProtection() *http.CrossOriginProtection {
	if a.antiForgery == nil {
		p := http.NewCrossOriginProtection()
		p.SetDenyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, NewError(CodePermissionDenied, "cross-origin request rejected"), a.logger)
		}))
		a.antiForgery = p
	}
	return a.antiForgery
}

func (a *App) handleError(w http.ResponseWriter, d *Descriptor, err error) {
	var reqErr *Error
	if a.errorTransformer != nil {
		reqErr = a.errorTransformer(err)
	}
	if reqErr == nil {
		reqErr = DefaultErrorTransformer(err)
	}
	if reqErr.Code == CodeInternal {
		a.log().Error("request failed",
			slog.String("route", d.String()),
			slog.Any("error", err))
		if a.maskInternalErrors {
			reqErr = NewError(CodeInternal, "internal server error")
		}
	}
	writeError(w, reqErr, a.logger)
}
