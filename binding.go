package minimalapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

const (
	defaultMaxRequestBodySize  = 1 << 20  // 1MB
	defaultMaxMultipartMemory  = 32 << 20 // 32MB, same as net/http
	tagPath, tagQuery, tagForm = "path", "query", "form"
	tagHeader, tagBody         = "header", "body"
)

var (
	validate      = validator.New(validator.WithRequiredStructEnabled())
	pathDecoder   = newDecoder(tagPath)
	queryDecoder  = newDecoder(tagQuery)
	headerDecoder = newDecoder(tagHeader)
	formDecoder   = newDecoder(tagForm)
)

func newDecoder(tag string) *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag(tag)
	d.IgnoreUnknownKeys(true)
	return d
}

// binder produces a fully populated request value from an HTTP request.
type binder func(r *http.Request) (any, error)

// BindForm decodes the form fields of r into a new T using `form` struct
// tags. Both url-encoded and multipart bodies are accepted.
func BindForm[T any](r *http.Request) (*T, error) {
	v := new(T)
	if err := decodeForm(r, v, defaultMaxMultipartMemory); err != nil {
		return nil, err
	}
	return v, nil
}

// newBinder builds the binder for a planned endpoint. Everything that can be
// checked without a request is checked here so that misconfigurations fail at
// registration time.
func (a *App) newBinder(d *Descriptor, b Binding) (binder, error) {
	reqType := d.RequestType
	asPointer := reqType.Kind() == reflect.Pointer
	elem := reqType
	if asPointer {
		elem = reqType.Elem()
		if elem.Kind() == reflect.Pointer {
			return nil, &ConfigurationError{Type: reqType, Reason: "request type is a pointer to a pointer", Err: ErrUnconstructible}
		}
	}
	finish := func(ptr reflect.Value) any {
		if asPointer {
			return ptr.Interface()
		}
		return ptr.Elem().Interface()
	}
	params := routeParams(d.Path)

	switch b.Strategy {
	case ByField:
		fields := a.newFieldBinder(elem, params)
		bodyIndex, hasBody := bodyField(elem)
		return func(r *http.Request) (any, error) {
			ptr := reflect.New(elem)
			if err := fields(r, ptr.Interface()); err != nil {
				return nil, err
			}
			if hasBody {
				if err := decodeJSONBody(r, ptr.Elem().FieldByIndex(bodyIndex).Addr().Interface()); err != nil {
					return nil, err
				}
			}
			return finish(ptr), nil
		}, nil

	case WholeBody:
		return func(r *http.Request) (any, error) {
			ptr := reflect.New(elem)
			if err := decodeJSONBody(r, ptr.Interface()); err != nil {
				return nil, err
			}
			return finish(ptr), nil
		}, nil

	case WholeForm:
		maxMemory := a.maxMultipartMemory
		return func(r *http.Request) (any, error) {
			ptr := reflect.New(elem)
			if err := decodeForm(r, ptr.Interface(), maxMemory); err != nil {
				return nil, err
			}
			return finish(ptr), nil
		}, nil

	case SplitForm:
		maxMemory := a.maxMultipartMemory
		formField, paramField := b.FormField, b.ParamField
		fields := a.newFieldBinder(derefType(paramField.Type), params)
		return func(r *http.Request) (any, error) {
			formPtr := reflect.New(derefType(formField.Type))
			if err := decodeForm(r, formPtr.Interface(), maxMemory); err != nil {
				return nil, err
			}
			paramPtr := reflect.New(derefType(paramField.Type))
			if err := fields(r, paramPtr.Interface()); err != nil {
				return nil, err
			}

			ptr := reflect.New(elem)
			assign(ptr.Elem().Field(formField.Index[0]), formPtr)
			assign(ptr.Elem().Field(paramField.Index[0]), paramPtr)
			return finish(ptr), nil
		}, nil
	}
	return nil, &ConfigurationError{Type: reqType, Reason: "unsupported binding strategy " + b.Strategy.String()}
}

// newFieldBinder decodes query, header and route values into a struct
// pointer. Each source only reaches the fields tagged for it; untagged fields
// bind from the query string. Route values are applied last so they win.
func (a *App) newFieldBinder(elem reflect.Type, params []string) func(r *http.Request, dst any) error {
	if elem.Kind() != reflect.Struct {
		return func(*http.Request, any) error { return nil }
	}
	src := newFieldSources(elem)
	router := a.router
	return func(r *http.Request, dst any) error {
		if len(src.query) > 0 {
			if err := queryDecoder.Decode(dst, pick(r.URL.Query(), src.query)); err != nil {
				return Errorf(CodeInvalidArgument, "failed to decode query: %v", err)
			}
		}
		if len(src.header) > 0 {
			if err := headerDecoder.Decode(dst, pick(r.Header, src.header)); err != nil {
				return Errorf(CodeInvalidArgument, "failed to decode headers: %v", err)
			}
		}
		if len(src.path) > 0 && len(params) > 0 {
			values := make(url.Values, len(params))
			for _, name := range params {
				alias, ok := src.path[strings.ToLower(name)]
				if !ok {
					continue
				}
				if v := router.PathValue(r, name); v != "" {
					values.Set(alias, v)
				}
			}
			if err := pathDecoder.Decode(dst, values); err != nil {
				return Errorf(CodeInvalidArgument, "failed to decode route values: %v", err)
			}
		}
		return nil
	}
}

// fieldSources maps the lower-cased keys a struct accepts from each HTTP
// source to the alias its decoder expects.
type fieldSources struct {
	query, header, path map[string]string
}

func newFieldSources(t reflect.Type) fieldSources {
	s := fieldSources{
		query:  make(map[string]string),
		header: make(map[string]string),
		path:   make(map[string]string),
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if _, ok := f.Tag.Lookup(tagBody); ok {
			continue
		}
		tagged := false
		for _, src := range []struct {
			tag  string
			keys map[string]string
		}{{tagQuery, s.query}, {tagHeader, s.header}, {tagPath, s.path}, {tagForm, nil}} {
			name, ok := tagName(f, src.tag)
			if !ok {
				continue
			}
			tagged = true
			if name != "" && src.keys != nil {
				src.keys[strings.ToLower(name)] = name
			}
		}
		if !tagged {
			s.query[strings.ToLower(f.Name)] = f.Name
		}
	}
	return s
}

// tagName returns the key named by tag on f. A tag of "-" reports ok with
// an empty name.
func tagName(f reflect.StructField, tag string) (string, bool) {
	v, ok := f.Tag.Lookup(tag)
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(v, ",")
	switch name {
	case "-":
		return "", true
	case "":
		return f.Name, true
	}
	return name, true
}

// pick keeps the entries of src whose key is accepted, renamed to the
// decoder alias. Keys match case-insensitively.
func pick(src map[string][]string, keys map[string]string) url.Values {
	out := make(url.Values, len(keys))
	for k, vs := range src {
		if alias, ok := keys[strings.ToLower(k)]; ok {
			out[alias] = append(out[alias], vs...)
		}
	}
	return out
}

func decodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return Errorf(CodeInvalidArgument, "failed to decode body: %v", err)
	}
	return nil
}

func decodeForm(r *http.Request, dst any, maxMemory int64) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return Errorf(CodeUnsupportedMedia, "expected a form content type: %v", err)
	}
	switch mediaType {
	case "multipart/form-data":
		err = r.ParseMultipartForm(maxMemory)
	case "application/x-www-form-urlencoded":
		err = r.ParseForm()
	default:
		return Errorf(CodeUnsupportedMedia, "expected a form content type, got %s", mediaType)
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return Errorf(CodeInvalidArgument, "failed to parse form: %v", err)
	}
	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return Errorf(CodeInvalidArgument, "failed to decode form: %v", err)
	}
	return nil
}

func validateRequest(req any) error {
	if derefType(reflect.TypeOf(req)).Kind() != reflect.Struct {
		return nil
	}
	return validate.Struct(req)
}

// assign stores the freshly bound *T in field, which is either T or *T.
func assign(field reflect.Value, ptr reflect.Value) {
	if field.Kind() == reflect.Pointer {
		field.Set(ptr)
		return
	}
	field.Set(ptr.Elem())
}

func bodyField(t reflect.Type) ([]int, bool) {
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if _, ok := f.Tag.Lookup(tagBody); ok && f.IsExported() {
			return f.Index, true
		}
	}
	return nil, false
}
