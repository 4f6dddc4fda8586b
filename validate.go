package minimalapi

import (
	"context"
	"fmt"
	"reflect"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
	resultType  = reflect.TypeFor[Result]()
)

// ValidateHandler checks that t implements RequestHandler[Req, Result] and
// returns the request and response types of its Handle method.
func ValidateHandler(t reflect.Type) (request, response reflect.Type, err error) {
	if t == nil {
		return nil, nil, &ValidationError{Err: ErrNotHandler, Reason: "nil handler"}
	}

	m, ok := t.MethodByName("Handle")
	if !ok && t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		if _, ptrOK := reflect.PointerTo(t).MethodByName("Handle"); ptrOK {
			return nil, nil, &ValidationError{
				Type:   t,
				Err:    ErrNotHandler,
				Reason: "Handle has a pointer receiver; register a pointer to " + t.Name(),
			}
		}
	}
	if !ok {
		return nil, nil, &ValidationError{Type: t, Err: ErrNotHandler, Reason: "no Handle method"}
	}

	mt := m.Type
	in := mt.NumIn()
	if t.Kind() != reflect.Interface {
		// Method types obtained from a concrete type include the receiver.
		in--
	}
	if in != 2 || mt.NumOut() != 2 {
		return nil, nil, &ValidationError{
			Type:   t,
			Err:    ErrArityMismatch,
			Reason: fmt.Sprintf("Handle must take (context.Context, Request) and return (Result, error), got %s", mt),
		}
	}

	first := mt.In(mt.NumIn() - 2)
	if first != contextType {
		return nil, nil, &ValidationError{
			Type:   t,
			Err:    ErrNotHandler,
			Reason: "first Handle parameter must be context.Context, got " + first.String(),
		}
	}
	if mt.Out(1) != errorType {
		return nil, nil, &ValidationError{
			Type:   t,
			Err:    ErrNotHandler,
			Reason: "last Handle result must be error, got " + mt.Out(1).String(),
		}
	}

	request = mt.In(mt.NumIn() - 1)
	response = mt.Out(0)
	if response != resultType {
		return nil, nil, &ValidationError{
			Type:   t,
			Err:    ErrResponseMismatch,
			Reason: "Handle must return minimalapi.Result, got " + response.String(),
		}
	}
	return request, response, nil
}
