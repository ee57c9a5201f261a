package reflect

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"sync"
)

var nameCache sync.Map

var (
	errorType   = reflect.TypeFor[error]()
	contextType = reflect.TypeFor[context.Context]()
)

// ErrNotFunc is returned by Inspect when the value is not a function.
var ErrNotFunc = errors.New("constructor must be a function")

// ErrBadResults is returned by Inspect when the function results are not (T) or (T, error).
var ErrBadResults = errors.New("constructor must return T or (T, error)")

var ErrVariadic = errors.New("variadic constructors are not supported")

func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Name returns a package-qualified display name for t.
func Name(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if cached, ok := nameCache.Load(t); ok {
		return cached.(string)
	}

	name := buildName(t)
	nameCache.Store(t, name)
	return name
}

func buildName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + buildName(t.Elem())
	case reflect.Slice:
		return "[]" + buildName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + buildName(t.Elem())
	case reflect.Map:
		return "map[" + buildName(t.Key()) + "]" + buildName(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildName(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildName(t.Elem())
		default:
			return "chan " + buildName(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" && t.Name() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		if t.Name() == "" {
			return t.String()
		}
		return t.Name()
	}
}

// Comparable reports whether v can be compared with == without panicking. It
// looks at the dynamic value, so a struct holding a slice in an interface
// field is rejected.
func Comparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}

func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// Constructor describes a function registered for autowiring.
type Constructor struct {
	Fn           reflect.Value
	Params       []reflect.Type
	Result       reflect.Type
	TakesContext bool
	ReturnsError bool
}

// Inspect validates fn and extracts its parameter and result types. A leading
// context.Context parameter is reported separately and excluded from Params.
func Inspect(fn any) (*Constructor, error) {
	if fn == nil {
		return nil, ErrNotFunc
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, ErrNotFunc
	}
	if t.IsVariadic() {
		return nil, ErrVariadic
	}

	switch {
	case t.NumOut() == 1 && t.Out(0) != errorType:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return nil, ErrBadResults
	}

	c := &Constructor{
		Fn:           v,
		Result:       t.Out(0),
		ReturnsError: t.NumOut() == 2,
	}

	start := 0
	if t.NumIn() > 0 && t.In(0) == contextType {
		c.TakesContext = true
		start = 1
	}
	for i := start; i < t.NumIn(); i++ {
		c.Params = append(c.Params, t.In(i))
	}

	return c, nil
}

func Implements[T any](v any) bool {
	if v == nil {
		return false
	}
	_, ok := v.(T)
	return ok
}
