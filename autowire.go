package hilt

import (
	"context"
	"fmt"
	"reflect"

	"github.com/danpasecinic/hilt/internal/container"
	"github.com/danpasecinic/hilt/internal/key"
	hreflect "github.com/danpasecinic/hilt/internal/reflect"
)

// RegisterFunc binds T to a constructor whose parameters are resolved by their
// unqualified type. The constructor may take a leading context.Context and may
// return (T, error).
//
//	func NewUserService(db *Database, log *slog.Logger) *UserService
//	hilt.RegisterFunc[*UserService](c, NewUserService)
func RegisterFunc[T any](c *Container, constructor any, opts ...BindingOption) error {
	typeName := hreflect.Name(hreflect.TypeOf[T]())

	ctor, err := hreflect.Inspect(constructor)
	if err != nil {
		return errInvalidConstructor(typeName, err)
	}

	expected := hreflect.TypeOf[T]()
	if !ctor.Result.AssignableTo(expected) {
		return errInvalidConstructor(
			typeName,
			fmt.Errorf("constructor returns %s, expected %s", hreflect.Name(ctor.Result), typeName),
		)
	}

	params := make([]Key, len(ctor.Params))
	for i, p := range ctor.Params {
		k, err := key.New(p, nil)
		if err != nil {
			return errInvalidQualifier(err)
		}
		params[i] = k
	}

	return Register(c, func(ctx context.Context, r Resolver) (T, error) {
		return callConstructor[T](ctx, r, ctor, params)
	}, opts...)
}

func MustRegisterFunc[T any](c *Container, constructor any, opts ...BindingOption) {
	if err := RegisterFunc[T](c, constructor, opts...); err != nil {
		panic(err)
	}
}

func callConstructor[T any](
	ctx context.Context,
	r container.Resolver,
	ctor *hreflect.Constructor,
	params []Key,
) (T, error) {
	var zero T

	args := make([]reflect.Value, 0, len(params)+1)
	if ctor.TakesContext {
		args = append(args, reflect.ValueOf(&ctx).Elem())
	}

	for i, k := range params {
		instance, err := r.Resolve(ctx, k)
		if err != nil {
			return zero, err
		}
		if hreflect.IsNil(instance) {
			args = append(args, reflect.Zero(ctor.Params[i]))
			continue
		}
		v := reflect.ValueOf(instance)
		if !v.Type().AssignableTo(ctor.Params[i]) {
			return zero, errTypeMismatch(k, instance)
		}
		args = append(args, v)
	}

	results := ctor.Fn.Call(args)

	if ctor.ReturnsError && !results[1].IsNil() {
		return zero, results[1].Interface().(error)
	}

	return cast[T](KeyFor[T](), results[0].Interface())
}
