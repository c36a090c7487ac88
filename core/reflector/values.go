package reflector

import "reflect"

// Fresh returns a usable empty T: a pointer to a newly allocated zero element
// when T is a pointer type, an empty map when T is a map, and the zero value
// otherwise.
func Fresh[T any]() T {
	var zero T
	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem()).Interface().(T)
	case reflect.Map:
		return reflect.MakeMap(t).Interface().(T)
	}
	return zero
}

// As converts v to T, dereferencing or taking the address of v when the two
// differ only by one level of pointer.
func As[T any](v any) (out T, ok bool) {
	if out, ok = v.(T); ok {
		return out, true
	}
	if v == nil {
		return out, false
	}

	want := reflect.TypeFor[T]()
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Type().Elem() == want:
		return rv.Elem().Interface().(T), true
	case want.Kind() == reflect.Pointer && want.Elem() == rv.Type():
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		return p.Interface().(T), true
	}
	return out, false
}
