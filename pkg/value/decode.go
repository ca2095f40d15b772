// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package value

import (
	"reflect"
)

// ValueDecoder is implemented by pointer-receiver types that know how to
// decode themselves from a Value directly, the decode-side counterpart of
// Valuer. Enum-like backend state types implement this to unwrap the
// variant-name-keyed shapes Valuer produces.
type ValueDecoder interface {
	ValueDecode(Value) error
}

var valueType = reflect.TypeOf(Value{})

// Decode converts a Value into out, which must be a non-nil pointer. It is
// the reflection-based mirror of Encode: the same primitive kinds, slices,
// arrays, map[string]V maps, structs (via `value` tags) and pointers are
// supported, plus any type implementing ValueDecoder.
func Decode(v Value, out any) error {
	if dec, ok := out.(ValueDecoder); ok {
		return dec.ValueDecode(v)
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return decodeErrorf("decode target must be a non-nil pointer")
	}
	return decodeReflect(v, rv.Elem())
}

func decodeReflect(v Value, rv reflect.Value) error {
	if rv.Type() == valueType {
		rv.Set(reflect.ValueOf(v))
		return nil
	}
	if rv.CanAddr() {
		if dec, ok := rv.Addr().Interface().(ValueDecoder); ok {
			return dec.ValueDecode(v)
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return decodeErrorf("expected bool, got %s", v.Kind())
		}
		rv.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := v.AsSigned()
		if !ok {
			return decodeErrorf("expected integer, got %s", v.Kind())
		}
		if rv.OverflowInt(i) {
			return decodeErrorf("integer %d overflows %s", i, rv.Type())
		}
		rv.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, ok := v.AsUnsigned()
		if !ok {
			if s, sok := v.AsSigned(); sok && s >= 0 {
				u, ok = uint64(s), true
			}
		}
		if !ok {
			return decodeErrorf("expected unsigned integer, got %s", v.Kind())
		}
		if rv.OverflowUint(u) {
			return decodeErrorf("unsigned integer %d overflows %s", u, rv.Type())
		}
		rv.SetUint(u)
		return nil

	case reflect.Float32, reflect.Float64:
		f, ok := v.AsFloat()
		if !ok {
			return decodeErrorf("expected float, got %s", v.Kind())
		}
		rv.SetFloat(f)
		return nil

	case reflect.String:
		s, ok := v.AsString()
		if !ok {
			return decodeErrorf("expected string, got %s", v.Kind())
		}
		rv.SetString(s)
		return nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return decodeBytes(v, rv)
		}
		return decodeSlice(v, rv)

	case reflect.Array:
		return decodeArray(v, rv)

	case reflect.Map:
		return decodeMap(v, rv)

	case reflect.Struct:
		return decodeStruct(v, rv)

	case reflect.Ptr:
		if v.IsNull() {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeReflect(v, rv.Elem())

	default:
		return decodeErrorf("unsupported decode target type %s", rv.Type())
	}
}

func decodeBytes(v Value, rv reflect.Value) error {
	elems, ok := v.AsArray()
	if !ok {
		return decodeErrorf("expected array of octets, got %s", v.Kind())
	}
	out := make([]byte, len(elems))
	for i, e := range elems {
		u, ok := e.AsUnsigned()
		if !ok || u > 255 {
			return decodeErrorf("byte array element %d is not an octet", i)
		}
		out[i] = byte(u)
	}
	rv.SetBytes(out)
	return nil
}

func decodeSlice(v Value, rv reflect.Value) error {
	elems, ok := v.AsArray()
	if !ok {
		return decodeErrorf("expected array, got %s", v.Kind())
	}
	out := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
	for i, e := range elems {
		if err := decodeReflect(e, out.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func decodeArray(v Value, rv reflect.Value) error {
	elems, ok := v.AsArray()
	if !ok {
		return decodeErrorf("expected array, got %s", v.Kind())
	}
	if len(elems) != rv.Len() {
		return decodeErrorf("expected array of length %d, got %d", rv.Len(), len(elems))
	}
	for i, e := range elems {
		if err := decodeReflect(e, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func decodeMap(v Value, rv reflect.Value) error {
	obj, ok := v.AsObject()
	if !ok {
		return decodeErrorf("expected object, got %s", v.Kind())
	}
	if rv.Type().Key().Kind() != reflect.String {
		return decodeErrorf("map decode only supports string keys, got %s", rv.Type().Key())
	}
	out := reflect.MakeMapWithSize(rv.Type(), len(obj))
	elemType := rv.Type().Elem()
	for k, e := range obj {
		ev := reflect.New(elemType).Elem()
		if err := decodeReflect(e, ev); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()), ev)
	}
	rv.Set(out)
	return nil
}

func decodeStruct(v Value, rv reflect.Value) error {
	obj, ok := v.AsObject()
	if !ok {
		return decodeErrorf("expected object, got %s", v.Kind())
	}
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" && !field.Anonymous {
			continue
		}
		tag := parseStructTag(field)
		if tag.skip {
			continue
		}
		fieldVal, present := obj[tag.name]
		if !present {
			continue
		}
		if err := decodeReflect(fieldVal, rv.Field(i)); err != nil {
			return decodeErrorf("field %q: %v", tag.name, err)
		}
	}
	return nil
}
