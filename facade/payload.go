package facade

import (
	"reflect"

	vhttp "github.com/kochabx/vaxios/core/net/http"
	"github.com/kochabx/vaxios/errors"
)

const (
	msgObject        = "payload must be Object"
	msgArrayOrObject = "payload must be Array or Object"
)

// paramsPayload validates an optional GET/DELETE payload. An absent or empty
// payload yields nil params; otherwise it must be a map with string keys.
// Top-level entries holding "" or nil are dropped.
func paramsPayload(payload any) (vhttp.Params, error) {
	if isEmpty(payload) {
		return nil, nil
	}

	rv := reflect.Indirect(reflect.ValueOf(payload))
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, errors.Validation(msgObject)
	}

	params := make(vhttp.Params, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		value := iter.Value().Interface()
		if isNullish(value) {
			continue
		}
		params[iter.Key().String()] = value
	}

	return params, nil
}

// bodyPayload validates a required POST/PUT/PATCH payload: a slice, array,
// map or struct. The payload is returned untouched.
func bodyPayload(payload any) (any, error) {
	if payload == nil {
		return nil, errors.Validation(msgArrayOrObject)
	}

	rv := reflect.ValueOf(payload)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, errors.Validation(msgArrayOrObject)
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return payload, nil
	default:
		return nil, errors.Validation(msgArrayOrObject)
	}
}

// isEmpty reports whether an optional payload counts as absent
func isEmpty(payload any) bool {
	if payload == nil {
		return true
	}

	rv := reflect.ValueOf(payload)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() == 0
	}
	return false
}

// isNullish reports whether a param value is nil or an empty string
func isNullish(value any) bool {
	if value == nil {
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
