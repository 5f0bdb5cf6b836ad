package util

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// KeyString renders a level key for logs and hooks. Distinct keys may
// render alike (composite keys, Stringers); never use it as an identity.
func KeyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprint(key)
	}
}

// ScalarFunc returns a lossless renderer for key types whose underlying kind
// is a string or an integer. Named types render by their underlying value,
// ignoring any String method. ok is false for every other kind.
func ScalarFunc[K comparable]() (render func(K) string, ok bool) {
	switch reflect.TypeOf((*K)(nil)).Elem().Kind() {
	case reflect.String:
		return func(k K) string { return reflect.ValueOf(k).String() }, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(k K) string { return strconv.FormatInt(reflect.ValueOf(k).Int(), 10) }, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(k K) string { return strconv.FormatUint(reflect.ValueOf(k).Uint(), 10) }, true
	default:
		return nil, false
	}
}

// StorageKey isolates a rendered key inside a provider keyspace: "<ns>:<key>".
func StorageKey(ns, key string) string {
	var b strings.Builder
	b.Grow(len(ns) + 1 + len(key))
	b.WriteString(ns)
	b.WriteByte(':')
	b.WriteString(key)
	return b.String()
}
