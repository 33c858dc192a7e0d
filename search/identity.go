package search

import "reflect"

type refKey struct {
	typ reflect.Type
	ptr uintptr
}

// identityKey returns a map key that compares represented objects by
// identity: pointers by address, other comparable values by equality.
// Values that are neither report ok=false.
func identityKey(v any) (key any, ok bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice, reflect.Chan:
		return refKey{typ: rv.Type(), ptr: rv.Pointer()}, true
	}
	// The type check alone passes structs whose interface fields hold
	// slices or maps, which would panic as map keys.
	if rv.Comparable() {
		return v, true
	}
	return nil, false
}

// SameObject reports whether a and b are the same represented object.
func SameObject(a, b any) bool {
	ka, okA := identityKey(a)
	kb, okB := identityKey(b)
	if !okA || !okB {
		return false
	}
	return ka == kb
}
