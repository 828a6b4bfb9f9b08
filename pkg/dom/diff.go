package dom

import "reflect"

type unset struct{}

// Unset marks a style key that was present in the old snapshot and is
// absent from the new one.
var Unset any = unset{}

// IsUnset reports whether v is the Unset marker.
func IsUnset(v any) bool {
	_, ok := v.(unset)
	return ok
}

// DiffProps returns the keys of next whose values are new or differ from
// prev. Keys present in prev but missing from next map to Unset.
// The result is never nil.
func DiffProps(prev, next map[string]any) map[string]any {
	diff := make(map[string]any)

	// Check for removed/changed props
	for key, prevVal := range prev {
		nextVal, exists := next[key]
		if !exists {
			diff[key] = Unset
		} else if !propsEqual(prevVal, nextVal) {
			diff[key] = nextVal
		}
	}

	// Check for added props
	for key, nextVal := range next {
		if _, exists := prev[key]; !exists {
			diff[key] = nextVal
		}
	}

	return diff
}

// mergeProps copies src into dst; entries of src win.
func mergeProps(dst, src map[string]any) map[string]any {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// cloneProps returns a shallow copy of m.
func cloneProps(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// propsEqual compares two prop values for equality.
func propsEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	// Fallback to reflect for complex types
	return reflect.DeepEqual(a, b)
}
