package memo

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// hashedKey is the composed form of a normalized argument list: the xxhash
// digest of the canonical argument encoding, computed exactly once when the
// key is built. Two calls with equal arguments (and equal types, when typed
// keys are enabled) always produce the same hashedKey; unequal argument
// lists collide only at the hash function's collision rate.
type hashedKey uint64

// Tag bytes for the canonical encoding. Every component is written as a tag
// followed by a length-delimited or fixed-form payload, so argument content
// can never forge the keyword separator or another component's boundary.
const (
	tagNil     = 'z'
	tagBool    = 'b'
	tagString  = 's'
	tagNumber  = 'n'
	tagPointer = 'p'
	tagOther   = 'o'
	tagKwMark  = '#'
	tagKwName  = 'k'
	tagType    = 'T'
)

// makeKey normalizes one call's arguments into a single comparable key.
//
// The result is either the argument itself (single untyped string or bool,
// used directly as the map key) or a hashedKey over
// the canonical encoding: positional arguments in order, then a marker and
// the keyword items sorted by name, then, for typed keys, the dynamic type
// of every argument in the same order.
func makeKey(args []any, kwargs map[string]any, typed bool) (any, error) {
	// Numeric types stay off the fast path: an untyped int and float of
	// equal value must land on the same composed key.
	if !typed && len(kwargs) == 0 && len(args) == 1 {
		switch args[0].(type) {
		case string, bool:
			return args[0], nil
		}
	}

	d := xxhash.New()
	for _, a := range args {
		if err := writeValue(d, a); err != nil {
			return nil, err
		}
	}

	var names []string
	if len(kwargs) > 0 {
		names = make([]string, 0, len(kwargs))
		for name := range kwargs {
			names = append(names, name)
		}
		sort.Strings(names)

		writeTag(d, tagKwMark, "")
		for _, name := range names {
			writeTag(d, tagKwName, name)
			if err := writeValue(d, kwargs[name]); err != nil {
				return nil, err
			}
		}
	}

	if typed {
		for _, a := range args {
			writeTag(d, tagType, fmt.Sprintf("%T", a))
		}
		for _, name := range names {
			writeTag(d, tagType, fmt.Sprintf("%T", kwargs[name]))
		}
	}

	return hashedKey(d.Sum64()), nil
}

// writeTag frames one component as tag + payload length + payload.
func writeTag(d *xxhash.Digest, tag byte, payload string) {
	d.Write([]byte{tag})
	d.WriteString(strconv.Itoa(len(payload)))
	d.Write([]byte{':'})
	d.WriteString(payload)
}

// writeValue encodes a single argument into the digest.
//
// Integers and floats share one canonical numeric form so that, with typed
// keys disabled, calls like f(3) and f(3.0) land on the same entry; the
// typed augmentation is what separates them again. Pointers and channels
// encode by identity. Anything non-comparable is rejected as unhashable.
func writeValue(d *xxhash.Digest, v any) error {
	switch x := v.(type) {
	case nil:
		writeTag(d, tagNil, "")
	case bool:
		if x {
			writeTag(d, tagBool, "1")
		} else {
			writeTag(d, tagBool, "0")
		}
	case string:
		writeTag(d, tagString, x)
	case int:
		writeTag(d, tagNumber, strconv.FormatInt(int64(x), 10))
	case int8:
		writeTag(d, tagNumber, strconv.FormatInt(int64(x), 10))
	case int16:
		writeTag(d, tagNumber, strconv.FormatInt(int64(x), 10))
	case int32:
		writeTag(d, tagNumber, strconv.FormatInt(int64(x), 10))
	case int64:
		writeTag(d, tagNumber, strconv.FormatInt(x, 10))
	case uint:
		writeTag(d, tagNumber, strconv.FormatUint(uint64(x), 10))
	case uint8:
		writeTag(d, tagNumber, strconv.FormatUint(uint64(x), 10))
	case uint16:
		writeTag(d, tagNumber, strconv.FormatUint(uint64(x), 10))
	case uint32:
		writeTag(d, tagNumber, strconv.FormatUint(uint64(x), 10))
	case uint64:
		writeTag(d, tagNumber, strconv.FormatUint(x, 10))
	case uintptr:
		writeTag(d, tagNumber, strconv.FormatUint(uint64(x), 10))
	case float32:
		writeTag(d, tagNumber, formatNumeric(float64(x)))
	case float64:
		writeTag(d, tagNumber, formatNumeric(x))
	default:
		return writeReflected(d, v)
	}
	return nil
}

// formatNumeric renders a float in the same form an equal integer takes:
// 3.0 becomes "3", matching FormatInt(3), and 1000000.0 becomes "1000000".
// The 'f' format never switches to exponent notation, so integer-valued
// floats match their integer spelling at any magnitude. Negative zero folds
// into zero.
func formatNumeric(f float64) string {
	if f == 0 {
		f = 0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// writeReflected handles argument types outside the scalar switch.
func writeReflected(d *xxhash.Digest, v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return fmt.Errorf("%w: %T", ErrUnhashable, v)
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		writeTag(d, tagPointer, fmt.Sprintf("%T@%x", v, rv.Pointer()))
		return nil
	}
	// Value-level check: a comparable struct type can still hold an
	// incomparable value behind an interface field.
	if !rv.Comparable() {
		return fmt.Errorf("%w: %T", ErrUnhashable, v)
	}
	writeTag(d, tagOther, fmt.Sprintf("%T|%v", v, v))
	return nil
}
