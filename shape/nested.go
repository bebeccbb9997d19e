package shape

import (
	"fmt"
	"math"
	"reflect"
)

// Infer returns the shape of a nested array (slices, arrays, or []any trees).
// A non-slice value is a scalar with the empty shape.
func Infer(nested any) (Shape, error) {
	if nested == nil {
		return Shape{0}, nil
	}
	v := reflect.ValueOf(nested)

	var s Shape
	for cur := v; ; {
		cur = unwrap(cur)
		if !isList(cur) {
			break
		}
		s = append(s, cur.Len())
		if cur.Len() == 0 {
			break
		}
		cur = cur.Index(0)
	}

	if err := validateTree(v, s, 0); err != nil {
		return nil, err
	}
	return s, nil
}

// IsEmpty reports whether a nested array holds no elements.
func IsEmpty(nested any) bool {
	s, err := Infer(nested)
	if err != nil {
		return false
	}
	return len(s) > 0 && s.Size() == 0
}

// Flatten walks a nested array in row-major order and returns its leaves and shape.
// Leaves must be of type T; numeric leaves are converted between numeric kinds.
func Flatten[T any](nested any) ([]T, Shape, error) {
	target := reflect.TypeFor[T]()
	if target.Kind() != reflect.Interface {
		switch x := nested.(type) {
		case []T:
			out := make([]T, len(x))
			copy(out, x)
			return out, Shape{len(x)}, nil
		case [][]T:
			return flatten2(x)
		}
	}

	s, err := Infer(nested)
	if err != nil {
		return nil, nil, err
	}
	out := make([]T, 0, s.Size())
	if s.Size() == 0 {
		return out, s, nil
	}

	var walk func(v reflect.Value, depth int) error
	walk = func(v reflect.Value, depth int) error {
		v = unwrap(v)
		if depth == len(s) {
			leaf, err := convertLeaf[T](v, target)
			if err != nil {
				return err
			}
			out = append(out, leaf)
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := walk(v.Index(i), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(reflect.ValueOf(nested), 0); err != nil {
		return nil, nil, err
	}
	return out, s, nil
}

func flatten2[T any](rows [][]T) ([]T, Shape, error) {
	if len(rows) == 0 {
		return []T{}, Shape{0}, nil
	}
	cols := len(rows[0])
	out := make([]T, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, nil, fmt.Errorf("%w: row %d has %d elements, want %d", ErrRagged, i, len(r), cols)
		}
		out = append(out, r...)
	}
	return out, Shape{len(rows), cols}, nil
}

// Unflatten rebuilds a typed nested slice ([]T, [][]T, [][][]T, ...) of shape s
// from a row-major flat buffer. The empty shape yields the single scalar.
func Unflatten[T any](flat []T, s Shape) (any, error) {
	if len(flat) != s.Size() {
		return nil, fmt.Errorf("%w: %d elements cannot fill shape %s", ErrSizeMismatch, len(flat), s)
	}
	switch len(s) {
	case 0:
		return flat[0], nil
	case 1:
		out := make([]T, len(flat))
		copy(out, flat)
		return out, nil
	case 2:
		out := make([][]T, s[0])
		for i := range out {
			row := make([]T, s[1])
			copy(row, flat[i*s[1]:(i+1)*s[1]])
			out[i] = row
		}
		return out, nil
	}

	types := make([]reflect.Type, len(s)+1)
	types[len(s)] = reflect.TypeFor[T]()
	for d := len(s) - 1; d >= 0; d-- {
		types[d] = reflect.SliceOf(types[d+1])
	}
	strides := RowMajorStrides(s)

	var build func(depth, base int) reflect.Value
	build = func(depth, base int) reflect.Value {
		if depth == len(s)-1 {
			row := make([]T, s[depth])
			copy(row, flat[base:base+s[depth]])
			return reflect.ValueOf(row)
		}
		out := reflect.MakeSlice(types[depth], s[depth], s[depth])
		for i := 0; i < s[depth]; i++ {
			out.Index(i).Set(build(depth+1, base+i*strides[depth]))
		}
		return out
	}
	return build(0, 0).Interface(), nil
}

func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

func isList(v reflect.Value) bool {
	return v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array)
}

func validateTree(v reflect.Value, s Shape, depth int) error {
	v = unwrap(v)
	if depth == len(s) {
		if isList(v) {
			return fmt.Errorf("%w: unexpected sub-array at depth %d", ErrRagged, depth)
		}
		return nil
	}
	if !isList(v) {
		return fmt.Errorf("%w: scalar at depth %d, want array of %d", ErrRagged, depth, s[depth])
	}
	if v.Len() != s[depth] {
		return fmt.Errorf("%w: length %d at depth %d, want %d", ErrRagged, v.Len(), depth, s[depth])
	}
	for i := 0; i < v.Len(); i++ {
		if err := validateTree(v.Index(i), s, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func convertLeaf[T any](v reflect.Value, target reflect.Type) (T, error) {
	var zero T
	if !v.IsValid() {
		return zero, fmt.Errorf("%w: nil leaf", ErrElementType)
	}
	if t, ok := v.Interface().(T); ok {
		return t, nil
	}
	if isNumericKind(v.Kind()) && isNumericKind(target.Kind()) {
		out := v.Convert(target)
		if !representable(v, out) {
			return zero, fmt.Errorf("%w: %v does not fit %s", ErrElementType, v, target)
		}
		return out.Interface().(T), nil
	}
	return zero, fmt.Errorf("%w: got %s, want %s", ErrElementType, v.Type(), target)
}

// representable reports whether out holds v without wrapping or truncation.
// Float targets may round but must not overflow a finite value to infinity.
func representable(v, out reflect.Value) bool {
	if isFloatKind(out.Kind()) {
		if !math.IsInf(out.Float(), 0) {
			return true
		}
		return isFloatKind(v.Kind()) && math.IsInf(v.Float(), 0)
	}
	if isIntKind(v.Kind()) && isUintKind(out.Kind()) && v.Int() < 0 {
		return false
	}
	if isUintKind(v.Kind()) && isIntKind(out.Kind()) && out.Int() < 0 {
		return false
	}
	return out.Convert(v.Type()).Equal(v)
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUintKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumericKind(k reflect.Kind) bool {
	return isIntKind(k) || isUintKind(k) || isFloatKind(k)
}
