package tensor

import (
	"reflect"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/reportrabbit/pkg/errors"
)

const opAsArray = "asarray"

// FromAny converts an array-like value into a Tensor. name identifies the
// argument in error messages (for example "y_true").
//
// Accepted inputs are *Tensor, mat.Vector, mat.Matrix, and any slice or array
// (nested to any depth, elements reachable through interfaces or pointers) of
// booleans, integers, floats or strings holding a number. Booleans become 0
// and 1.
//
// Errors:
//   - ErrTypeConversion: nil input or an element that is not a number
//   - ErrShape: a scalar input, or nested sequences of unequal length
func FromAny(x interface{}, name string) (t *Tensor, err error) {
	defer errors.Recover(&err, "tensor.FromAny")

	switch v := x.(type) {
	case nil:
		return nil, errors.NewTypeError(opAsArray, name, -1, x, nil)
	case *Tensor:
		if v == nil {
			return nil, errors.NewTypeError(opAsArray, name, -1, x, nil)
		}
		t = v.Copy()
	case []float64:
		t = &Tensor{data: append(make([]float64, 0, len(v)), v...), shape: []int{len(v)}}
	case mat.Vector:
		t = fromVector(v)
	case mat.Matrix:
		t = fromMatrix(v)
	default:
		var data []float64
		shape, werr := walk(reflect.ValueOf(x), name, func(idx int, leaf reflect.Value) error {
			f, ferr := toFloat(leaf, name, idx)
			if ferr != nil {
				return ferr
			}
			data = append(data, f)
			return nil
		})
		if werr != nil {
			return nil, werr
		}
		if data == nil {
			data = []float64{}
		}
		t = &Tensor{data: data, shape: shape}
	}

	if t.NDim() == 0 {
		return nil, errors.NewShapeError(opAsArray, name, name+" must be a 1D array-like of length >= 1, got a scalar")
	}
	return t, nil
}

// IsSequence reports whether x is sequence-typed: a non-nil slice, array,
// gonum vector or matrix, or a tensor with at least one dimension. Strings and
// numbers are not sequences.
func IsSequence(x interface{}) bool {
	switch v := x.(type) {
	case nil:
		return false
	case *Tensor:
		return v != nil && v.NDim() > 0
	case mat.Matrix:
		return true
	}
	rv := indirect(reflect.ValueOf(x))
	if !rv.IsValid() {
		return false
	}
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

// Label is one normalized class label. Numbers and bools compare by value,
// so 1, 1.0 and true are the same label. A string label never equals a
// number: "1" and "1.0" match each other but not 1. Non-numeric strings
// compare verbatim.
type Label struct {
	Value   float64
	Text    string
	Numeric bool
	IsText  bool
}

// Equal reports whether two labels denote the same class.
func (l Label) Equal(o Label) bool {
	if l.IsText != o.IsText {
		return false
	}
	if l.Numeric && o.Numeric {
		return l.Value == o.Value
	}
	return !l.Numeric && !o.Numeric && l.Text == o.Text
}

// Labels flattens x into a label sequence. Unlike FromAny it keeps
// non-numeric string labels instead of rejecting them.
func Labels(x interface{}, name string) (labels []Label, err error) {
	defer errors.Recover(&err, "tensor.Labels")

	switch x.(type) {
	case *Tensor, mat.Matrix:
		t, ferr := FromAny(x, name)
		if ferr != nil {
			return nil, ferr
		}
		return numericLabels(t.RawData()), nil
	}

	if x == nil {
		return nil, errors.NewTypeError(opAsArray, name, -1, x, nil)
	}

	shape, werr := walk(reflect.ValueOf(x), name, func(idx int, leaf reflect.Value) error {
		if leaf.IsValid() && leaf.Kind() == reflect.String {
			s := leaf.String()
			f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
			labels = append(labels, Label{Value: f, Text: s, Numeric: perr == nil, IsText: true})
			return nil
		}
		f, ferr := toFloat(leaf, name, idx)
		if ferr != nil {
			return ferr
		}
		labels = append(labels, Label{Value: f, Numeric: true})
		return nil
	})
	if werr != nil {
		return nil, werr
	}
	if len(shape) == 0 {
		return nil, errors.NewShapeError(opAsArray, name, name+" must be a 1D array-like of length >= 1, got a scalar")
	}
	if labels == nil {
		labels = []Label{}
	}
	return labels, nil
}

func numericLabels(data []float64) []Label {
	labels := make([]Label, len(data))
	for i, v := range data {
		labels[i] = Label{Value: v, Numeric: true}
	}
	return labels
}

func fromVector(v mat.Vector) *Tensor {
	n := v.Len()
	data := make([]float64, n)
	for i := 0; i < n; i++ {
		data[i] = v.AtVec(i)
	}
	return &Tensor{data: data, shape: []int{n}}
}

func fromMatrix(m mat.Matrix) *Tensor {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return &Tensor{data: data, shape: []int{r, c}}
}

// walk infers the shape of v from its first elements, then visits every leaf
// in row-major order, rejecting sub-sequences that disagree with that shape.
func walk(v reflect.Value, name string, visit func(idx int, leaf reflect.Value) error) ([]int, error) {
	shape := inferShape(v)
	idx := 0
	var rec func(cur reflect.Value, depth int) error
	rec = func(cur reflect.Value, depth int) error {
		cur = indirect(cur)
		if depth == len(shape) {
			if isSeq(cur) {
				return errors.NewShapeError(opAsArray, name, "setting an array element with a sequence: inhomogeneous shape")
			}
			err := visit(idx, cur)
			idx++
			return err
		}
		if !isSeq(cur) || cur.Len() != shape[depth] {
			return errors.NewShapeError(opAsArray, name,
				"inhomogeneous shape after "+strconv.Itoa(depth)+" dimensions")
		}
		for i := 0; i < cur.Len(); i++ {
			if err := rec(cur.Index(i), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := rec(v, 0); err != nil {
		return nil, err
	}
	return shape, nil
}

func inferShape(v reflect.Value) []int {
	var shape []int
	for {
		v = indirect(v)
		if !isSeq(v) {
			return shape
		}
		shape = append(shape, v.Len())
		if v.Len() == 0 {
			return shape
		}
		v = v.Index(0)
	}
}

func isSeq(v reflect.Value) bool {
	return v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array)
}

// indirect dereferences interfaces and pointers. A nil pointer or interface
// yields the zero Value.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func toFloat(v reflect.Value, name string, idx int) (float64, error) {
	if !v.IsValid() {
		return 0, errors.NewTypeError(opAsArray, name, idx, nil, nil)
	}
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return 0, errors.NewTypeError(opAsArray, name, idx, v.String(), err)
		}
		return f, nil
	default:
		return 0, errors.NewTypeError(opAsArray, name, idx, v.Interface(), nil)
	}
}
