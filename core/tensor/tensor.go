// Package tensor normalizes array-like input into an owned numeric buffer.
//
// Every metric in reportrabbit starts by converting its arguments with
// FromAny, which accepts Go slices and arrays of any numeric, boolean or
// numeric-string element type (nested to any depth), gonum vectors and
// matrices, and existing tensors. The result is a Tensor: a flat row-major
// []float64 plus the shape it was read with. A Tensor never shares memory
// with the value it was built from.
package tensor

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/reportrabbit/pkg/errors"
)

// Tensor is a dense, row-major numeric array with an explicit shape.
type Tensor struct {
	data  []float64
	shape []int
}

// NewTensor creates a tensor holding a copy of data with the given shape.
// A shape with no dimensions describes a scalar and requires exactly one value.
func NewTensor(data []float64, shape ...int) (*Tensor, error) {
	size := 1
	for _, s := range shape {
		if s < 0 {
			return nil, errors.NewValueError("NewTensor", "dimensions must be non-negative")
		}
		size *= s
	}

	if len(data) != size {
		return nil, errors.NewDimensionError("NewTensor", size, len(data), 0)
	}

	return &Tensor{
		data:  append(make([]float64, 0, len(data)), data...),
		shape: append([]int{}, shape...),
	}, nil
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() []int {
	return append([]int{}, t.shape...)
}

// NDim returns the number of dimensions; 0 for a scalar.
func (t *Tensor) NDim() int {
	return len(t.shape)
}

// Size returns the total number of elements.
func (t *Tensor) Size() int {
	return len(t.data)
}

// Len returns the number of samples, the length of the first axis.
func (t *Tensor) Len() int {
	if len(t.shape) == 0 {
		return 1
	}
	return t.shape[0]
}

// At returns the i-th element in row-major order.
func (t *Tensor) At(i int) float64 {
	return t.data[i]
}

// Data returns a copy of the elements in row-major order.
func (t *Tensor) Data() []float64 {
	return append(make([]float64, 0, len(t.data)), t.data...)
}

// RawData returns the backing slice. Callers must not modify it.
func (t *Tensor) RawData() []float64 {
	return t.data
}

// Copy returns a deep copy of the tensor.
func (t *Tensor) Copy() *Tensor {
	return &Tensor{
		data:  t.Data(),
		shape: t.Shape(),
	}
}

// Ravel returns a one-dimensional copy of the tensor.
func (t *Tensor) Ravel() *Tensor {
	return &Tensor{
		data:  t.Data(),
		shape: []int{len(t.data)},
	}
}

// SameShape reports whether t and o have identical shapes.
func (t *Tensor) SameShape(o *Tensor) bool {
	if len(t.shape) != len(o.shape) {
		return false
	}
	for i := range t.shape {
		if t.shape[i] != o.shape[i] {
			return false
		}
	}
	return true
}

// CheckFinite returns the index of the first NaN or infinite element and false,
// or -1 and true when every element is finite.
func (t *Tensor) CheckFinite() (int, bool) {
	for i, v := range t.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i, false
		}
	}
	return -1, true
}

// Vec returns the flattened elements as a new gonum vector, or nil if the
// tensor is empty.
func (t *Tensor) Vec() *mat.VecDense {
	if len(t.data) == 0 {
		return nil
	}
	return mat.NewVecDense(len(t.data), t.Data())
}

// Dense returns a two-dimensional tensor as a new gonum matrix.
func (t *Tensor) Dense() (*mat.Dense, error) {
	if len(t.shape) != 2 {
		return nil, errors.NewShapeError("Tensor.Dense", "tensor", "only 2D tensors convert to a matrix")
	}
	if len(t.data) == 0 {
		return nil, errors.NewEmptyInputError("Tensor.Dense", "tensor has no elements")
	}
	return mat.NewDense(t.shape[0], t.shape[1], t.Data()), nil
}
