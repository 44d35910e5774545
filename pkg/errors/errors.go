// Package errors defines the error taxonomy shared by every reportrabbit package.
//
// Each failure kind has a sentinel (ErrEmptyInput, ErrLengthMismatch, ErrShape,
// ErrTypeConversion, ErrNonFinite, ErrUndefinedMetric) and, where callers need
// structured detail, a typed error that matches its sentinel through errors.Is:
//
//	_, err := metrics.MAPE(yTrue, yPred)
//	if errors.Is(err, rabbitErrors.ErrUndefinedMetric) {
//	    // y_true contains a zero
//	}
//
//	var dimErr *rabbitErrors.DimensionError
//	if errors.As(err, &dimErr) {
//	    fmt.Println(dimErr.Expected, dimErr.Got)
//	}
//
// Stack traces and wrapping are provided by github.com/cockroachdb/errors.
// Every constructor records the caller's stack, so "%+v" formatting of an
// error returned here prints the frame that created it.
package errors

import (
	"fmt"

	cerrors "github.com/cockroachdb/errors"
)

// Sentinel errors, one per failure kind.
var (
	// ErrEmptyInput indicates that a required sequence has zero elements.
	ErrEmptyInput = cerrors.New("empty input")

	// ErrLengthMismatch indicates that two element-wise sequences differ in length.
	ErrLengthMismatch = cerrors.New("length mismatch")

	// ErrShape indicates a scalar where a sequence was required, ragged nesting,
	// or arrays whose shapes must match exactly but do not.
	ErrShape = cerrors.New("shape error")

	// ErrTypeConversion indicates that a value could not be interpreted as a number
	// or that a sequence-typed argument was given as a scalar.
	ErrTypeConversion = cerrors.New("type conversion error")

	// ErrNonFinite indicates a NaN or infinite element where finiteness is required.
	ErrNonFinite = cerrors.New("non-finite value")

	// ErrUndefinedMetric indicates the metric formula is undefined for the input.
	ErrUndefinedMetric = cerrors.New("undefined metric")
)

// ValueError reports an invalid input value for an operation.
type ValueError struct {
	Op      string
	Message string
	Kind    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("reportrabbit: %s: %s", e.Op, e.Message)
}

// Is matches the sentinel recorded as the error's kind.
func (e *ValueError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// NewValueError creates a ValueError with no specific kind.
func NewValueError(op, message string) error {
	return withStack(&ValueError{Op: op, Message: message})
}

// NewEmptyInputError reports that the named input has zero elements.
func NewEmptyInputError(op, message string) error {
	return withStack(&ValueError{Op: op, Message: message, Kind: ErrEmptyInput})
}

// DimensionError reports two sequences whose element counts differ.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
	Message  string
}

func (e *DimensionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("reportrabbit: %s: %s (expected %d, got %d)", e.Op, e.Message, e.Expected, e.Got)
	}
	return fmt.Sprintf("reportrabbit: %s: dimension mismatch on axis %d: expected %d, got %d",
		e.Op, e.Axis, e.Expected, e.Got)
}

// Is reports whether target is ErrLengthMismatch.
func (e *DimensionError) Is(target error) bool {
	return target == ErrLengthMismatch
}

// NewDimensionError creates a DimensionError for the given axis.
func NewDimensionError(op string, expected, got, axis int) error {
	return withStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// NewLengthMismatchError creates a DimensionError with a caller-facing message.
func NewLengthMismatchError(op, message string, expected, got int) error {
	return withStack(&DimensionError{Op: op, Expected: expected, Got: got, Message: message})
}

// ShapeError reports incompatible or scalar array shapes.
type ShapeError struct {
	Op       string
	Name     string
	Expected []int
	Got      []int
	Message  string
}

func (e *ShapeError) Error() string {
	if e.Expected != nil || e.Got != nil {
		return fmt.Sprintf("reportrabbit: %s: %s: %v vs %v", e.Op, e.Message, e.Expected, e.Got)
	}
	return fmt.Sprintf("reportrabbit: %s: %s", e.Op, e.Message)
}

// Is reports whether target is ErrShape.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// NewShapeError creates a ShapeError without shape details.
func NewShapeError(op, name, message string) error {
	return withStack(&ShapeError{Op: op, Name: name, Message: message})
}

// NewShapeMismatchError creates a ShapeError comparing two shapes.
func NewShapeMismatchError(op string, expected, got []int) error {
	return withStack(&ShapeError{
		Op:       op,
		Expected: append([]int{}, expected...),
		Got:      append([]int{}, got...),
		Message:  "Shape mismatch",
	})
}

// TypeError reports a value that cannot be coerced to a number.
type TypeError struct {
	Op    string
	Name  string
	Index int // -1 when the whole value is at fault
	Value interface{}
	Cause error
}

func (e *TypeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("reportrabbit: %s: %s must be a numeric array-like, got %T", e.Op, e.Name, e.Value)
	}
	return fmt.Sprintf("reportrabbit: %s: %s must contain only numeric values, found %v (%T) at index %d",
		e.Op, e.Name, e.Value, e.Value, e.Index)
}

// Is reports whether target is ErrTypeConversion.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeConversion
}

// Unwrap returns the parse error, if any.
func (e *TypeError) Unwrap() error {
	return e.Cause
}

// NewTypeError creates a TypeError for an element at index, or for the whole
// value when index is negative.
func NewTypeError(op, name string, index int, value interface{}, cause error) error {
	return withStack(&TypeError{Op: op, Name: name, Index: index, Value: value, Cause: cause})
}

// NonFiniteError reports a NaN or infinite element.
type NonFiniteError struct {
	Op    string
	Name  string
	Index int
	Value float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("reportrabbit: %s: Inputs must contain only finite values (%s[%d] = %v)",
		e.Op, e.Name, e.Index, e.Value)
}

// Is reports whether target is ErrNonFinite.
func (e *NonFiniteError) Is(target error) bool {
	return target == ErrNonFinite
}

// NewNonFiniteError creates a NonFiniteError.
func NewNonFiniteError(op, name string, index int, value float64) error {
	return withStack(&NonFiniteError{Op: op, Name: name, Index: index, Value: value})
}

// UndefinedMetricError reports that a metric is mathematically undefined for the input.
type UndefinedMetricError struct {
	Metric string
	Reason string
}

func (e *UndefinedMetricError) Error() string {
	return fmt.Sprintf("reportrabbit: %s is undefined: %s", e.Metric, e.Reason)
}

// Is reports whether target is ErrUndefinedMetric.
func (e *UndefinedMetricError) Is(target error) bool {
	return target == ErrUndefinedMetric
}

// NewUndefinedMetricError creates an UndefinedMetricError.
func NewUndefinedMetricError(metric, reason string) error {
	return withStack(&UndefinedMetricError{Metric: metric, Reason: reason})
}

// withStack records the stack of the constructor's caller.
func withStack(err error) error {
	return cerrors.WithStackDepth(err, 2)
}

// Recover converts a panic in the calling function into an error assigned to *err.
// It must be deferred directly:
//
//	func FromAny(x any) (t *Tensor, err error) {
//	    defer errors.Recover(&err, "tensor.FromAny")
//	    ...
//	}
func Recover(err *error, op string) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = cerrors.Wrapf(e, "%s: recovered from panic", op)
			return
		}
		*err = cerrors.Newf("%s: recovered from panic: %v", op, r)
	}
}
