package metrics

import (
	"github.com/ezoic/reportrabbit/core/tensor"
	rabbitErrors "github.com/ezoic/reportrabbit/pkg/errors"
)

const (
	yTrueName        = "y_true"
	yPredName        = "y_pred"
	sampleWeightName = "sample_weight"
)

// asArrays coerces both inputs to tensors, keeping their shapes.
func asArrays(yTrue, yPred interface{}) (*tensor.Tensor, *tensor.Tensor, error) {
	yt, err := tensor.FromAny(yTrue, yTrueName)
	if err != nil {
		return nil, nil, err
	}
	yp, err := tensor.FromAny(yPred, yPredName)
	if err != nil {
		return nil, nil, err
	}
	return yt, yp, nil
}

// asFlatArrays coerces both inputs and flattens them to 1-D.
func asFlatArrays(yTrue, yPred interface{}) (*tensor.Tensor, *tensor.Tensor, error) {
	yt, yp, err := asArrays(yTrue, yPred)
	if err != nil {
		return nil, nil, err
	}
	return yt.Ravel(), yp.Ravel(), nil
}

func checkNotEmpty(op, message string, ts ...*tensor.Tensor) error {
	for _, t := range ts {
		if t.Size() == 0 {
			return rabbitErrors.NewEmptyInputError(op, message)
		}
	}
	return nil
}

func checkSameLength(op, message string, a, b int) error {
	if a != b {
		return rabbitErrors.NewLengthMismatchError(op, message, a, b)
	}
	return nil
}

func checkSameShape(op string, yt, yp *tensor.Tensor) error {
	if !yt.SameShape(yp) {
		return rabbitErrors.NewShapeMismatchError(op, yt.Shape(), yp.Shape())
	}
	return nil
}

func checkFinite(op string, yt, yp *tensor.Tensor) error {
	if i, ok := yt.CheckFinite(); !ok {
		return rabbitErrors.NewNonFiniteError(op, yTrueName, i, yt.At(i))
	}
	if i, ok := yp.CheckFinite(); !ok {
		return rabbitErrors.NewNonFiniteError(op, yPredName, i, yp.At(i))
	}
	return nil
}
