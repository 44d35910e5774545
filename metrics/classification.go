package metrics

import (
	"github.com/ezoic/reportrabbit/core/tensor"
	rabbitErrors "github.com/ezoic/reportrabbit/pkg/errors"
)

const (
	msgEmptyInput     = "Input cannot be empty"
	msgLengthMismatch = "Input arrays must be the same length"
)

// Number is the set of types a class label may have.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// IsPositive reports whether a label belongs to the positive class.
// Any nonzero label is positive, which makes binary 0/1 labels and
// "any nonzero class" multi-class labels behave the same way.
func IsPositive[T Number](v T) bool {
	return v != 0
}

// ConfusionCounts holds the binary confusion counts under the nonzero rule.
type ConfusionCounts struct {
	TruePositives  int `json:"true_positives" yaml:"true_positives"`
	FalsePositives int `json:"false_positives" yaml:"false_positives"`
	FalseNegatives int `json:"false_negatives" yaml:"false_negatives"`
	TrueNegatives  int `json:"true_negatives" yaml:"true_negatives"`
}

// Total returns the number of samples counted.
func (c ConfusionCounts) Total() int {
	return c.TruePositives + c.FalsePositives + c.FalseNegatives + c.TrueNegatives
}

// Precision returns TP / (TP + FP), or 0 when nothing was predicted positive.
func (c ConfusionCounts) Precision() float64 {
	predicted := c.TruePositives + c.FalsePositives
	if predicted == 0 {
		return 0.0
	}
	return float64(c.TruePositives) / float64(predicted)
}

// Recall returns TP / (TP + FN), or 0 when there are no actual positives.
func (c ConfusionCounts) Recall() float64 {
	actual := c.TruePositives + c.FalseNegatives
	if actual == 0 {
		return 0.0
	}
	return float64(c.TruePositives) / float64(actual)
}

// F1 returns the harmonic mean of Precision and Recall, or 0 when both are 0.
func (c ConfusionCounts) F1() float64 {
	p := c.Precision()
	r := c.Recall()
	if p+r == 0 {
		return 0.0
	}
	return 2 * p * r / (p + r)
}

// classificationInputs coerces, flattens and checks a pair of label sequences.
func classificationInputs(op string, yTrue, yPred interface{}) (*tensor.Tensor, *tensor.Tensor, error) {
	yt, yp, err := asFlatArrays(yTrue, yPred)
	if err != nil {
		return nil, nil, err
	}
	if err := checkNotEmpty(op, msgEmptyInput, yt, yp); err != nil {
		return nil, nil, err
	}
	if err := checkSameLength(op, msgLengthMismatch, yt.Size(), yp.Size()); err != nil {
		return nil, nil, err
	}
	return yt, yp, nil
}

// Confusion counts true/false positives and negatives, treating every nonzero
// label as positive.
//
// Errors:
//   - ErrEmptyInput: if either input has no elements
//   - ErrLengthMismatch: if the inputs have different lengths
//   - ErrTypeConversion / ErrShape: if an input is not a numeric sequence
//
// Example:
//
//	c, err := metrics.Confusion([]int{0, 1, 1, 0}, []int{0, 1, 0, 0})
//	// c.TruePositives == 1, c.FalseNegatives == 1
func Confusion(yTrue, yPred interface{}) (ConfusionCounts, error) {
	yt, yp, err := classificationInputs("Confusion", yTrue, yPred)
	if err != nil {
		return ConfusionCounts{}, err
	}

	var c ConfusionCounts
	t, p := yt.RawData(), yp.RawData()
	for i := range t {
		actual := IsPositive(t[i])
		predicted := IsPositive(p[i])
		switch {
		case actual && predicted:
			c.TruePositives++
		case predicted:
			c.FalsePositives++
		case actual:
			c.FalseNegatives++
		default:
			c.TrueNegatives++
		}
	}
	return c, nil
}

// Accuracy calculates the classification accuracy.
//
// Accuracy is the fraction of positions where the predicted label equals the
// true label exactly. Labels may be of any kind: numbers compare by value and
// non-numeric strings compare verbatim, so multi-class labels work as well.
//
// Parameters:
//   - yTrue: Ground truth labels
//   - yPred: Predicted labels
//
// Returns:
//   - The accuracy (between 0 and 1)
//   - An error if inputs are invalid
//
// Errors:
//   - ErrEmptyInput: if either input has no elements
//   - ErrLengthMismatch: if the inputs have different lengths
//
// Example:
//
//	acc, err := metrics.Accuracy([]int{0, 1, 1, 0}, []int{0, 1, 0, 0})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(acc) // 0.75
func Accuracy(yTrue, yPred interface{}) (float64, error) {
	lt, err := tensor.Labels(yTrue, yTrueName)
	if err != nil {
		return 0, err
	}
	lp, err := tensor.Labels(yPred, yPredName)
	if err != nil {
		return 0, err
	}
	if len(lt) == 0 || len(lp) == 0 {
		return 0, rabbitErrors.NewEmptyInputError("Accuracy", msgEmptyInput)
	}
	if err := checkSameLength("Accuracy", msgLengthMismatch, len(lt), len(lp)); err != nil {
		return 0, err
	}

	correct := 0
	for i := range lt {
		if lt[i].Equal(lp[i]) {
			correct++
		}
	}
	return float64(correct) / float64(len(lt)), nil
}

// ClassificationError calculates the fraction of incorrect predictions,
// 1 - Accuracy.
func ClassificationError(yTrue, yPred interface{}) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1.0 - acc, nil
}

// Precision calculates the proportion of positive predictions that were correct.
//
// Precision = TP / (TP + FP). When no sample is predicted positive the
// precision is defined as 0.0 rather than an error.
//
// Errors:
//   - ErrEmptyInput: if either input has no elements
//   - ErrLengthMismatch: if the inputs have different lengths
//
// Example:
//
//	p, _ := metrics.Precision([]int{0, 1, 1, 0}, []int{0, 1, 1, 1})
//	fmt.Printf("%.4f\n", p) // 0.6667
func Precision(yTrue, yPred interface{}) (float64, error) {
	c, err := Confusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return c.Precision(), nil
}

// Recall calculates the proportion of actual positives that were predicted
// positive.
//
// Recall = TP / (TP + FN). When there are no actual positives the recall is
// defined as 0.0 rather than an error.
func Recall(yTrue, yPred interface{}) (float64, error) {
	c, err := Confusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return c.Recall(), nil
}

// F1 calculates the harmonic mean of Precision and Recall.
//
// F1 = 2·P·R / (P + R), and 0.0 when P + R is zero.
//
// Example:
//
//	f1, _ := metrics.F1([]int{0, 1, 1, 0}, []int{0, 1, 0, 0})
//	fmt.Printf("%.4f\n", f1) // 0.6667
func F1(yTrue, yPred interface{}) (float64, error) {
	c, err := Confusion(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return c.F1(), nil
}
