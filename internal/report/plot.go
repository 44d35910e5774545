package report

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ezoic/reportrabbit/core/tensor"
	rabbitErrors "github.com/ezoic/reportrabbit/pkg/errors"
	"github.com/ezoic/reportrabbit/pkg/log"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// ParityPlot saves a scatter plot of predictions against ground truth with
// the y = x reference line. The image format follows the extension of path
// (png, svg, pdf, ...).
func ParityPlot(path, title string, yTrue, yPred interface{}) error {
	start := time.Now()

	yt, err := tensor.FromAny(yTrue, "y_true")
	if err != nil {
		return err
	}
	yp, err := tensor.FromAny(yPred, "y_pred")
	if err != nil {
		return err
	}
	t, p := yt.Ravel().RawData(), yp.Ravel().RawData()

	if len(t) != len(p) {
		return rabbitErrors.NewLengthMismatchError("ParityPlot", "Input arrays must be the same length", len(t), len(p))
	}
	if len(t) == 0 {
		return rabbitErrors.NewEmptyInputError("ParityPlot", "Input cannot be empty")
	}
	if i, ok := yt.CheckFinite(); !ok {
		return rabbitErrors.NewNonFiniteError("ParityPlot", "y_true", i, yt.At(i))
	}
	if i, ok := yp.CheckFinite(); !ok {
		return rabbitErrors.NewNonFiniteError("ParityPlot", "y_pred", i, yp.At(i))
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "y_true"
	pl.Y.Label.Text = "y_pred"

	scatter, err := createScatter(t, p)
	if err != nil {
		return errors.Wrap(err, "creating scatter")
	}
	scatter.Color = plotter.DefaultLineStyle.Color
	pl.Add(scatter)
	pl.Legend.Add("predictions", scatter)

	line, err := createIdentityLine(t, p)
	if err != nil {
		return errors.Wrap(err, "creating reference line")
	}
	line.Width = vg.Points(1)
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	pl.Add(line)
	pl.Legend.Add("y = x", line)
	pl.Add(plotter.NewGrid())

	if err := pl.Save(plotWidth, plotHeight, path); err != nil {
		return errors.Wrapf(err, "saving plot to %s", path)
	}

	log.GetLoggerWithName("report").Debug("Plot saved",
		log.OperationKey, log.OperationRender,
		log.FileKey, path,
		log.SamplesKey, len(t),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func createScatter(xs, ys []float64) (*plotter.Scatter, error) {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return plotter.NewScatter(pts)
}

// createIdentityLine spans the combined range of both axes so every point
// is judged against the same diagonal.
func createIdentityLine(t, p []float64) (*plotter.Line, error) {
	lo := math.Min(floats.Min(t), floats.Min(p))
	hi := math.Max(floats.Max(t), floats.Max(p))
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
}
