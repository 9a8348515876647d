package report

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cupstack/waitlab/linear"
	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/study"
)

// PlotCVCurve renders mean cross-validation deviance against log10(lambda)
// as a line with sample dots, marking the selected penalty.
func PlotCVCurve(path, name string, cv *linear.CVResult) (err error) {
	defer errors.Recover(&err, "report.PlotCVCurve")

	if cv == nil || len(cv.Lambdas) == 0 {
		return errors.NewValueError("report.PlotCVCurve", "empty CV result")
	}
	if len(cv.MeanDeviance) != len(cv.Lambdas) {
		return errors.NewDimensionError("report.PlotCVCurve", len(cv.Lambdas), len(cv.MeanDeviance), 0)
	}

	pts := make(plotter.XYs, len(cv.Lambdas))
	for i := range cv.Lambdas {
		pts[i].X = math.Log10(cv.Lambdas[i])
		pts[i].Y = cv.MeanDeviance[i]
	}

	p := plot.New()
	p.Title.Text = name + ": cross-validated deviance"
	p.X.Label.Text = "log10(lambda)"
	p.Y.Label.Text = "mean CV deviance"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add("mean deviance", line)

	dots, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	dots.Radius = vg.Points(2)
	p.Add(dots)

	selected, err := plotter.NewScatter(plotter.XYs{{
		X: math.Log10(cv.SelectedLambda()),
		Y: cv.MeanDeviance[cv.SelectedIndex],
	}})
	if err != nil {
		return err
	}
	selected.Color = color.RGBA{R: 255, A: 255}
	selected.Radius = vg.Points(5)
	p.Add(selected)
	p.Legend.Add("selected lambda", selected)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

// PlotPredVsActual renders held-out predictions against recorded log wait
// times for all three models, with the identity line a perfect model would
// sit on.
func PlotPredVsActual(path string, res *study.Results) (err error) {
	defer errors.Recover(&err, "report.PlotPredVsActual")

	actual := res.Baseline.TestActual
	if len(actual) == 0 {
		return errors.NewValueError("report.PlotPredVsActual", "no held-out rows")
	}

	p := plot.New()
	p.Title.Text = "Held-out predictions vs recorded log wait"
	p.X.Label.Text = "recorded log(wait_secs)"
	p.Y.Label.Text = "predicted log(wait_secs)"

	series := []struct {
		name  string
		preds []float64
		color color.RGBA
	}{
		{"OLS", res.Baseline.TestPred, color.RGBA{R: 255, A: 255}},
		{"Lasso", res.Lasso.TestPred, color.RGBA{B: 255, A: 255}},
		{"Ridge", res.Ridge.TestPred, color.RGBA{G: 180, A: 255}},
	}
	for _, s := range series {
		if len(s.preds) != len(actual) {
			return errors.NewDimensionError("report.PlotPredVsActual", len(actual), len(s.preds), 0)
		}
		xys := make(plotter.XYs, len(actual))
		for i := range actual {
			xys[i].X = actual[i]
			xys[i].Y = s.preds[i]
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		scatter.Color = s.color
		scatter.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add(s.name, scatter)
	}

	lo, hi := actual[0], actual[0]
	for _, v := range actual {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return err
	}
	identity.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	p.Add(identity)
	p.Legend.Add("identity", identity)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
