package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/cupstack/waitlab/pkg/errors"
	"github.com/cupstack/waitlab/study"
)

// ModelArtifact is the JSON form of one selected regularized model.
type ModelArtifact struct {
	Model         string              `json:"model"`
	FormatVersion string              `json:"format_version"`
	Lambda        float64             `json:"lambda"`
	PathIndex     int                 `json:"path_index"`
	L1Ratio       float64             `json:"l1_ratio"`
	PseudoR2      float64             `json:"pseudo_r2"`
	Intercept     float64             `json:"intercept"`
	Coefficients  []study.Coefficient `json:"coefficients"`
}

// ExportModelJSON writes the selected model to path as indented JSON.
//
// Parameters:
//   - path: Output file path
//   - name: Model family name recorded in the artifact
//   - r: Evaluated cross-validated model
//
// Returns:
//   - error: Error if the model is unfitted or the write fails
func ExportModelJSON(path, name string, r study.RegularizedResult) (err error) {
	defer errors.Recover(&err, "report.ExportModelJSON")

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() { _ = file.Close() }()

	return ExportModelJSONWriter(file, name, r)
}

// ExportModelJSONWriter writes the artifact to a Writer.
func ExportModelJSONWriter(w io.Writer, name string, r study.RegularizedResult) (err error) {
	defer errors.Recover(&err, "report.ExportModelJSONWriter")

	if r.CV == nil || r.Model == nil || !r.Model.IsFitted() {
		return errors.NewNotFittedError(name, "ExportModelJSONWriter")
	}

	artifact := ModelArtifact{
		Model:         name,
		FormatVersion: "1.0",
		Lambda:        r.CV.SelectedLambda(),
		PathIndex:     r.CV.SelectedIndex,
		L1Ratio:       r.CV.L1Ratio,
		PseudoR2:      r.PseudoR2,
		Intercept:     r.Model.GetIntercept(),
		Coefficients:  r.Coefficients,
	}
	if artifact.Coefficients == nil {
		artifact.Coefficients = []study.Coefficient{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(&artifact)
}
