// Package disease describes the supported prediction categories and the
// input fields each one expects.
package disease

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field is one numeric input of a prediction form.
type Field struct {
	Name  string
	Label string
	Hint  string // typical range shown as a placeholder
	// Aliases are regexp fragments matched when reading values out of
	// free text, longest first.
	Aliases []string
}

type Disease struct {
	Type   string
	Title  string
	Fields []Field
}

// PredictionRequest maps field names to numeric values.
type PredictionRequest map[string]float64

var diseases = []Disease{
	{
		Type:  "diabetes",
		Title: "Diabetes Prediction",
		Fields: []Field{
			{"pregnancies", "Number of Pregnancies", "0-17", []string{`Pregnancies`}},
			{"glucose", "Glucose Level (mg/dL)", "0-200", []string{`Glucose`}},
			{"bloodPressure", "Blood Pressure (mm Hg)", "0-122", []string{`Blood\s*Pressure`}},
			{"skinThickness", "Skin Thickness (mm)", "0-100", []string{`Skin\s*Thickness`}},
			{"insulin", "Insulin Level (mu U/mL)", "0-846", []string{`Insulin`}},
			{"bmi", "BMI", "0.0-67.1", []string{`BMI`}},
			{"diabetesPedigree", "Diabetes Pedigree Function", "0.078-2.42", []string{`Diabetes\s*Pedigree(?:\s*Function)?`, `DPF`}},
			{"age", "Age (years)", "21-81", []string{`Age`}},
		},
	},
	{
		Type:  "heart",
		Title: "Heart Disease Prediction",
		Fields: []Field{
			{"age", "Age (years)", "29-77", []string{`Age`}},
			{"sex", "Sex (1=Male, 0=Female)", "0 or 1", []string{`Sex`}},
			{"cp", "Chest Pain Type (0-3)", "0-3", []string{`Chest\s*Pain(?:\s*Type)?`, `cp`}},
			{"trestbps", "Resting Blood Pressure (mm Hg)", "94-200", []string{`Resting\s*Blood\s*Pressure`, `trestbps`}},
			{"chol", "Cholesterol (mg/dL)", "126-564", []string{`Cholesterol`, `chol`}},
			{"fbs", "Fasting Blood Sugar > 120 mg/dl (1=Yes, 0=No)", "0 or 1", []string{`Fasting\s*Blood\s*Sugar`, `fbs`}},
			{"restecg", "Resting ECG Results (0-2)", "0-2", []string{`Resting\s*ECG(?:\s*Results)?`, `restecg`}},
			{"thalach", "Maximum Heart Rate Achieved", "71-202", []string{`Max(?:imum)?\s*Heart\s*Rate(?:\s*Achieved)?`, `thalach`}},
			{"exang", "Exercise Induced Angina (1=Yes, 0=No)", "0 or 1", []string{`Exercise\s*Induced\s*Angina`, `exang`}},
			{"oldpeak", "ST Depression", "0.0-6.2", []string{`ST\s*Depression`, `oldpeak`}},
			{"slope", "Slope of Peak Exercise ST Segment (0-2)", "0-2", []string{`Slope`}},
			{"ca", "Number of Major Vessels (0-4)", "0-4", []string{`Major\s*Vessels`, `ca`}},
			{"thal", "Thalassemia (0=Normal, 1=Fixed Defect, 2=Reversable Defect)", "0-2", []string{`Thalassemia`, `thal`}},
		},
	},
	{
		Type:  "parkinsons",
		Title: "Parkinson's Disease Prediction",
		Fields: []Field{
			{"fo", "Average Vocal Fundamental Frequency", "88.333-260.105", []string{`MDVP:Fo\(Hz\)`, `Fo`}},
			{"fhi", "Maximum Vocal Fundamental Frequency", "102.145-592.030", []string{`MDVP:Fhi\(Hz\)`, `Fhi`}},
			{"flo", "Minimum Vocal Fundamental Frequency", "65.476-239.170", []string{`MDVP:Flo\(Hz\)`, `Flo`}},
			{"jitter_percent", "Jitter Percentage", "0.00168-0.03316", []string{`MDVP:Jitter\(%\)`, `Jitter\s*Percent(?:age)?`}},
			{"jitter_abs", "Absolute Jitter", "0.000007-0.000260", []string{`MDVP:Jitter\(Abs\)`, `Absolute\s*Jitter`}},
			{"rap", "Relative Amplitude Perturbation", "0.00068-0.02144", []string{`MDVP:RAP`, `RAP`}},
			{"ppq", "Five-point Period Perturbation Quotient", "0.00092-0.01958", []string{`MDVP:PPQ`, `PPQ`}},
			{"ddp", "Average Absolute Difference of Differences", "0.00204-0.06433", []string{`Jitter:DDP`, `DDP`}},
			{"shimmer", "Shimmer", "0.00954-0.11908", []string{`MDVP:Shimmer`, `Shimmer`}},
			{"shimmer_db", "Shimmer in dB", "0.085-1.302", []string{`MDVP:Shimmer\(dB\)`, `Shimmer\s*in\s*dB`}},
			{"apq3", "Three-point Amplitude Perturbation Quotient", "0.00455-0.05647", []string{`Shimmer:APQ3`, `APQ3`}},
			{"apq5", "Five-point Amplitude Perturbation Quotient", "0.00757-0.07940", []string{`Shimmer:APQ5`, `APQ5`}},
			{"apq", "Amplitude Perturbation Quotient", "0.00719-0.13778", []string{`MDVP:APQ`, `APQ`}},
			{"dda", "Average Absolute Differences between Consecutive Differences", "0.01364-0.16926", []string{`Shimmer:DDA`, `DDA`}},
			{"nhr", "Noise-to-Harmonics Ratio", "0.00065-0.75886", []string{`NHR`}},
			{"hnr", "Harmonics-to-Noise Ratio", "8.441-33.047", []string{`HNR`}},
			{"rpde", "Recurrence Period Density Entropy", "0.256570-0.685151", []string{`RPDE`}},
			{"dfa", "Detrended Fluctuation Analysis", "0.574282-0.825288", []string{`DFA`}},
			{"spread1", "Fundamental Frequency Variation", "-7.964984--2.434031", []string{`spread1`}},
			{"spread2", "Fundamental Frequency Variation", "0.006274-0.450493", []string{`spread2`}},
			{"d2", "Correlation Dimension", "1.423287-3.671155", []string{`D2`}},
			{"ppe", "Pitch Period Entropy", "0.044539-0.527367", []string{`PPE`}},
		},
	},
}

// Types returns the supported disease types in display order.
func Types() []string {
	out := make([]string, len(diseases))
	for i, d := range diseases {
		out[i] = d.Type
	}
	return out
}

func All() []Disease {
	out := make([]Disease, len(diseases))
	copy(out, diseases)
	return out
}

func Lookup(diseaseType string) (Disease, bool) {
	for _, d := range diseases {
		if d.Type == diseaseType {
			return d, true
		}
	}
	return Disease{}, false
}

// FieldNames returns the field names in feature order.
func (d Disease) FieldNames() []string {
	out := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		out[i] = f.Name
	}
	return out
}

// Missing returns the fields that are absent or blank in values.
func (d Disease) Missing(values map[string]string) []string {
	var missing []string
	for _, f := range d.Fields {
		if strings.TrimSpace(values[f.Name]) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// ParseForm converts raw text input to numbers. Anything that does not
// parse as a finite decimal becomes 0.
func ParseForm(values map[string]string) PredictionRequest {
	out := make(PredictionRequest, len(values))
	for name, raw := range values {
		out[name] = parseDecimal(raw)
	}
	return out
}

func parseDecimal(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Features builds the model input vector in field order. Missing keys
// default to 0.
func (d Disease) Features(data map[string]any) ([]float64, error) {
	features := make([]float64, len(d.Fields))
	for i, f := range d.Fields {
		raw, ok := data[f.Name]
		if !ok {
			continue
		}
		v, err := toFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		features[i] = v
	}
	return features, nil
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("could not convert %q to float", v)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("value is null")
	default:
		return 0, fmt.Errorf("unsupported value type %T", raw)
	}
}
