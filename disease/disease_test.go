package disease

import (
	"reflect"
	"testing"
)

func TestFieldCounts(t *testing.T) {
	want := map[string]int{"diabetes": 8, "heart": 13, "parkinsons": 22}
	for typ, n := range want {
		d, ok := Lookup(typ)
		if !ok {
			t.Fatalf("disease %q not registered", typ)
		}
		if len(d.Fields) != n {
			t.Errorf("%s has %d fields, want %d", typ, len(d.Fields), n)
		}
	}
	if _, ok := Lookup("cancer"); ok {
		t.Error("unexpected disease cancer")
	}
	if got := Types(); !reflect.DeepEqual(got, []string{"diabetes", "heart", "parkinsons"}) {
		t.Errorf("Types() = %v", got)
	}
}

func TestParseForm(t *testing.T) {
	got := ParseForm(map[string]string{
		"glucose": "148",
		"bmi":     " 33.6 ",
		"age":     "",
		"insulin": "abc",
		"spread1": "-4.813",
		"nan":     "NaN",
		"inf":     "inf",
		"posinf":  "Infinity",
		"neginf":  "-inf",
	})
	want := PredictionRequest{
		"glucose": 148,
		"bmi":     33.6,
		"age":     0,
		"insulin": 0,
		"spread1": -4.813,
		"nan":     0,
		"inf":     0,
		"posinf":  0,
		"neginf":  0,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseForm = %v, want %v", got, want)
	}
}

func TestMissing(t *testing.T) {
	d, _ := Lookup("diabetes")
	values := map[string]string{
		"pregnancies":      "1",
		"glucose":          "85",
		"bloodPressure":    "66",
		"skinThickness":    "29",
		"insulin":          "0",
		"bmi":              "  ",
		"diabetesPedigree": "0.351",
	}
	got := d.Missing(values)
	if !reflect.DeepEqual(got, []string{"bmi", "age"}) {
		t.Errorf("Missing = %v, want [bmi age]", got)
	}
}

func TestFeatures(t *testing.T) {
	d, _ := Lookup("diabetes")

	tests := []struct {
		name    string
		data    map[string]any
		want    []float64
		wantErr bool
	}{
		{
			name: "ordered with defaults",
			data: map[string]any{"age": 50.0, "glucose": 148.0, "bmi": "33.6", "unknown": 1.0},
			want: []float64{0, 148, 0, 0, 0, 33.6, 0, 50},
		},
		{
			name: "booleans",
			data: map[string]any{"pregnancies": true, "insulin": false},
			want: []float64{1, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:    "null value",
			data:    map[string]any{"glucose": nil},
			wantErr: true,
		},
		{
			name:    "bad string",
			data:    map[string]any{"glucose": "high"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Features(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Features: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Features = %v, want %v", got, tt.want)
			}
		})
	}
}
