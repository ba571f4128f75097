package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func diabetesArgs(api string) []string {
	return []string{"predict", "-api", api, "diabetes",
		"pregnancies=6", "glucose=148", "bloodPressure=72", "skinThickness=35",
		"insulin=abc", "bmi=33.6", "diabetesPedigree=0.627", "age=50"}
}

func TestPredictCommand(t *testing.T) {
	var got map[string]float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		io.WriteString(w, `{"prediction":"Positive","confidence":0.823}`)
	}))
	defer srv.Close()

	code, out, errOut := runCLI(diabetesArgs(srv.URL)...)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Prediction Result: Positive (82.3% confidence)") {
		t.Errorf("output = %q", out)
	}
	if got["insulin"] != 0 || got["glucose"] != 148 || len(got) != 8 {
		t.Errorf("sent %v", got)
	}
}

func TestPredictCommandWithoutConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"prediction":"Negative"}`)
	}))
	defer srv.Close()

	code, out, _ := runCLI(diabetesArgs(srv.URL)...)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if strings.Contains(out, "confidence") {
		t.Errorf("output mentions confidence: %q", out)
	}
	if !strings.Contains(out, "low risk") {
		t.Errorf("output = %q", out)
	}
}

func TestPredictCommandFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/heart") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, `{"error":"could not convert string to float"}`)
	}))
	defer srv.Close()

	code, _, errOut := runCLI(diabetesArgs(srv.URL)...)
	if code != 1 || !strings.Contains(errOut, "could not convert") {
		t.Errorf("error field: exit %d, stderr %q", code, errOut)
	}

	code, _, errOut = runCLI("predict", "-api", srv.URL, "diabetes", "glucose=148")
	if code != 1 || !strings.Contains(errOut, "required fields") {
		t.Errorf("missing fields: exit %d, stderr %q", code, errOut)
	}

	code, _, _ = runCLI("predict", "-api", srv.URL, "cancer")
	if code != 1 {
		t.Errorf("unknown disease: exit %d", code)
	}

	heart := []string{"predict", "-api", srv.URL, "heart"}
	for _, f := range []string{"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg", "thalach", "exang", "oldpeak", "slope", "ca", "thal"} {
		heart = append(heart, f+"=1")
	}
	code, _, errOut = runCLI(heart...)
	if code != 1 || !strings.Contains(errOut, "status 404") {
		t.Errorf("http status: exit %d, stderr %q", code, errOut)
	}
}

func TestUploadCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("diseaseName") != "Diabetes" {
			t.Errorf("diseaseName = %q", r.FormValue("diseaseName"))
		}
		io.WriteString(w, `{"success":true,"message":"ok","dataset_info":{"rows":12,"columns":["a","b","c"]}}`)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "pima.csv")
	os.WriteFile(path, []byte("a,b,c\n1,2,3\n"), 0644)

	code, out, errOut := runCLI("upload", "-api", srv.URL, "-file", path, "-name", "Diabetes")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Rows: 12") || !strings.Contains(out, "Columns: 3") {
		t.Errorf("output = %q", out)
	}
}

func TestUploadCommandRejectsNonCSV(t *testing.T) {
	code, _, errOut := runCLI("upload", "-api", "http://127.0.0.1:1", "-file", "notes.txt", "-name", "X")
	if code != 1 || !strings.Contains(errOut, "CSV") {
		t.Errorf("exit %d, stderr %q", code, errOut)
	}
}

func TestHealthCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"healthy","loaded_models":["heart"]}`)
	}))
	code, out, _ := runCLI("health", "-api", srv.URL)
	srv.Close()
	if code != 0 || !strings.Contains(out, `status: "healthy"`) {
		t.Errorf("online: exit %d, output %q", code, out)
	}

	code, out, _ = runCLI("health", "-api", srv.URL)
	if code != 1 || !strings.Contains(out, `status: "offline"`) {
		t.Errorf("offline: exit %d, output %q", code, out)
	}
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{nil, {"bogus"}, {"fields"}, {"upload"}} {
		if code, _, _ := runCLI(args...); code != 2 {
			t.Errorf("%v: exit %d, want 2", args, code)
		}
	}
	if code, out, _ := runCLI("diseases"); code != 0 || !strings.Contains(out, "parkinsons") {
		t.Errorf("diseases: exit %d, output %q", code, out)
	}
	if code, out, _ := runCLI("fields", "heart"); code != 0 || !strings.Contains(out, "thalach") {
		t.Errorf("fields: exit %d, output %q", code, out)
	}
}
