package predictor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestRemotePredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict/heart" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req remoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if !reflect.DeepEqual(req.Features, []float64{63, 1, 3}) {
			t.Errorf("features = %v", req.Features)
		}
		io.WriteString(w, `{"prediction":"1","confidence":0.71}`)
	}))
	defer srv.Close()

	r, err := NewRemote(srv.URL, "heart", time.Second).Predict(context.Background(), []float64{63, 1, 3})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if r.Label != Positive || r.Confidence == nil || *r.Confidence != 0.71 {
		t.Errorf("result = %+v", r)
	}
}

func TestRemoteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "unknown label", status: http.StatusOK, body: `{"prediction":"maybe"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			if _, err := NewRemote(srv.URL, "diabetes", time.Second).Predict(context.Background(), []float64{1}); err == nil {
				t.Error("expected error")
			}
		})
	}
}
