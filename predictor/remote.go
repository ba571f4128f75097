package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Remote forwards feature vectors to an external ML service at
// {baseURL}/predict/{disease}.
type Remote struct {
	client  *resty.Client
	disease string
}

type remoteRequest struct {
	Features []float64 `json:"features"`
}

type remoteResponse struct {
	Prediction string   `json:"prediction"`
	Confidence *float64 `json:"confidence"`
}

func NewRemote(baseURL, disease string, timeout time.Duration) *Remote {
	return &Remote{
		client:  resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		disease: disease,
	}
}

func (r *Remote) Predict(ctx context.Context, features []float64) (Result, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(remoteRequest{Features: features}).
		SetResult(&remoteResponse{}).
		ForceContentType("application/json").
		SetPathParam("disease", r.disease).
		Post("/predict/{disease}")
	if err != nil {
		return Result{}, fmt.Errorf("failed to connect to ML server: %w", err)
	}
	if !resp.IsSuccess() {
		return Result{}, fmt.Errorf("ML server error: status %d", resp.StatusCode())
	}

	out := resp.Result().(*remoteResponse)
	switch out.Prediction {
	case Positive, "1":
		return Result{Label: Positive, Confidence: out.Confidence}, nil
	case Negative, "0":
		return Result{Label: Negative, Confidence: out.Confidence}, nil
	default:
		return Result{}, fmt.Errorf("ML server returned unknown prediction %q", out.Prediction)
	}
}
