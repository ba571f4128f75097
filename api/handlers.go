package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/saqibullah/diagnosify/config"
	"github.com/saqibullah/diagnosify/dataset"
	"github.com/saqibullah/diagnosify/disease"
	"github.com/saqibullah/diagnosify/ocr"
	"github.com/saqibullah/diagnosify/predictor"
	"github.com/saqibullah/diagnosify/store"
)

type Handler struct {
	models    *predictor.Registry
	datasets  store.Store
	uploadDir string
	minRows   int
	recognize func(ctx context.Context, imagePath string) (string, error)
}

func NewHandler(models *predictor.Registry, datasets store.Store, cfg config.UploadConfig) *Handler {
	return &Handler{
		models:    models,
		datasets:  datasets,
		uploadDir: cfg.Dir,
		minRows:   cfg.MinRows,
		recognize: ocr.Recognize,
	}
}

type DatasetInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Filename    string   `json:"filename"`
	Rows        int      `json:"rows"`
	Columns     []string `json:"columns"`
}

func (h *Handler) Predict(c *gin.Context) {
	diseaseType := c.Param("diseaseType")
	d, known := disease.Lookup(diseaseType)
	model, loaded := h.models.Get(diseaseType)
	if !known || !loaded {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Model for %s not found", diseaseType)})
		return
	}

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		slog.Warn("Error binding JSON", "disease", diseaseType, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	features, err := d.Features(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := model.Predict(c.Request.Context(), features)
	if err != nil {
		slog.Error("Prediction failed", "disease", diseaseType, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slog.Info("Prediction served", "disease", diseaseType, "prediction", result.Label)
	c.JSON(http.StatusOK, gin.H{
		"prediction": result.Label,
		"confidence": result.Confidence,
	})
}

func (h *Handler) UploadDataset(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		case errors.Is(err, http.ErrMissingFile):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	if !dataset.Allowed(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}

	filename := dataset.SecureFilename(file.Filename)
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		slog.Error("Cannot create upload directory", "dir", h.uploadDir, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save dataset: " + err.Error()})
		return
	}
	// The upload stays in a private temp file until it has been validated
	// and recorded; only then does it replace uploadDir/<filename>.
	tmp, err := saveTemp(file, h.uploadDir)
	if err != nil {
		slog.Error("Error saving file", "file", filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save dataset: " + err.Error()})
		return
	}
	defer os.Remove(tmp) // no-op once renamed
	slog.Info("Received dataset", "file", filename, "size", file.Size)

	summary, err := summarizeFile(tmp, h.minRows)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.ingestMessage(err)})
		return
	}

	record := &store.Dataset{
		Name:        c.PostForm("diseaseName"),
		Description: c.PostForm("description"),
		Filename:    filename,
		Rows:        summary.Rows,
		Columns:     summary.Columns,
	}
	if err := h.datasets.Save(c.Request.Context(), record); err != nil {
		slog.Error("Failed to record dataset", "file", filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record dataset: " + err.Error()})
		return
	}
	if err := os.Rename(tmp, filepath.Join(h.uploadDir, filename)); err != nil {
		slog.Error("Error saving file", "file", filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save dataset: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Dataset uploaded successfully",
		"dataset_info": datasetInfo(record),
	})
}

func (h *Handler) ingestMessage(err error) string {
	switch {
	case errors.Is(err, dataset.ErrEmpty):
		return "Empty CSV file"
	case errors.Is(err, dataset.ErrTooSmall):
		return fmt.Sprintf("Dataset too small (minimum %d samples required)", h.minRows)
	default:
		return err.Error()
	}
}

// saveTemp copies an upload into a fresh temp file inside dir and returns
// its path.
func saveTemp(file *multipart.FileHeader, dir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp(dir, "upload-*.csv")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func summarizeFile(path string, minRows int) (*dataset.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.Summarize(f, minRows)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"loaded_models": h.models.Loaded(),
	})
}

func (h *Handler) ListDatasets(c *gin.Context) {
	list, err := h.datasets.List(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list datasets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	infos := make([]DatasetInfo, len(list))
	for i := range list {
		infos[i] = datasetInfo(&list[i])
	}
	c.JSON(http.StatusOK, gin.H{"datasets": infos, "count": len(infos)})
}

func (h *Handler) GetDataset(c *gin.Context) {
	d, err := h.datasets.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, datasetInfo(d))
}

// Extract reads field values for a disease out of an uploaded report image.
func (h *Handler) Extract(c *gin.Context) {
	d, ok := disease.Lookup(c.Param("diseaseType"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown disease type " + c.Param("diseaseType")})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded: " + err.Error()})
		return
	}

	tmp, err := os.CreateTemp("", "extract-*"+filepath.Ext(dataset.SecureFilename(file.Filename)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image: " + err.Error()})
		return
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	if err := c.SaveUploadedFile(file, tmp.Name()); err != nil {
		slog.Error("Error saving file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image: " + err.Error()})
		return
	}

	text, err := h.recognize(c.Request.Context(), tmp.Name())
	if err != nil {
		slog.Error("OCR failed", "file", file.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	extracted := ocr.Extract(text, d)
	slog.Info("Extracted fields", "disease", d.Type, "fields", len(extracted))
	c.JSON(http.StatusOK, gin.H{"extracted": extracted})
}

func datasetInfo(d *store.Dataset) DatasetInfo {
	return DatasetInfo{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Filename:    d.Filename,
		Rows:        d.Rows,
		Columns:     d.Columns,
	}
}
