// Package ocr reads medical report images and pulls field values out of
// the recognised text.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/saqibullah/diagnosify/disease"
)

// Recognize runs tesseract on the image and returns the trimmed text.
func Recognize(ctx context.Context, imagePath string) (string, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return "", fmt.Errorf("tesseract not installed or not in PATH: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "tesseract", imagePath, "stdout", "-l", "eng")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("OCR failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

var normalizer = strings.NewReplacer(
	"BloodPressure", "Blood Pressure",
	"SkinThickness", "Skin Thickness",
	"−", "-",
)

// A label and its value are separated by ":", "=", " - " or whitespace.
const valuePattern = `(?:\s*[:=]\s*|\s*-\s+|\s+)(-?\d*\.?\d+)`

// fieldPatterns holds the compiled pattern of every known field, keyed by
// disease type and then field name.
var fieldPatterns = compilePatterns(disease.All())

func compilePatterns(ds []disease.Disease) map[string]map[string]*regexp.Regexp {
	out := make(map[string]map[string]*regexp.Regexp, len(ds))
	for _, d := range ds {
		byField := make(map[string]*regexp.Regexp, len(d.Fields))
		for _, f := range d.Fields {
			byField[f.Name] = fieldPattern(f)
		}
		out[d.Type] = byField
	}
	return out
}

// Extract finds "<label> <number>" pairs for the fields of d. Fields that
// do not appear in the text are left out of the result.
func Extract(text string, d disease.Disease) map[string]float64 {
	text = normalizer.Replace(text)

	extracted := make(map[string]float64)
	for _, f := range d.Fields {
		re, ok := fieldPatterns[d.Type][f.Name]
		if !ok {
			re = fieldPattern(f)
		}
		match := re.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			slog.Warn("Cannot parse OCR value", "field", f.Name, "value", match[1], "error", err)
			continue
		}
		extracted[f.Name] = v
	}
	return extracted
}

func fieldPattern(f disease.Field) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^A-Za-z0-9_:])(?:` + strings.Join(f.Aliases, "|") + `)` + valuePattern)
}
