package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/saqibullah/diagnosify/client"
	"github.com/saqibullah/diagnosify/config"
	"github.com/saqibullah/diagnosify/dataset"
	"github.com/saqibullah/diagnosify/disease"
)

const usage = `usage: diagnosify <command> [flags]

commands:
  diseases                      list prediction categories
  fields <disease>              list the inputs a disease needs
  predict <disease> k=v ...     run a prediction
  upload -file F -name N        upload a CSV dataset
  health                        check the backend
`

var errUsage = errors.New("invalid usage")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "diseases":
		err = listDiseases(stdout)
	case "fields":
		err = listFields(args[1:], stdout)
	case "predict":
		err = predict(ctx, args[1:], stdout, stderr)
	case "upload":
		err = upload(ctx, args[1:], stdout, stderr)
	case "health":
		err = health(ctx, args[1:], stdout, stderr)
	default:
		err = errUsage
	}

	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		fmt.Fprint(stderr, usage)
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func newClient(fs *flag.FlagSet, args []string, stderr io.Writer) (*client.Client, error) {
	cfg := config.LoadClient()
	api := fs.String("api", cfg.BaseURL, "backend base URL")
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return client.New(*api, client.WithTimeout(cfg.Timeout)), nil
}

func listDiseases(stdout io.Writer) error {
	for _, d := range disease.All() {
		fmt.Fprintf(stdout, "%-12s %-32s %d fields\n", d.Type, d.Title, len(d.Fields))
	}
	return nil
}

func listFields(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errUsage
	}
	d, ok := disease.Lookup(args[0])
	if !ok {
		return fmt.Errorf("the disease type %q is not supported", args[0])
	}
	for _, f := range d.Fields {
		fmt.Fprintf(stdout, "%-18s %-60s %s\n", f.Name, f.Label, f.Hint)
	}
	return nil
}

func predict(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	c, err := newClient(fs, args, stderr)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errUsage
	}

	d, ok := disease.Lookup(fs.Arg(0))
	if !ok {
		return fmt.Errorf("the disease type %q is not supported", fs.Arg(0))
	}

	values := make(map[string]string)
	for _, kv := range fs.Args()[1:] {
		name, value, found := strings.Cut(kv, "=")
		if !found {
			return fmt.Errorf("expected field=value, got %q", kv)
		}
		values[name] = value
	}
	if missing := d.Missing(values); len(missing) > 0 {
		return fmt.Errorf("please fill in all required fields: %s", strings.Join(missing, ", "))
	}

	resp, err := c.Predict(ctx, d.Type, disease.ParseForm(values))
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("prediction failed: %s", resp.Error)
	}

	fmt.Fprintf(stdout, "Prediction Result: %s", resp.Prediction)
	if resp.Confidence != nil {
		fmt.Fprintf(stdout, " (%.1f%% confidence)", *resp.Confidence*100)
	}
	fmt.Fprintln(stdout)
	if resp.Prediction == "Positive" {
		fmt.Fprintln(stdout, "The model indicates potential risk. Please consult with a healthcare professional.")
	} else {
		fmt.Fprintln(stdout, "The model indicates low risk. Continue maintaining a healthy lifestyle.")
	}
	return nil
}

func upload(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	path := fs.String("file", "", "CSV file to upload")
	name := fs.String("name", "", "disease name")
	description := fs.String("description", "", "dataset description")
	c, err := newClient(fs, args, stderr)
	if err != nil {
		return err
	}
	if *path == "" || *name == "" {
		return errUsage
	}
	if !dataset.Allowed(*path) {
		return fmt.Errorf("please select a CSV file")
	}

	f, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer f.Close()

	resp, err := c.UploadDataset(ctx, f, filepath.Base(*path), *name, *description)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Upload failed"
		}
		return errors.New(msg)
	}

	fmt.Fprintf(stdout, "%s dataset has been processed and is ready for training.\n", *name)
	if info := resp.DatasetInfo; info != nil {
		fmt.Fprintf(stdout, "Rows: %d\nColumns: %d\n", info.Rows, len(info.Columns))
	}
	return nil
}

func health(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	c, err := newClient(fs, args, stderr)
	if err != nil {
		return err
	}

	h := c.CheckHealth(ctx)
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, _ := json.Marshal(h[k])
		fmt.Fprintf(stdout, "%s: %s\n", k, v)
	}
	if !h.Online() {
		return errors.New("backend is offline")
	}
	return nil
}
