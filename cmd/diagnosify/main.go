// Command diagnosify is a terminal front end for the prediction backend.
//
//	diagnosify diseases
//	diagnosify fields heart
//	diagnosify predict diabetes glucose=148 bmi=33.6 ...
//	diagnosify upload -file pima.csv -name Diabetes -description "Pima indians"
//	diagnosify health
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}
