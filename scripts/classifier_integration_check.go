// scripts/classifier_integration_check.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwiater/senticv/internal/appconfig"
	"github.com/mwiater/senticv/internal/classifier"
	"github.com/mwiater/senticv/internal/dataset"
	"github.com/mwiater/senticv/internal/providerfactory"
)

// probe is a tiny balanced set that any working backend should mostly get right.
var probe = dataset.Dataset{
	{Rating: -1, Text: "Terrible lectures and unfair grading."},
	{Rating: -1, Text: "Boring, disorganized and rude."},
	{Rating: 0, Text: "The course covers the syllabus."},
	{Rating: 0, Text: "Lectures are on Tuesday mornings."},
	{Rating: 1, Text: "Great teacher, clear and helpful."},
	{Rating: 1, Text: "Loved the labs, excellent feedback."},
}

func main() {
	configPath := flag.String("config", appconfig.DefaultConfigPath, "Path to config JSON")
	backendType := flag.String("type", "", "Override classifier type")
	baseURL := flag.String("url", "", "Override classifier base URL")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	flag.Parse()

	cfg, err := resolveConfig(*configPath, *backendType, *baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	backend, session, err := providerfactory.NewBackend(&cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backend error: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	fmt.Printf("Target backend: %s\n", backend.Name())
	fmt.Printf("Session: %s\n\n", session.Name)

	fc, err := classifier.New(backend, session).Open(ctx, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := fc.Release(context.WithoutCancel(ctx)); err != nil {
			fmt.Fprintf(os.Stderr, "release failed: %v\n", err)
		}
	}()

	all := make([]int, len(probe))
	for i := range probe {
		all[i] = i
	}
	if err := fc.Train(ctx, classifier.GroupByLabel(probe, all)); err != nil {
		fmt.Fprintf(os.Stderr, "train failed: %v\n", err)
		return
	}

	texts := probe.Texts(all)
	outputs, err := fc.Classify(ctx, texts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "classify failed: %v\n", err)
		return
	}

	fmt.Println("== classify ==")
	for i, out := range outputs {
		fmt.Printf("%-8s neg=%.3f neutral=%.3f pos=%.3f  expected=%d  %s\n",
			out.Label, out.Scores.Neg, out.Scores.Neutral, out.Scores.Pos, probe[i].Rating, out.Text)
	}
}

func resolveConfig(configPath, overrideType, overrideURL string) (appconfig.Config, error) {
	cfg, err := appconfig.Load(configPath)
	if err != nil && overrideType == "" {
		return appconfig.Config{}, err
	}
	if overrideType != "" {
		cfg.Classifier.Type = strings.TrimSpace(overrideType)
	}
	if overrideURL != "" {
		cfg.Classifier.URL = overrideURL
	}
	return cfg, cfg.Validate()
}
