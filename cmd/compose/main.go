package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"smartgrader-composer/internal/composer"
	"smartgrader-composer/internal/config"
	"smartgrader-composer/internal/importer"
	"smartgrader-composer/internal/services"
)

func main() {
	cfg := config.Load()

	input := flag.String("input", "", "Path to a .json or .csv question file")
	title := flag.String("title", "", "Test title")
	description := flag.String("description", "", "Test description")
	options := flag.Int("options", cfg.DefaultNumOptions, "Options per question (2-5)")
	pdf := flag.Bool("pdf", false, "Ask the server to generate the PDF")
	randomize := flag.Bool("randomize", false, "Create shuffled variants")
	variants := flag.Int("variants", 0, "Number of variants (with -randomize, defaults to 2)")
	perVariant := flag.Int("per-variant", 0, "Questions per variant (required with -randomize)")
	server := flag.String("server", cfg.GraderBaseURL, "SmartGrader base URL")
	dryRun := flag.Bool("dry-run", false, "Print the request body instead of sending it")
	verbose := flag.Bool("verbose", false, "Enable verbose output")

	flag.Parse()

	if *input == "" || *title == "" {
		fmt.Fprintf(os.Stderr, "Error: input file and title required\n")
		fmt.Fprintf(os.Stderr, "Usage: compose -input <file> -title <title> [-options 4] [-pdf] [-randomize -variants 2 -per-variant 10] [-dry-run]\n")
		os.Exit(1)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read input file: %v\n", err)
		os.Exit(1)
	}

	items, err := importer.ParseFile(*input, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", *input, err)
		os.Exit(1)
	}

	form := composer.New(*options)
	if *options != form.OptionCount() {
		fmt.Fprintf(os.Stderr, "Warning: -options %d is out of range, using %d\n", *options, form.OptionCount())
	}
	count, err := form.Import(items)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s contains no usable questions\n", *input)
		os.Exit(1)
	}
	if *verbose {
		fmt.Printf("Imported %d of %d questions, %d options each\n", count, len(items), form.OptionCount())
	}

	form.Title = *title
	form.Description = *description
	form.Randomization = composer.Randomization{
		Enabled:             *randomize,
		VariantCount:        *variants,
		QuestionsPerVariant: *perVariant,
	}

	payload, err := composer.BuildPayload(form, *pdf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := services.NewGraderClient(*server, cfg.GraderTimeout)
	if cfg.GraderEmail != "" {
		if *verbose {
			fmt.Printf("Logging in to %s as %s\n", *server, cfg.GraderEmail)
		}
		if err := client.Login(ctx, cfg.GraderEmail, cfg.GraderPassword); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *verbose {
		fmt.Printf("Submitting %q (%d questions, %d variants) to %s\n", payload.Title, len(payload.Questions), payload.NumVariants, *server)
	}
	result, err := client.SubmitTest(ctx, payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result.Message)
	if result.TestID != 0 {
		fmt.Printf("Test ID: %d\n", result.TestID)
	}
	for _, link := range result.PDFLinks() {
		fmt.Printf("PDF: %s\n", link)
	}
	if result.PDFError != "" {
		fmt.Fprintf(os.Stderr, "Warning: PDF generation failed: %s\n", result.PDFError)
	}
}
