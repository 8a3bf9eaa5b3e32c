// Command tabular extracts tables from PDF files and writes them out as
// HTML, CSV, Markdown, or JSON.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/go-tabular/tabular"
	"github.com/go-tabular/tabular/export"
	"github.com/go-tabular/tabular/overlay"
	"github.com/go-tabular/tabular/pdfsource"
)

func main() {
	cmd := &cli.Command{
		Name:  "tabular",
		Usage: "Extract tables from PDF files",
		Commands: []*cli.Command{
			extractCommand(),
			benchmarkCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract tables from a single PDF file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pages", Usage: "Comma-separated page list/ranges, e.g. 1,3-5"},
			&cli.StringFlag{Name: "detector", Value: "plumber"},
			&cli.StringFlag{Name: "to", Value: "html", Usage: "html, csv, md, or json"},
			&cli.StringFlag{Name: "out", Value: ".", Usage: "output directory"},
			&cli.StringFlag{Name: "fill-policy", Value: "repeat", Usage: "repeat, empty, or sentinel"},
			&cli.StringFlag{Name: "stitch-aggressiveness", Value: "med", Usage: "low, med, or high"},
			&cli.BoolFlag{Name: "inline-styles", Usage: "emit inline CSS on HTML output"},
			&cli.BoolFlag{Name: "debug-overlays", Usage: "also write a _overlay.html per table"},
		},
		Action: runExtract,
	}
}

func runExtract(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("FILE argument is required")
	}
	path := cmd.Args().First()

	pages, err := parsePages(cmd.String("pages"))
	if err != nil {
		return err
	}

	fillPolicy, err := tabular.ParseFillPolicy(cmd.String("fill-policy"))
	if err != nil {
		return err
	}
	aggressiveness := tabular.ParseStitchAggressiveness(cmd.String("stitch-aggressiveness"))

	reader, err := pdfsource.NewReader()
	if err != nil {
		return fmt.Errorf("start pdfium: %w", err)
	}
	defer reader.Close()

	result, err := tabular.Extract(path, tabular.ExtractOptions{
		Source:               reader,
		Pages:                pages,
		Detector:             cmd.String("detector"),
		StitchAggressiveness: aggressiveness,
	})
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	outDir := cmd.String("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	exporter, err := resolveExporter(cmd.String("to"), fillPolicy, cmd.Bool("inline-styles"))
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i, table := range result.Tables {
		name := fmt.Sprintf("%s_table_%d%s", stem, i+1, exporter.FileExtension())
		content, err := exporter.ExportToString(&table)
		if err != nil {
			return fmt.Errorf("export table %d: %w", i+1, err)
		}
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("write table %d: %w", i+1, err)
		}

		if cmd.Bool("debug-overlays") {
			epsilon, _ := table.Meta["epsilon"].(float64)
			overlayHTML := overlay.Render(&table, overlay.Options{
				Detector: cmd.String("detector"),
				Epsilon:  epsilon,
			})
			overlayName := fmt.Sprintf("%s_table_%d_overlay.html", stem, i+1)
			if err := os.WriteFile(filepath.Join(outDir, overlayName), []byte(overlayHTML), 0o644); err != nil {
				return fmt.Errorf("write overlay %d: %w", i+1, err)
			}
		}
	}

	fmt.Fprintf(os.Stderr, "Extracted %d table(s) from %s\n", len(result.Tables), path)
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return nil
}

func resolveExporter(format string, fillPolicy tabular.FillPolicy, inlineStyles bool) (export.TableExporter, error) {
	opts := export.DefaultOptions()
	opts.FillPolicy = fillPolicy

	switch format {
	case "html":
		return export.NewHTMLExporterWithOptions(opts, inlineStyles), nil
	case "csv":
		return export.NewCSVExporterWithOptions(opts), nil
	case "md":
		return export.NewMarkdownExporterWithOptions(opts), nil
	case "json":
		return export.NewJSONExporterWithOptions(opts), nil
	default:
		return nil, &tabular.ConfigError{Field: "to", Value: format}
	}
}

func benchmarkCommand() *cli.Command {
	return &cli.Command{
		Name:      "benchmark",
		Usage:     "Run extraction repeatedly and report timing",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "repeat", Value: 3},
			&cli.StringFlag{Name: "detector", Value: "plumber"},
		},
		Action: runBenchmark,
	}
}

func runBenchmark(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("FILE argument is required")
	}
	path := cmd.Args().First()
	repeat := int(cmd.Int("repeat"))
	if repeat < 1 {
		repeat = 1
	}

	reader, err := pdfsource.NewReader()
	if err != nil {
		return fmt.Errorf("start pdfium: %w", err)
	}
	defer reader.Close()

	var durations []time.Duration
	var lastResult *tabular.DocResult
	for i := 0; i < repeat; i++ {
		start := time.Now()
		result, err := tabular.Extract(path, tabular.ExtractOptions{
			Source:   reader,
			Detector: cmd.String("detector"),
		})
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}
		durations = append(durations, time.Since(start))
		lastResult = result
	}

	var total time.Duration
	fmt.Printf("%-6s %s\n", "Run", "Seconds")
	for i, d := range durations {
		fmt.Printf("%-6d %.3f\n", i+1, d.Seconds())
		total += d
	}
	fmt.Printf("%-6s %.3f\n", "avg", (total / time.Duration(len(durations))).Seconds())
	if lastResult != nil {
		fmt.Printf("%-6s %d\n", "tables", len(lastResult.Tables))
	}
	return nil
}

func parsePages(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	seen := make(map[int]struct{})
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "-") {
			bounds := strings.SplitN(part, "-", 2)
			start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", part, err)
			}
			end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q: %w", part, err)
			}
			for p := start; p <= end; p++ {
				seen[p] = struct{}{}
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page %q: %w", part, err)
		}
		seen[p] = struct{}{}
	}
	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sortInts(pages)
	return pages, nil
}

func sortInts(values []int) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && values[j-1] > values[j]; j-- {
			values[j-1], values[j] = values[j], values[j-1]
		}
	}
}
