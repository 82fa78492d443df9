package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geoaddr/internal/domain"
	"geoaddr/internal/report"
	"geoaddr/internal/service"
)

// maxLineSize bounds a single input text.
const maxLineSize = 1 << 20

type batchOptions struct {
	cityHint string
	format   string
	output   string
	upload   bool
}

func newBatchCommand(app *App) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <file|->",
		Short: "Extract and geocode one text per line",
		Long: `
Processes every non-empty line of the input file ("-" reads standard input)
and writes a CSV, XLSX or JSON report. With --upload the report is stored in
S3 and a presigned download URL is printed.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, app, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.cityHint, "city", "", "city used when a text names none")
	f.StringVarP(&opts.format, "format", "f", "csv", "report format: csv, xlsx or json")
	f.StringVarP(&opts.output, "output", "o", "", `output file ("-" for stdout, default <input>_<date>.<ext>)`)
	f.BoolVar(&opts.upload, "upload", false, "upload the report to S3 and print its URL")
	return cmd
}

func runBatch(cmd *cobra.Command, app *App, opts *batchOptions, input string) error {
	ctx := cmd.Context()

	isJSON := strings.EqualFold(opts.format, "json")
	var format report.Format
	if !isJSON {
		f, err := report.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		format = f
	} else if opts.upload {
		return fmt.Errorf("%w: --upload needs csv or xlsx", domain.ErrInvalidInput)
	}

	texts, err := readTexts(app, input)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("%w: %s has no texts", domain.ErrInvalidInput, input)
	}

	runner, err := app.NewRunner(ctx)
	if err != nil {
		return fmt.Errorf("initializing pipeline: %w", err)
	}

	var bar *progressbar.ProgressBar
	if f, ok := app.stderr().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		bar = progressbar.NewOptions(len(texts),
			progressbar.OptionSetDescription("Geocoding"),
			progressbar.OptionSetWriter(f),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	geocoded := 0
	results := runner.BatchFunc(ctx, texts, opts.cityHint, func(_ int, res *domain.GeoResult) {
		if res.Geocoded {
			geocoded++
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	if bar != nil {
		_ = bar.Finish()
	}
	app.Log.Info("batch finished", zap.Int("texts", len(results)), zap.Int("geocoded", geocoded))
	fmt.Fprintf(app.stderr(), "%d texts, %d geocoded\n", len(results), geocoded)

	if isJSON {
		return writeJSON(app, opts.output, results)
	}

	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if input == "-" {
		name = "batch"
	}

	var reports service.ReportService
	if opts.upload {
		storage, err := app.NewStorage(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
		}
		reports = service.NewReportService(storage)
	} else {
		reports = service.NewReportService(nil)
	}

	file, err := reports.Render(results, format, name)
	if err != nil {
		return err
	}

	if opts.upload {
		published, err := reports.Publish(ctx, file)
		if err != nil {
			return err
		}
		fmt.Fprintln(app.stdout(), published.URL)
		if opts.output == "" {
			return nil
		}
	}

	out := opts.output
	if out == "" {
		out = file.Name
	}
	if out == "-" {
		_, err = app.stdout().Write(file.Data)
		return err
	}
	if err := os.WriteFile(out, file.Data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(app.stderr(), "report written to %s\n", out)
	return nil
}

func readTexts(app *App, input string) ([]string, error) {
	var r io.Reader
	if input == "-" {
		r = app.stdin()
	} else {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var texts []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			texts = append(texts, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return texts, nil
}

func writeJSON(app *App, output string, results []*domain.GeoResult) error {
	w := app.stdout()
	if output != "" && output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
