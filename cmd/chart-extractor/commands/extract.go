package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spherical/chart-extractor/cmd/chart-extractor/ui"
	"github.com/spherical/chart-extractor/internal/config"
	"github.com/spherical/chart-extractor/internal/domain"
	"github.com/spherical/chart-extractor/internal/export"
	"github.com/spherical/chart-extractor/internal/extract"
	"github.com/spherical/chart-extractor/internal/imaging"
	"github.com/spherical/chart-extractor/internal/llm"
	"github.com/spherical/chart-extractor/internal/observability"
	"github.com/spherical/chart-extractor/internal/pdf"
	"github.com/spherical/chart-extractor/internal/raster"
)

var (
	extractOutputPath string
	extractFormat     string
	extractMaxPages   int
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract chart data from a document",
	Long: `Extract renders the document (PDF, PPTX, PNG, JPG, JPEG, WEBP or GIF),
sends each page to the configured vision model one at a time, and exports every
chart found. Slides without a picture are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutputPath, "output", "o", "", "output file (default: <input-name>-charts.<format>)")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", string(export.FormatXLSX), "export format: xlsx, csv or json")
	extractCmd.Flags().IntVar(&extractMaxPages, "pages", 0, "extract at most this many pages (0 = all)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	format, err := export.ParseFormat(extractFormat)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	model, err := llm.New(cfg.Model)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	outputPath := extractOutputPath
	if outputPath == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outputPath = base + "-charts." + string(format)
	}

	// Logs go to stderr only when asked for, so they don't fight the progress bar
	logOutput := io.Discard
	if verbose {
		logOutput = os.Stderr
	}
	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      "console",
		Output:      logOutput,
		ServiceName: "chart-extractor",
	})

	normalizer := imaging.NewNormalizer(cfg.Raster.MaxSide, cfg.Raster.JPEGQuality)
	converter := pdf.NewConverter(normalizer, cfg.Raster.PDFMaxPages, cfg.Raster.PDFScale)
	service := extract.NewService(
		raster.New(normalizer, converter, logger),
		extract.NewClient(model, logger),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.Section("Chart Extraction")
	ui.Info("Input: %s", inputPath)
	ui.Info("Model: %s", model.Name())

	result, err := runWithProgress(ctx, service, content, filepath.Base(inputPath))
	if err != nil {
		return err
	}

	ui.Newline()
	ui.PageTable(result)

	if len(result.Charts) == 0 {
		ui.Warning("No charts found in %s; nothing written", inputPath)
		return nil
	}

	res, err := export.Export(result.Charts, string(format), filepath.Base(outputPath))
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, res.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}

	ui.Success("Wrote %d charts to %s (%s)", len(result.Charts), outputPath, ui.FormatDuration(result.Duration))
	return nil
}

// runWithProgress runs the service in the background and renders its events
func runWithProgress(ctx context.Context, service *extract.Service, content []byte, filename string) (*extract.Result, error) {
	eventCh := make(chan domain.StreamEvent, 100)

	type outcome struct {
		result *extract.Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		result, err := service.Process(ctx, content, filename, extractMaxPages, eventCh)
		close(eventCh)
		done <- outcome{result, err}
	}()

	spinner := ui.NewSpinner("Rendering " + filename)
	spinner.Start()

	var bar *ui.ProgressBar
	completed := int64(0)
	for event := range eventCh {
		switch event.Type {
		case domain.EventStart:
			spinner.Stop()
			bar = ui.NewProgressBar(int64(event.TotalPages), "Extracting pages")

		case domain.EventPageProcessing:
			if bar != nil {
				bar.Describe(fmt.Sprintf("Page %d/%d", event.PageNumber, event.TotalPages))
			}

		case domain.EventPageComplete, domain.EventPageSkipped:
			completed++
			if bar != nil {
				bar.Set(completed)
			}

		case domain.EventError:
			spinner.Stop()
			if event.PageNumber > 0 {
				completed++
				if bar != nil {
					bar.Set(completed)
				}
			}
			ui.Error("%v", event.Payload)

		case domain.EventComplete:
			if bar != nil {
				bar.Finish()
			}
			ui.Verbose("%v", event.Payload)
		}
	}
	spinner.Stop()

	out := <-done
	return out.result, out.err
}
