// Command photocap generates AI captions for photographs, optionally using
// embedded GPS metadata for location context and embedding the result back
// into the image's XMP metadata.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-runewidth"
	"github.com/photocap/photocap/pkg/caption"
	"github.com/photocap/photocap/pkg/catalog"
	"github.com/photocap/photocap/pkg/geodata"
	"github.com/photocap/photocap/pkg/xmpembed"
)

// previewWidth bounds the caption preview in terminal cells.
const previewWidth = 50

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: photocap [flags] image...\n\nGenerate AI captions for photos with GPS support.\n\nFlags:\n")
		flag.PrintDefaults()
	}

	providerFlag := flag.String("provider", "", "AI provider: claude or openai (default claude)")
	modelFlag := flag.String("model", "", "model to use. Claude: haiku, sonnet, opus. OpenAI: gpt-4o, gpt-4o-mini, gpt-4-turbo")
	styleFlag := flag.String("style", "", "caption style: descriptive, social, minimal, artistic, documentary, travel (default descriptive)")
	noGPS := flag.Bool("no-gps", false, "disable GPS extraction")
	embed := flag.Bool("embed", false, "embed captions into JPEG files")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	configPath := flag.String("config", "", "path to YAML defaults file (provider/model/style)")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := loadDotEnv(*envFile); err != nil {
		fatal(err)
	}

	defaults, err := loadDefaults(*configPath)
	if err != nil {
		fatal(err)
	}

	provider, err := catalog.ParseProvider(firstNonEmpty(*providerFlag, defaults.Provider, string(catalog.ProviderClaude)))
	if err != nil {
		fatal(err)
	}

	opts := runOptions{
		provider: provider,
		model:    firstNonEmpty(*modelFlag, defaults.Model),
		style:    firstNonEmpty(*styleFlag, defaults.Style, caption.DefaultStyle),
		noGPS:    *noGPS,
		embed:    *embed,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	failed, err := run(ctx, opts, flag.Args())
	if err != nil {
		fatal(err)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

type runOptions struct {
	provider catalog.Provider
	model    string
	style    string
	noGPS    bool
	embed    bool
}

// captioner is the slice of caption.Generator that process needs.
type captioner interface {
	Generate(ctx context.Context, imagePath string, opts caption.Options) (string, error)
}

// run wires up the generator and geocoder and hands off to process.
func run(ctx context.Context, opts runOptions, images []string) (int, error) {
	gen, err := caption.New(caption.Config{Provider: opts.provider})
	if err != nil {
		return 0, err
	}

	var geocoder *geodata.Geocoder
	if !opts.noGPS {
		geocoder = geodata.NewGeocoder()
	}

	return process(ctx, gen, geocoder, opts, images, os.Stdout), nil
}

// process captions each image in turn, continuing past per-image failures,
// and returns the number of images that failed. Every image produces
// exactly one status line: an embed failure turns the whole image into a
// failure rather than printing success and failure side by side.
func process(ctx context.Context, gen captioner, geocoder *geodata.Geocoder, opts runOptions, images []string, out io.Writer) int {
	failed := 0

	for _, path := range images {
		name := filepath.Base(path)

		locationContext := ""
		if geocoder != nil {
			if gps := geodata.ExtractGPS(path); gps != nil {
				if loc := geocoder.ReverseGeocode(ctx, gps.Latitude, gps.Longitude, geodata.DefaultRetries); loc != nil {
					locationContext = loc.PromptContext()
				}
			}
		}

		text, err := gen.Generate(ctx, path, caption.Options{
			Style:           opts.style,
			Model:           opts.model,
			LocationContext: locationContext,
		})
		if err != nil {
			fmt.Fprintf(out, "✗ %s: %v\n", name, err)
			failed++
			continue
		}

		if opts.embed {
			if err := xmpembed.Embed(path, text); err != nil {
				fmt.Fprintf(out, "✗ %s: caption generated but embed failed: %v\n", name, err)
				failed++
				continue
			}
		}

		fmt.Fprintf(out, "✓ %s: %s\n", name, preview(text))
	}

	return failed
}

// preview collapses the caption to one line and truncates it by display
// width, so multi-line social captions still fit one status line.
func preview(text string) string {
	oneLine := strings.Join(strings.Fields(text), " ")
	return runewidth.Truncate(oneLine, previewWidth, "...")
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
