package normalize

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"suiterun/internal/domain"
)

var _ Normalizer = (*SourceNormalizer)(nil)

// SourceNormalizer applies rules to unit sources with a pool of workers
type SourceNormalizer struct {
	rules   []Rule
	workers int
	out     io.Writer
	logger  logrus.FieldLogger
}

// NewSourceNormalizer creates a SourceNormalizer. Per-file lines go to out.
func NewSourceNormalizer(rules []Rule, out io.Writer, logger logrus.FieldLogger) *SourceNormalizer {
	return &SourceNormalizer{
		rules:   rules,
		workers: runtime.NumCPU(),
		out:     out,
		logger:  logger,
	}
}

// Run normalizes every unit source and reports per-file outcomes in unit order.
// With dryRun set nothing is written. The returned error is non-nil when any
// file could not be read or written.
func (sn *SourceNormalizer) Run(units []domain.TestUnit, dryRun bool) ([]FileResult, error) {
	fmt.Fprintln(sn.out, color.CyanString("\n╔════════════════════════════════════════════════════════════╗"))
	fmt.Fprintln(sn.out, color.CyanString("║                  Normalizing Unit Sources                  ║"))
	fmt.Fprintln(sn.out, color.CyanString("╚════════════════════════════════════════════════════════════╝\n"))

	results := make([]FileResult, len(units))
	if len(units) == 0 {
		return results, nil
	}

	bar := progressbar.NewOptions(len(units),
		progressbar.OptionSetDescription(color.CyanString("Normalizing: ")),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(sn.out),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(sn.out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	workers := sn.workers
	if workers > len(units) {
		workers = len(units)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = sn.normalizeFile(units[i].Path, dryRun)
				_ = bar.Add(1)
			}
		}()
	}
	for i := range units {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	_ = bar.Finish()

	fmt.Fprintln(sn.out)
	var changed, failed int
	for _, result := range results {
		switch {
		case result.Err != nil:
			failed++
			fmt.Fprintln(sn.out, color.RedString("Failed %s: %v", result.Path, result.Err))
		case result.Changed:
			changed++
			fmt.Fprintf(sn.out, "Fixed %s\n", result.Path)
		default:
			fmt.Fprintf(sn.out, "No changes needed for %s\n", result.Path)
		}
	}

	fmt.Fprintln(sn.out)
	verb := "Fixed"
	if dryRun {
		verb = "Would fix"
	}
	fmt.Fprintln(sn.out, color.GreenString("✓ %s %d of %d file(s)", verb, changed, len(units)))

	if failed > 0 {
		return results, fmt.Errorf("normalize failed for %d file(s)", failed)
	}
	return results, nil
}

func (sn *SourceNormalizer) normalizeFile(path string, dryRun bool) FileResult {
	result := FileResult{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		result.Err = err
		return result
	}
	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = err
		return result
	}

	original := string(data)
	content := original
	for _, rule := range sn.rules {
		content = rule.Apply(content)
	}
	if content == original {
		return result
	}

	result.Changed = true
	sn.logger.WithFields(logrus.Fields{
		"path":    path,
		"dry_run": dryRun,
	}).Debug("Normalized unit source")

	if dryRun {
		return result
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		result.Err = fmt.Errorf("write: %w", err)
	}
	return result
}
