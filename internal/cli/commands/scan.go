package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	cliconfig "github.com/embersql/embersql/internal/cli/config"
	"github.com/embersql/embersql/internal/detect"
	"github.com/embersql/embersql/internal/document"
)

// defaultScanJobs bounds concurrent file reads.
const defaultScanJobs = 4

// scanResult is one detected SQL region, flattened for rendering.
type scanResult struct {
	File          string `json:"file"`
	Line          uint32 `json:"line"`
	Function      string `json:"function"`
	Interpolating bool   `json:"interpolating"`
	Multiline     bool   `json:"multiline"`
	Query         string `json:"query"`
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	var (
		watch bool
		jobs  int
	)

	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Find SQL embedded in R scripts",
		Long: `Scan R scripts for embedded SQL.

Directories are walked recursively for .R and .r files; explicit file
arguments are scanned as given. Without arguments the current directory
is scanned.`,
		Example: `  # Scan the current project
  embersql scan

  # Scan specific files as JSON
  embersql scan -o json analysis/load.R

  # Re-scan whenever a script changes
  embersql scan --watch scripts/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			cfg := cliconfig.GetCurrentConfig()
			if cfg == nil {
				return fmt.Errorf("configuration not loaded")
			}

			logger := cliconfig.GetLogger(cmd.Context())
			sc := &scanner{
				detector: detect.New(cfg.DetectConfig(), logger),
				output:   cfg.Output,
				jobs:     jobs,
				log:      logger,
			}

			if watch {
				return sc.watch(cmd, args)
			}

			results, err := sc.scanPaths(cmd.Context(), args)
			if err != nil {
				return err
			}
			return sc.render(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-scan when files change")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", defaultScanJobs, "Maximum files scanned concurrently")

	return cmd
}

// scanner runs the batch detection pass over files on disk.
type scanner struct {
	detector *detect.Detector
	output   string
	jobs     int
	log      *slog.Logger
}

// isRFile reports whether the file name has an R source extension.
func isRFile(name string) bool {
	return strings.HasSuffix(name, ".R") || strings.HasSuffix(name, ".r")
}

// collectFiles expands paths into the list of R files to scan.
// Explicit file arguments are kept as given; directories are walked
// recursively, skipping hidden directories.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot scan %s: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if isRFile(d.Name()) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// scanPaths scans every R file under paths and returns the detected
// regions ordered by file, then position.
func (s *scanner) scanPaths(ctx context.Context, paths []string) ([]scanResult, error) {
	files, err := collectFiles(paths)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results []scanResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for _, file := range files {
		g.Go(func() error {
			found, err := s.scanFile(ctx, file)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].File != results[j].File {
			return results[i].File < results[j].File
		}
		return results[i].Line < results[j].Line
	})
	return results, nil
}

// scanFile reads one file and converts its regions to results.
// Reported line numbers are 1-based.
func (s *scanner) scanFile(ctx context.Context, path string) ([]scanResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc := document.New(document.PathToURI(path), string(content), 0)
	regions := s.detector.FindAllRegions(ctx, doc)
	s.log.Debug("scanned file", "path", path, "regions", len(regions))

	results := make([]scanResult, 0, len(regions))
	for _, region := range regions {
		results = append(results, scanResult{
			File:          path,
			Line:          region.Range.Start.Line + 1,
			Function:      region.FunctionName,
			Interpolating: region.Interpolating,
			Multiline:     region.Multiline,
			Query:         previewQuery(region.Text),
		})
	}
	return results, nil
}

// previewQuery collapses a fragment to a single trimmed line.
func previewQuery(text string) string {
	const maxPreview = 60

	fields := strings.Fields(text)
	preview := strings.Join(fields, " ")
	if len(preview) > maxPreview {
		preview = preview[:maxPreview-3] + "..."
	}
	return preview
}
