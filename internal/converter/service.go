// Package converter turns a directory of PDF documents into one JSON file of
// table rows per document.
package converter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"dgrsdt/journals/internal/repository"
	"dgrsdt/journals/internal/state"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// TableExtractor reads the table rows of one PDF document
type TableExtractor interface {
	Extract(ctx context.Context, path string) ([][]string, error)
}

// BatchResult holds the outcome of a directory conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

type Service struct {
	extractor TableExtractor
	tracker   state.ProgressTracker      // optional
	sink      repository.TableRepository // optional
	workers   int
}

// NewService wires the converter. tracker and sink may be nil.
func NewService(
	extractor TableExtractor,
	tracker state.ProgressTracker,
	sink repository.TableRepository,
	workers int,
) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		extractor: extractor,
		tracker:   tracker,
		sink:      sink,
		workers:   workers,
	}
}

type outcome int

const (
	outcomeConverted outcome = iota
	outcomeSkipped
)

// ConvertDir converts every *.pdf directly inside inputDir and writes
// <base>.json into outputDir. A document that fails is logged and counted;
// only an unreadable input directory, an uncreatable output directory or a
// cancelled context is returned as an error.
func (s *Service) ConvertDir(ctx context.Context, inputDir, outputDir string) (BatchResult, error) {
	var result BatchResult

	documents, err := listDocuments(inputDir)
	if err != nil {
		return result, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	log.Infof("🔄 Converting %d documents from %s with %d workers", len(documents), inputDir, s.workers)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for _, path := range documents {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			res, err := s.convertFile(ctx, path, outputDir)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err != nil:
				result.Failed++
				log.Errorf("❌ Failed to convert %s: %v", filepath.Base(path), err)
			case res == outcomeSkipped:
				result.Skipped++
			default:
				result.Converted++
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	log.Infof("✅ Conversion finished: %d converted, %d skipped, %d failed",
		result.Converted, result.Skipped, result.Failed)

	return result, nil
}

// convertFile converts a single document into outputDir.
func (s *Service) convertFile(ctx context.Context, path, outputDir string) (outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return outcomeConverted, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	document := documentName(path)
	fingerprint := fmt.Sprintf("%d:%d", info.Size(), info.ModTime().UnixNano())

	if s.tracker != nil {
		done, err := s.tracker.IsConverted(ctx, document, fingerprint)
		if err != nil {
			log.Warnf("⚠️ Could not read conversion state for %s: %v", document, err)
		} else if done {
			log.Infof("⏭️ Skipping %s: already converted", document)
			return outcomeSkipped, nil
		}
	}

	rows, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return outcomeConverted, fmt.Errorf("failed to extract tables: %w", err)
	}

	jsonPath := filepath.Join(outputDir, document+".json")
	if err := writeRows(jsonPath, rows); err != nil {
		return outcomeConverted, err
	}

	if s.sink != nil {
		if err := s.sink.SaveDocumentTable(ctx, document, rows); err != nil {
			log.Warnf("⚠️ Failed to store rows of %s: %v", document, err)
		}
	}

	if s.tracker != nil {
		if err := s.tracker.MarkConverted(ctx, document, fingerprint); err != nil {
			log.Warnf("⚠️ Failed to record conversion of %s: %v", document, err)
		}
	}

	log.Infof("✅ Converted %s → %s (%d rows)", filepath.Base(path), jsonPath, len(rows))
	return outcomeConverted, nil
}

func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", dir, err)
	}

	var documents []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		documents = append(documents, filepath.Join(dir, entry.Name()))
	}
	return documents, nil
}

func documentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeRows(path string, rows [][]string) error {
	if rows == nil {
		rows = [][]string{}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}
