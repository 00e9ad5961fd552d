package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lecternhq/lectern/internal/docproc"
	"github.com/lecternhq/lectern/internal/domain"
	"github.com/lecternhq/lectern/internal/repository"
	"github.com/lecternhq/lectern/internal/vectorstore"
)

// folderWorkers bounds concurrent document ingestion; embedding is the
// expensive step and most backends rate-limit.
const folderWorkers = 4

// Embedder turns chunk contents into vectors in batch.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// IngestService turns raw course documents into catalog entries and
// indexed chunks.
type IngestService struct {
	processor *docproc.DocumentProcessor
	catalog   *repository.CourseRepository
	embedder  Embedder
	store     vectorstore.Store
	logger    *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(
	processor *docproc.DocumentProcessor,
	catalog *repository.CourseRepository,
	embedder Embedder,
	store vectorstore.Store,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		processor: processor,
		catalog:   catalog,
		embedder:  embedder,
		store:     store,
		logger:    logger,
	}
}

// supportedExtensions lists the course document types folder ingestion
// picks up.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".docx": true,
}

func supportedDocument(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// AddCourseDocument parses, catalogs and indexes one raw document.
// It returns the parsed course and the number of chunks indexed.
func (s *IngestService) AddCourseDocument(ctx context.Context, raw string) (*domain.Course, int, error) {
	course, chunks, err := s.processor.Process(raw)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.indexCourse(ctx, course, chunks)
	if err != nil {
		return nil, 0, err
	}
	return course, count, nil
}

// indexCourse catalogs the course, then embeds and indexes its chunks.
// The catalog insert comes first so a duplicate title fails before any
// embedding cost is paid.
func (s *IngestService) indexCourse(ctx context.Context, course *domain.Course, chunks []domain.CourseChunk) (int, error) {
	if err := s.catalog.Add(ctx, course); err != nil {
		return 0, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, c := range chunks {
		records[i] = vectorstore.Record{
			ID:     uuid.New().String(),
			Vector: vectors[i],
			Chunk:  c,
		}
	}
	if err := s.store.Add(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to index chunks: %w", err)
	}

	s.logger.Info("course ingested",
		zap.String("course", course.Title),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// AddCourseFolder ingests every supported document in dir. Documents
// whose course is already cataloged are skipped, as are documents that
// fail to parse or index; ingestion is per-document non-fatal. Returns
// how many courses and chunks were added.
func (s *IngestService) AddCourseFolder(ctx context.Context, dir string, clearExisting bool) (int, int, error) {
	if clearExisting {
		if err := s.catalog.Clear(ctx); err != nil {
			return 0, 0, fmt.Errorf("failed to clear catalog: %w", err)
		}
		if err := s.store.Reset(ctx); err != nil {
			return 0, 0, fmt.Errorf("failed to reset index: %w", err)
		}
		s.logger.Info("cleared existing course data")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read course folder: %w", err)
	}

	var mu sync.Mutex
	var coursesAdded, chunksAdded int

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(folderWorkers)

	for _, entry := range entries {
		if entry.IsDir() || !supportedDocument(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		g.Go(func() error {
			raw, err := os.ReadFile(path)
			if err != nil {
				s.logger.Warn("skipping unreadable document",
					zap.String("file", path),
					zap.Error(err))
				return nil
			}

			course, chunks, err := s.processor.Process(string(raw))
			if err != nil {
				s.logger.Warn("skipping malformed document",
					zap.String("file", path),
					zap.Error(err))
				return nil
			}

			exists, err := s.catalog.Exists(ctx, course.Title)
			if err != nil {
				return err
			}
			if exists {
				s.logger.Debug("course already cataloged",
					zap.String("course", course.Title),
					zap.String("file", path))
				return nil
			}

			count, err := s.indexCourse(ctx, course, chunks)
			if err != nil {
				// Two documents can share a title; the loser of that
				// race is a skip, not a failure.
				if errors.Is(err, domain.ErrDuplicateCourse) {
					s.logger.Debug("course already cataloged",
						zap.String("course", course.Title),
						zap.String("file", path))
					return nil
				}
				s.logger.Warn("skipping document",
					zap.String("file", path),
					zap.Error(err))
				return nil
			}

			mu.Lock()
			coursesAdded++
			chunksAdded += count
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return coursesAdded, chunksAdded, err
	}
	return coursesAdded, chunksAdded, nil
}
