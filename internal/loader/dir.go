package loader

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/forensica/triage/internal/extract"
	"github.com/forensica/triage/internal/models"
)

// imageExtensions are treated as image records. Their text stays empty; OCR
// is an external collaborator that fills content before analysis.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// DirLoader builds records from a directory tree of real files, extracting
// text content where a supported format is found.
type DirLoader struct {
	extractor *extract.Extractor
	logger    *zap.Logger
}

// NewDirLoader returns a DirLoader. A nil logger disables logging.
func NewDirLoader(logger *zap.Logger) *DirLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirLoader{extractor: extract.NewExtractor(), logger: logger}
}

// Load walks dir and returns one record per regular file, in walk order.
// Image files become type "image" with empty content; all other files become
// type "file" with extracted text. Files whose text cannot be extracted keep
// empty content rather than failing the whole scan.
func (l *DirLoader) Load(dir string) ([]models.Record, error) {
	var records []models.Record
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if imageExtensions[ext] {
			records = append(records, models.Record{Path: path, Type: "image"})
			return nil
		}
		text, extractErr := l.extractor.Extract(path)
		if extractErr != nil {
			l.logger.Warn("text extraction failed, keeping empty content",
				zap.String("path", path), zap.Error(extractErr))
			text = ""
		}
		records = append(records, models.Record{
			Path:    path,
			Type:    "file",
			Content: models.Content{Text: text},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan directory %s: %w", dir, err)
	}
	return records, nil
}
