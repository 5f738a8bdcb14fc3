// Package keyword provides a Bleve full-text index over evidence records.
package keyword

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/forensica/triage/internal/models"
)

// Result is a single search hit.
type Result struct {
	Path  string  `json:"path"`
	Batch string  `json:"batch_id"`
	Score float64 `json:"score"`
}

// recordDoc is the indexed representation of a record.
type recordDoc struct {
	Batch   string `json:"batch"`
	Path    string `json:"path"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// BleveIndex indexes evidence records for keyword search.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path.
// If the path already exists the index is opened and reused, so re-ingesting
// a batch does not require a full rebuild. If the mapping changes in code,
// remove the index directory to force a rebuild.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so queries like
	// "rifle" only match the exact word, not stemmed variants.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("path", textFieldMapping)
	docMapping.AddFieldMappingsAt("tags", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("batch", keywordFieldMapping)
	im.AddDocumentMapping("record", docMapping)
	im.DefaultType = "record"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// DocID derives a stable document ID from a batch ID and record path.
func DocID(batchID, path string) string {
	sum := sha256.Sum256([]byte(batchID + "\x00" + path))
	return hex.EncodeToString(sum[:16])
}

// IndexBatch indexes every record of a batch.
func (b *BleveIndex) IndexBatch(ctx context.Context, batch *models.Batch) error {
	for i := range batch.Records {
		rec := &batch.Records[i]
		doc := recordDoc{
			Batch:   batch.ID,
			Path:    rec.Path,
			Content: rec.Text(),
			Tags:    strings.Join(rec.Tags, " "),
		}
		if err := b.index.Index(DocID(batch.ID, rec.Path), doc); err != nil {
			return fmt.Errorf("failed to index record %q: %w", rec.Path, err)
		}
	}
	return nil
}

// Search runs a match query and returns up to limit results. When batchID is
// non-empty, results are restricted to that batch.
func (b *BleveIndex) Search(ctx context.Context, batchID, query string, limit int) ([]*Result, error) {
	mq := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(mq)
	if batchID != "" {
		tq := bleve.NewTermQuery(batchID)
		tq.SetField("batch")
		req = bleve.NewSearchRequest(bleve.NewConjunctionQuery(tq, mq))
	}
	req.Size = limit
	req.Fields = []string{"path", "batch"}
	results, err := b.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*Result, len(results.Hits))
	for i, hit := range results.Hits {
		r := &Result{Score: hit.Score}
		if p, ok := hit.Fields["path"].(string); ok {
			r.Path = p
		}
		if bid, ok := hit.Fields["batch"].(string); ok {
			r.Batch = bid
		}
		out[i] = r
	}
	return out, nil
}

// DeleteBatch removes all records of a batch from the index.
func (b *BleveIndex) DeleteBatch(ctx context.Context, batchID string) error {
	tq := bleve.NewTermQuery(batchID)
	tq.SetField("batch")
	req := bleve.NewSearchRequest(tq)
	req.Size = 10000
	results, err := b.index.Search(req)
	if err != nil {
		return fmt.Errorf("failed to list batch documents: %w", err)
	}
	for _, hit := range results.Hits {
		if err := b.index.Delete(hit.ID); err != nil {
			return fmt.Errorf("failed to delete document %s: %w", hit.ID, err)
		}
	}
	return nil
}

// DocCount returns the total number of indexed records.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
