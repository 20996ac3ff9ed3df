// Package storage persists documents, extraction results and graph
// snapshots as JSON files under a base directory.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"scireasoner/pkg/common"
	"scireasoner/pkg/graph"
)

const DefaultBaseDir = "data/storage"

var subdirs = []string{"documents", "sentences", "entities", "claims", "hypotheses", "graphs"}

// Store is a JSON file store. One file per document per record kind, and
// timestamped files for graph snapshots.
type Store struct {
	baseDir string
}

// NewStore creates the directory layout under baseDir. An empty baseDir
// selects the default.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	for _, sub := range subdirs {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &Store{baseDir: baseDir}, nil
}

// SaveDocument writes the document record.
func (s *Store) SaveDocument(doc *common.Document) error {
	return s.writeJSON("documents", doc.DocID, doc)
}

// LoadDocument reads a document record. A missing document yields nil
// without an error.
func (s *Store) LoadDocument(docID string) (*common.Document, error) {
	doc := &common.Document{}
	found, err := s.readJSON("documents", docID, doc)
	if err != nil || !found {
		return nil, err
	}
	return doc, nil
}

// ListDocuments reads every stored document record.
func (s *Store) ListDocuments() ([]common.Document, error) {
	paths, err := filepath.Glob(filepath.Join(s.baseDir, "documents", "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	documents := make([]common.Document, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var doc common.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

// SaveSentences writes a document's sentence records.
func (s *Store) SaveSentences(docID string, sentences []common.Sentence) error {
	return s.writeJSON("sentences", docID, sentences)
}

// LoadSentences reads a document's sentence records. Missing yields nil.
func (s *Store) LoadSentences(docID string) ([]common.Sentence, error) {
	var sentences []common.Sentence
	found, err := s.readJSON("sentences", docID, &sentences)
	if err != nil || !found {
		return nil, err
	}
	return sentences, nil
}

// SaveEntities writes a document's entity records.
func (s *Store) SaveEntities(docID string, entities []common.Entity) error {
	return s.writeJSON("entities", docID, entities)
}

// LoadEntities reads a document's entity records. Missing yields nil.
func (s *Store) LoadEntities(docID string) ([]common.Entity, error) {
	var entities []common.Entity
	found, err := s.readJSON("entities", docID, &entities)
	if err != nil || !found {
		return nil, err
	}
	return entities, nil
}

// SaveClaims writes a document's claim records.
func (s *Store) SaveClaims(docID string, claims []common.Claim) error {
	return s.writeJSON("claims", docID, claims)
}

// LoadClaims reads a document's claim records. Missing yields nil.
func (s *Store) LoadClaims(docID string) ([]common.Claim, error) {
	var claims []common.Claim
	found, err := s.readJSON("claims", docID, &claims)
	if err != nil || !found {
		return nil, err
	}
	return claims, nil
}

// SaveHypotheses writes a document's hypothesis records.
func (s *Store) SaveHypotheses(docID string, hypotheses []common.Hypothesis) error {
	return s.writeJSON("hypotheses", docID, hypotheses)
}

// LoadHypotheses reads a document's hypothesis records. Missing yields nil.
func (s *Store) LoadHypotheses(docID string) ([]common.Hypothesis, error) {
	var hypotheses []common.Hypothesis
	found, err := s.readJSON("hypotheses", docID, &hypotheses)
	if err != nil || !found {
		return nil, err
	}
	return hypotheses, nil
}

// SaveGraph writes a timestamped graph snapshot and returns its path.
func (s *Store) SaveGraph(name string, snap *graph.Snapshot) (string, error) {
	filename := fmt.Sprintf("%s_%s", name, time.Now().UTC().Format("20060102T150405"))
	if err := s.writeJSON("graphs", filename, snap); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, "graphs", filename+".json"), nil
}

// LoadLatestGraph reads the most recent snapshot saved under name, by
// filename order. Missing yields nil without an error.
func (s *Store) LoadLatestGraph(name string) (*graph.Snapshot, error) {
	paths, err := filepath.Glob(filepath.Join(s.baseDir, "graphs", name+"_*.json"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}
	sort.Strings(paths)

	raw, err := os.ReadFile(paths[len(paths)-1])
	if err != nil {
		return nil, err
	}
	snap := &graph.Snapshot{}
	if err := json.Unmarshal(raw, snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", paths[len(paths)-1], err)
	}
	return snap, nil
}

func (s *Store) writeJSON(sub string, name string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", sub, name, err)
	}
	return os.WriteFile(filepath.Join(s.baseDir, sub, name+".json"), raw, 0o644)
}

func (s *Store) readJSON(sub string, name string, into any) (bool, error) {
	raw, err := os.ReadFile(filepath.Join(s.baseDir, sub, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return false, fmt.Errorf("failed to decode %s/%s: %w", sub, name, err)
	}
	return true, nil
}
