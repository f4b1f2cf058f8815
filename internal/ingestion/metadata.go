package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AndrewMichael2020/literary-structure-generator/internal/textutil"
)

// Metadata contains metadata about an ingested exemplar story
type Metadata struct {
	URL            string              `json:"url,omitempty"`
	Timestamp      string              `json:"timestamp"`           // RFC3339 format
	Hash           string              `json:"hash"`                // SHA256 hex digest
	Platform       string              `json:"platform,omitempty"`  // Detected hosting platform
	Title          string              `json:"title,omitempty"`     // Detected story title
	WordCount      int                 `json:"word_count"`          // Words in the cleaned text
	ParagraphCount int                 `json:"paragraph_count"`     // Paragraphs in the cleaned text
	Structure      *ExtractedStructure `json:"structure,omitempty"` // LLM structural outline, if extracted
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:            url,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Hash:           computeHash(content),
		WordCount:      textutil.CountWords(content),
		ParagraphCount: len(textutil.SplitParagraphs(content)),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
