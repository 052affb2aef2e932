package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Provenance records where ingested text came from. Two reads of an unchanged
// catalog page share a Digest.
type Provenance struct {
	Source     string    `json:"source"`
	Format     string    `json:"format,omitempty"`
	University string    `json:"university,omitempty"`
	FetchMode  string    `json:"fetch_mode,omitempty"`
	ReadAt     time.Time `json:"read_at"`
	Digest     string    `json:"digest"` // sha256:<hex> of the cleaned text
	TextChars  int       `json:"text_chars"`
}

func newProvenance(source, format, text string) *Provenance {
	return &Provenance{
		Source:    source,
		Format:    format,
		ReadAt:    time.Now().UTC(),
		Digest:    digest(text),
		TextChars: len([]rune(text)),
	}
}

func digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// SameContent reports whether both reads produced identical cleaned text.
func (p *Provenance) SameContent(other *Provenance) bool {
	return p != nil && other != nil && p.Digest == other.Digest
}
