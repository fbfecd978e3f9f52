package recognize

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// HistoryFile is the recognition history document under the memory root.
const HistoryFile = "recognition.json"

// Event is one past recognition: a hash of the scored text (never the
// text itself, for storage economy), the scores produced, and which
// agents were actually used afterwards.
type Event struct {
	TextHash  string             `json:"text_hash"`
	Scores    map[string]float64 `json:"scores"`
	Used      []string           `json:"agents_used,omitempty"`
	Timestamp string             `json:"timestamp"`
}

// historyDoc is the persisted shape: recent events plus the learned
// per-agent weight overrides.
type historyDoc struct {
	Events    []Event            `json:"events"`
	Weights   map[string]float64 `json:"adjusted_weights"`
	UpdatedAt string             `json:"updated_at"`
}

// History is the global recognition history for one memory root.
type History struct {
	path      string
	retention int
	doc       historyDoc
}

// OpenHistory loads the history document, tolerating a missing or
// corrupt file by starting empty.
func OpenHistory(memoryRoot string, retention int) *History {
	if retention <= 0 {
		retention = 100
	}
	h := &History{
		path:      filepath.Join(memoryRoot, HistoryFile),
		retention: retention,
		doc:       historyDoc{Weights: map[string]float64{}},
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		return h
	}
	var doc historyDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return h
	}
	if doc.Weights == nil {
		doc.Weights = map[string]float64{}
	}
	h.doc = doc
	return h
}

// Append records one recognition event, keeping only the newest
// retention events, and persists best-effort.
func (h *History) Append(text string, matches []Match, used []string) {
	scores := make(map[string]float64, len(matches))
	for _, m := range matches {
		scores[m.Agent] = m.Score
	}
	sum := md5.Sum([]byte(text))

	h.doc.Events = append(h.doc.Events, Event{
		TextHash:  hex.EncodeToString(sum[:]),
		Scores:    scores,
		Used:      used,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if len(h.doc.Events) > h.retention {
		h.doc.Events = h.doc.Events[len(h.doc.Events)-h.retention:]
	}

	_ = h.save()
}

// Weight returns the learned weight for an agent, if any feedback has
// been applied to it.
func (h *History) Weight(agent string) (float64, bool) {
	w, ok := h.doc.Weights[agent]
	return w, ok
}

// SetWeight stores a learned weight and persists best-effort.
func (h *History) SetWeight(agent string, w float64) {
	h.doc.Weights[agent] = w
	_ = h.save()
}

// Events returns the stored events, oldest first.
func (h *History) Events() []Event {
	return h.doc.Events
}

// save writes the document with write-new-then-rename.
func (h *History) save() error {
	h.doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(h.doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}

	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, h.path)
}
