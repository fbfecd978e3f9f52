// Package ledger implements the append-only mistake/lesson journal.
//
// Every project has its own ledger; high-severity entries are mirrored
// into a global ledger so lessons cross project boundaries. Entries
// are JSON Lines (one record per line), appended and never updated or
// deleted. Parsing tolerates a partially written trailing line, which
// can occur when a concurrent hook process is killed mid-append.
package ledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/droidpartment/dpt-memory/internal/registry"
)

// LedgerFile is the ledger filename, both per project and global.
const LedgerFile = "mistakes.jsonl"

// Severity levels for mistakes. High-severity entries are mirrored
// into the global ledger.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Entry is a single recorded mistake with its prevention note.
type Entry struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Agent       string `json:"agent"`
	Description string `json:"description"`
	Context     string `json:"context,omitempty"`
	Prevention  string `json:"prevention"`
	Severity    string `json:"severity"`
}

// Ledger records and retrieves mistakes for the projects under one
// memory root.
type Ledger struct {
	memoryRoot string
	reg        *registry.Registry
	retention  int

	mu     sync.Mutex
	lastID int64
}

// New creates a Ledger. retention caps the entries kept per file;
// oldest entries are dropped first when the cap is exceeded.
func New(memoryRoot string, reg *registry.Registry, retention int) *Ledger {
	if retention <= 0 {
		retention = 200
	}
	return &Ledger{memoryRoot: memoryRoot, reg: reg, retention: retention}
}

// Record appends a mistake to the project ledger and, for high
// severity, to the global ledger. Missing fields get defaults; the
// generated ID is time-based and monotonic within the process.
func (l *Ledger) Record(projectPath string, e Entry) (Entry, error) {
	if e.Agent == "" {
		e.Agent = "unknown"
	}
	if e.Description == "" {
		e.Description = "Unknown mistake"
	}
	if e.Prevention == "" {
		e.Prevention = "Be more careful"
	}
	switch e.Severity {
	case SeverityLow, SeverityMedium, SeverityHigh:
	default:
		e.Severity = SeverityMedium
	}
	e.ID = l.nextID()
	e.Timestamp = time.Now().UTC().Format(time.RFC3339)

	rec := l.reg.Resolve(projectPath)
	if err := l.append(filepath.Join(rec.StoragePath, LedgerFile), e); err != nil {
		return e, err
	}

	if e.Severity == SeverityHigh {
		// Cross-project learning: best effort, the project append
		// already succeeded.
		_ = l.append(filepath.Join(l.memoryRoot, LedgerFile), e)
	}

	return e, nil
}

// Recent returns the last limit entries for a project in recorded
// order. A missing or unreadable ledger yields an empty slice.
func (l *Ledger) Recent(projectPath string, limit int) []Entry {
	rec := l.reg.Resolve(projectPath)
	return tail(readEntries(filepath.Join(rec.StoragePath, LedgerFile)), limit)
}

// RecentGlobal returns the last limit entries of the global
// (high-severity) ledger in recorded order.
func (l *Ledger) RecentGlobal(limit int) []Entry {
	return tail(readEntries(filepath.Join(l.memoryRoot, LedgerFile)), limit)
}

// Relevant returns up to limit project entries whose text shares
// tokens with the given free text, best match first. Only tokens
// longer than three characters count, which filters stop words well
// enough for advisory retrieval.
func (l *Ledger) Relevant(projectPath, text string, limit int) []Entry {
	rec := l.reg.Resolve(projectPath)
	entries := readEntries(filepath.Join(rec.StoragePath, LedgerFile))

	tokens := map[string]bool{}
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if len(tok) > 3 {
			tokens[tok] = true
		}
	}

	type scored struct {
		entry Entry
		score int
	}
	var hits []scored
	for _, e := range entries {
		haystack := strings.ToLower(e.Description + " " + e.Context + " " + e.Prevention)
		score := 0
		for tok := range tokens {
			if strings.Contains(haystack, tok) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{entry: e, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]Entry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out
}

// ─── Internals ───────────────────────────────────────────────────────────────

// nextID returns a time-based identifier that is strictly increasing
// within this process even when the clock does not advance.
func (l *Ledger) nextID() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UnixNano()
	if now <= l.lastID {
		now = l.lastID + 1
	}
	l.lastID = now
	return fmt.Sprintf("mistake_%d", now)
}

// append writes one entry as a JSON line, then enforces the retention
// cap by rewriting the file when it has grown past it.
func (l *Ledger) append(path string, e Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ledger: create dir: %w", err)
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("ledger: marshal entry: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("ledger: open: %w", err)
	}
	_, werr := f.Write(append(data, '\n'))
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("ledger: append: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("ledger: close: %w", cerr)
	}

	l.compact(path)
	return nil
}

// compact rewrites the ledger keeping only the newest retention
// entries. Failures are swallowed: the oversized file is still valid and
// the next successful append retries.
func (l *Ledger) compact(path string) {
	entries := readEntries(path)
	if len(entries) <= l.retention {
		return
	}
	entries = entries[len(entries)-l.retention:]

	var sb strings.Builder
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			continue
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, path)
}

// readEntries parses a JSONL ledger, skipping malformed lines instead
// of failing: a torn trailing line from a concurrent writer must not
// take the whole journal down.
func readEntries(path string) []Entry {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func tail(entries []Entry, limit int) []Entry {
	if limit > 0 && len(entries) > limit {
		return entries[len(entries)-limit:]
	}
	return entries
}
