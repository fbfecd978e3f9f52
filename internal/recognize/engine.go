// Package recognize scores free-text task descriptions against a
// fixed catalogue of agent capability profiles.
//
// The scorer is intentionally a simple, explainable linear rule, not
// a trained model. Determinism and auditability matter more than
// recall here: the same text and history state must always produce the
// same confidence values, because callers render them directly as
// confidence bars. A bounded feedback loop adjusts per-agent weights
// over time.
package recognize

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// wholeTokenBonus is the extra credit a keyword earns when it appears
// as a standalone whitespace token rather than only as a substring.
const wholeTokenBonus = 0.5

// Match is one recognized agent with its confidence in [0, 1].
type Match struct {
	Agent string  `json:"agent"`
	Score float64 `json:"score"`
}

// Engine scores text against the profile catalogue and carries the
// learning state.
type Engine struct {
	profiles     []Profile
	learningRate float64
	hist         *History
}

// New creates an Engine over the built-in catalogue plus any extra
// profiles, with history persisted under memoryRoot.
func New(memoryRoot string, extra []Profile, learningRate float64, retention int) *Engine {
	if learningRate <= 0 {
		learningRate = 0.05
	}
	return &Engine{
		profiles:     append(Catalogue(), extra...),
		learningRate: learningRate,
		hist:         OpenHistory(memoryRoot, retention),
	}
}

// Profiles returns the catalogue in its fixed order.
func (e *Engine) Profiles() []Profile {
	return e.profiles
}

// Score computes the confidence for one (text, profile) pair.
//
// Each keyword that appears case-insensitively in the text counts one
// point, plus half a point when it also appears as a whole token. The
// raw score is points over keyword count, multiplied by the agent's
// effective weight (learned if present, else base), clamped to 1 and
// rounded to three decimals.
func (e *Engine) Score(text string, p Profile) float64 {
	if len(p.Keywords) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	tokens := map[string]bool{}
	for _, tok := range strings.Fields(lower) {
		tokens[tok] = true
	}

	var points float64
	for _, kw := range p.Keywords {
		kw = strings.ToLower(kw)
		if !strings.Contains(lower, kw) {
			continue
		}
		points++
		if tokens[kw] {
			points += wholeTokenBonus
		}
	}

	score := points / float64(len(p.Keywords)) * e.effectiveWeight(p)
	if score > 1 {
		score = 1
	}
	return math.Round(score*1000) / 1000
}

// RecognizeAll scores every profile against the text and returns the
// agents whose score meets their own threshold, best first. Ties keep
// catalogue order.
func (e *Engine) RecognizeAll(text string) []Match {
	var matches []Match
	for _, p := range e.profiles {
		s := e.Score(text, p)
		if s >= p.Threshold {
			matches = append(matches, Match{Agent: p.Agent, Score: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches
}

// RecordEvent appends a recognition event to the history. Only a hash
// of the text is stored. Persist failures are swallowed; history is
// advisory state.
func (e *Engine) RecordEvent(text string, matches []Match, used []string) {
	e.hist.Append(text, matches, used)
}

// ApplyFeedback nudges an agent's learned weight by the learning rate:
// up when the agent was helpful, down when it was not. The learned
// weight is seeded from the profile's base weight on first feedback
// and always stays within [0.1, 1.0].
func (e *Engine) ApplyFeedback(agent string, helpful bool) (float64, error) {
	p, ok := e.profile(agent)
	if !ok {
		return 0, fmt.Errorf("recognize: unknown agent %q", agent)
	}

	w, haveLearned := e.hist.Weight(agent)
	if !haveLearned {
		w = p.Weight
	}
	if helpful {
		w += e.learningRate
	} else {
		w -= e.learningRate
	}
	w = clampWeight(w)

	e.hist.SetWeight(agent, w)
	return w, nil
}

// EffectiveWeight exposes the weight currently used for an agent, for
// display in transparency output.
func (e *Engine) EffectiveWeight(agent string) (float64, bool) {
	p, ok := e.profile(agent)
	if !ok {
		return 0, false
	}
	return e.effectiveWeight(p), true
}

func (e *Engine) effectiveWeight(p Profile) float64 {
	if w, ok := e.hist.Weight(p.Agent); ok {
		return w
	}
	return p.Weight
}

func (e *Engine) profile(agent string) (Profile, bool) {
	for _, p := range e.profiles {
		if p.Agent == agent {
			return p, true
		}
	}
	return Profile{}, false
}

func clampWeight(w float64) float64 {
	if w < 0.1 {
		return 0.1
	}
	if w > 1.0 {
		return 1.0
	}
	return math.Round(w*1000) / 1000
}
