package recognize

// Profile is one agent capability: trigger keywords, a base importance
// weight, and the minimum confidence needed for the agent to appear in
// recognition results.
type Profile struct {
	Agent     string   `json:"agent"`
	Keywords  []string `json:"keywords"`
	Weight    float64  `json:"weight"`
	Threshold float64  `json:"threshold"`
}

// Catalogue returns the built-in capability profiles in their fixed
// order. The order matters: it is the stable tiebreak when two agents
// score identically, so entries must not be reordered casually.
func Catalogue() []Profile {
	return []Profile{
		{
			Agent:     "dpt-dev",
			Keywords:  []string{"implement", "code", "function", "refactor", "bug", "fix", "feature", "class", "module"},
			Weight:    0.9,
			Threshold: 0.3,
		},
		{
			Agent:     "dpt-qa",
			Keywords:  []string{"test", "testing", "coverage", "assert", "regression", "validate", "quality"},
			Weight:    0.85,
			Threshold: 0.3,
		},
		{
			Agent:     "dpt-sec",
			Keywords:  []string{"security", "vulnerability", "auth", "authentication", "encryption", "injection", "secret"},
			Weight:    0.9,
			Threshold: 0.3,
		},
		{
			Agent:     "dpt-perf",
			Keywords:  []string{"performance", "slow", "optimize", "latency", "profiling", "benchmark", "throughput"},
			Weight:    0.8,
			Threshold: 0.3,
		},
		{
			Agent:     "dpt-arch",
			Keywords:  []string{"architecture", "design", "structure", "pattern", "scalability", "microservices", "boundary"},
			Weight:    0.8,
			Threshold: 0.3,
		},
		{
			Agent:     "dpt-ops",
			Keywords:  []string{"deploy", "deployment", "docker", "kubernetes", "pipeline", "infrastructure", "monitoring"},
			Weight:    0.85,
			Threshold: 0.3,
		},
		{
			Agent:     "dpt-docs",
			Keywords:  []string{"documentation", "readme", "docs", "comment", "guide", "tutorial"},
			Weight:    0.75,
			Threshold: 0.3,
		},
		{
			Agent:     "dpt-data",
			Keywords:  []string{"database", "sql", "schema", "migration", "query", "warehouse", "etl"},
			Weight:    0.85,
			Threshold: 0.3,
		},
		{
			Agent:     "dpt-api",
			Keywords:  []string{"api", "endpoint", "rest", "graphql", "request", "response", "webhook"},
			Weight:    0.85,
			Threshold: 0.3,
		},
		{
			Agent:     "dpt-ux",
			Keywords:  []string{"ui", "ux", "layout", "accessibility", "responsive", "component", "styling"},
			Weight:    0.75,
			Threshold: 0.3,
		},
		{
			Agent:     "dpt-lead",
			Keywords:  []string{"plan", "coordinate", "review", "prioritize", "roadmap", "estimate"},
			Weight:    0.7,
			Threshold: 0.35,
		},
	}
}
