package types

// Interpretation is one keyword match drawn from the lexicon. Order within a
// response is relevance order.
type Interpretation struct {
	Keyword        string `json:"keyword"`
	Interpretation string `json:"interpretation"`
}

// AnalysisResponse is the full result of one dream analysis. Immutable once
// constructed; safe to share between the cache and concurrent readers.
type AnalysisResponse struct {
	DreamSummary             string           `json:"dream_summary"`
	Interpretations          []Interpretation `json:"interpretations"`
	PsychologicalPerspective string           `json:"psychological_perspective"`
	ModelUsed                string           `json:"model_used"`
	ProcessingTime           string           `json:"processing_time"`
}

type BackendStatus struct {
	Available bool   `json:"available"`
	Status    string `json:"status"`
}

type ModelStatus struct {
	Models       map[string]BackendStatus `json:"models"`
	DefaultModel string                   `json:"default_model"`
	CacheEntries int                      `json:"cache_entries"`
}
