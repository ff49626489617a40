package core

// Category groups metrics by what aspect of a summary they measure.
type Category string

const (
	CategoryWordOverlap  Category = "word-overlap"
	CategorySemantic     Category = "semantic"
	CategoryFactuality   Category = "factuality"
	CategoryCompleteness Category = "completeness"
	CategoryFluency      Category = "fluency"
	CategoryLLMJudge     Category = "llm-judge"
)

// Stage identifies which evaluation pass a metric belongs to.
type Stage string

const (
	// StageIntegrity compares the summary against the source document.
	StageIntegrity Stage = "integrity-check"
	// StageConformance compares the summary against a reference summary.
	StageConformance Stage = "conformance-check"
	// StageJudge scores the summary through a remote LLM judge.
	StageJudge Stage = "judge"
)

// Kind selects the execution strategy for a metric.
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

// MetricDescriptor describes one metric in the catalog. Descriptors are
// immutable and defined once at process start.
type MetricDescriptor struct {
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	Stage          Stage    `json:"stage"`
	Kind           Kind     `json:"kind"`
	NeedsSource    bool     `json:"needs_source"`
	NeedsReference bool     `json:"needs_reference"`
	ScoreMin       float64  `json:"score_min"`
	ScoreMax       float64  `json:"score_max"`
	Description    string   `json:"description,omitempty"`
}

// Status reports the outcome of one metric invocation.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// MetricResult is the uniform result shape produced for every
// (inputs, metric) pair. Immutable after creation.
type MetricResult struct {
	Metric      string             `json:"metric"`
	Status      Status             `json:"status"`
	Score       float64            `json:"score"`
	Scores      map[string]float64 `json:"scores,omitempty"`
	Explanation string             `json:"explanation,omitempty"`
	Err         string             `json:"error,omitempty"`
}

// Scenario is the combination of optional inputs present for a request.
type Scenario string

const (
	ScenarioSourceAndReference Scenario = "source-and-reference"
	ScenarioSourceOnly         Scenario = "source-only"
	ScenarioReferenceOnly      Scenario = "reference-only"
	ScenarioNeither            Scenario = "neither"
)

// EvaluationResponse merges the results of one evaluation request across
// multiple metrics. The scenario reflects the inputs actually present,
// independent of which metrics were requested.
type EvaluationResponse struct {
	Scenario Scenario                `json:"scenario"`
	Results  map[string]MetricResult `json:"results"`
}
