package registry

import "sumeval/pkg/core"

// Built-in metric names.
const (
	ROUGE            = "rouge"
	BLEU             = "bleu"
	METEOR           = "meteor"
	ChrF             = "chrf"
	Levenshtein      = "levenshtein"
	BERTScore        = "bertscore"
	EntityCoverage   = "entity_coverage"
	SemanticCoverage = "semantic_coverage"
	BERTScoreRecall  = "bertscore_recall"
	Perplexity       = "perplexity"
	FactCheckerAPI   = "factchecker_api"
	LLMFaithfulness  = "llm_faithfulness"
	LLMCoherence     = "llm_coherence"
	LLMRelevance     = "llm_relevance"
	LLMFluency       = "llm_fluency"
	LLMDAG           = "llm_dag"
	LLMPrometheus    = "llm_prometheus"
)

// CustomJudge is the column name used for a user-supplied judge template.
const CustomJudge = "custom_judge"

// defaultDescriptors is declaration-ordered: the recommender breaks ties
// within a category by this order.
var defaultDescriptors = []core.MetricDescriptor{
	{
		Name:           ROUGE,
		Category:       core.CategoryWordOverlap,
		Stage:          core.StageConformance,
		Kind:           core.KindLocal,
		NeedsReference: true,
		ScoreMax:       1,
		Description:    "N-gram overlap against the reference (ROUGE-1/2/L F1)",
	},
	{
		Name:           BLEU,
		Category:       core.CategoryWordOverlap,
		Stage:          core.StageConformance,
		Kind:           core.KindLocal,
		NeedsReference: true,
		ScoreMax:       1,
		Description:    "Smoothed BLEU-4 precision against the reference",
	},
	{
		Name:           METEOR,
		Category:       core.CategoryWordOverlap,
		Stage:          core.StageConformance,
		Kind:           core.KindLocal,
		NeedsReference: true,
		ScoreMax:       1,
		Description:    "Unigram F-mean with fragmentation penalty",
	},
	{
		Name:           ChrF,
		Category:       core.CategoryWordOverlap,
		Stage:          core.StageConformance,
		Kind:           core.KindLocal,
		NeedsReference: true,
		ScoreMax:       1,
		Description:    "Character n-gram F-score against the reference",
	},
	{
		Name:           Levenshtein,
		Category:       core.CategoryWordOverlap,
		Stage:          core.StageConformance,
		Kind:           core.KindLocal,
		NeedsReference: true,
		ScoreMax:       1,
		Description:    "Normalized edit similarity against the reference",
	},
	{
		Name:           BERTScore,
		Category:       core.CategorySemantic,
		Stage:          core.StageConformance,
		Kind:           core.KindLocal,
		NeedsReference: true,
		ScoreMax:       1,
		Description:    "Embedding similarity against the reference (P/R/F1)",
	},
	{
		Name:        EntityCoverage,
		Category:    core.CategoryCompleteness,
		Stage:       core.StageIntegrity,
		Kind:        core.KindLocal,
		NeedsSource: true,
		ScoreMax:    1,
		Description: "Fraction of source entities mentioned by the summary",
	},
	{
		Name:        SemanticCoverage,
		Category:    core.CategoryCompleteness,
		Stage:       core.StageIntegrity,
		Kind:        core.KindLocal,
		NeedsSource: true,
		ScoreMax:    1,
		Description: "Fraction of source sentences covered semantically",
	},
	{
		Name:        BERTScoreRecall,
		Category:    core.CategoryCompleteness,
		Stage:       core.StageIntegrity,
		Kind:        core.KindLocal,
		NeedsSource: true,
		ScoreMax:    1,
		Description: "Embedding recall of the source by the summary",
	},
	{
		Name:        Perplexity,
		Category:    core.CategoryFluency,
		Stage:       core.StageIntegrity,
		Kind:        core.KindLocal,
		ScoreMax:    1,
		Description: "Fluency of the summary text alone",
	},
	{
		Name:        FactCheckerAPI,
		Category:    core.CategoryFactuality,
		Stage:       core.StageIntegrity,
		Kind:        core.KindRemote,
		NeedsSource: true,
		ScoreMax:    1,
		Description: "Remote fact-check of summary claims against the source",
	},
	{
		Name:        LLMFaithfulness,
		Category:    core.CategoryLLMJudge,
		Stage:       core.StageJudge,
		Kind:        core.KindRemote,
		NeedsSource: true,
		ScoreMax:    1,
		Description: "Judge: are all summary claims supported by the source?",
	},
	{
		Name:        LLMCoherence,
		Category:    core.CategoryLLMJudge,
		Stage:       core.StageJudge,
		Kind:        core.KindRemote,
		ScoreMax:    1,
		Description: "Judge: does the summary flow logically?",
	},
	{
		Name:        LLMRelevance,
		Category:    core.CategoryLLMJudge,
		Stage:       core.StageJudge,
		Kind:        core.KindRemote,
		NeedsSource: true,
		ScoreMax:    1,
		Description: "Judge: does the summary capture the main points?",
	},
	{
		Name:        LLMFluency,
		Category:    core.CategoryLLMJudge,
		Stage:       core.StageJudge,
		Kind:        core.KindRemote,
		ScoreMax:    1,
		Description: "Judge: is the summary well-written and grammatical?",
	},
	{
		Name:        LLMDAG,
		Category:    core.CategoryLLMJudge,
		Stage:       core.StageJudge,
		Kind:        core.KindRemote,
		NeedsSource: true,
		ScoreMax:    1,
		Description: "Judge: decompose-and-grade over summary claims",
	},
	{
		Name:           LLMPrometheus,
		Category:       core.CategoryLLMJudge,
		Stage:          core.StageJudge,
		Kind:           core.KindRemote,
		NeedsSource:    true,
		NeedsReference: true,
		ScoreMax:       1,
		Description:    "Judge: rubric grading against the reference answer",
	},
}
