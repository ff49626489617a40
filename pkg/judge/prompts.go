package judge

import "sumeval/pkg/registry"

const responseFormat = `**Response Format**:
Score: [1-10]
Explanation: [Your reasoning]`

const faithfulnessPrompt = `You are an expert evaluator for text summarization. Your task is to evaluate the FAITHFULNESS of a summary.

**Faithfulness Definition**: A summary is faithful if all claims and facts in it are directly supported by the source document. Faithful summaries contain no hallucinations, contradictions, or unsupported claims.

**Evaluation Criteria**:
- Score 1-2: Multiple unsupported claims or contradictions
- Score 3-4: Some claims not fully supported by source
- Score 5-6: Mostly faithful with minor issues
- Score 7-8: Highly faithful, all major claims supported
- Score 9-10: Perfect faithfulness, every claim verifiable

**Source Document**:
{PROMPT}

**Summary to Evaluate**:
{PREDICTED_TEXT}

**Instructions**:
1. Check each claim in the summary against the source
2. Identify any unsupported claims or contradictions
3. Rate faithfulness from 1-10
4. Provide a brief explanation (1-2 sentences)

` + responseFormat

const coherencePrompt = `You are an expert evaluator for text summarization. Your task is to evaluate the COHERENCE of a summary.

**Coherence Definition**: A coherent summary flows logically, with clear connections between sentences and ideas. It is well-structured and easy to follow.

**Evaluation Criteria**:
- Score 1-2: Disjointed, confusing structure
- Score 3-4: Some logical flow issues
- Score 5-6: Adequate flow, minor gaps
- Score 7-8: Good logical structure
- Score 9-10: Excellent flow, perfectly structured

**Summary to Evaluate**:
{PREDICTED_TEXT}

**Instructions**:
1. Assess the logical flow between sentences
2. Check for clear topic progression
3. Rate coherence from 1-10
4. Provide a brief explanation (1-2 sentences)

` + responseFormat

const relevancePrompt = `You are an expert evaluator for text summarization. Your task is to evaluate the RELEVANCE of a summary.

**Relevance Definition**: A relevant summary captures the most important information from the source document without including trivial or off-topic details.

**Evaluation Criteria**:
- Score 1-2: Misses main points, includes irrelevant info
- Score 3-4: Captures some key points, has extraneous content
- Score 5-6: Covers main points adequately
- Score 7-8: Captures all important information
- Score 9-10: Perfect selection of key information

**Source Document**:
{PROMPT}

**Summary to Evaluate**:
{PREDICTED_TEXT}

**Instructions**:
1. Identify the main points in the source
2. Check if the summary captures them
3. Rate relevance from 1-10
4. Provide a brief explanation (1-2 sentences)

` + responseFormat

const fluencyPrompt = `You are an expert evaluator for text summarization. Your task is to evaluate the FLUENCY of a summary.

**Fluency Definition**: A fluent summary is grammatically correct, uses natural language, and is easy to read without awkward phrasing.

**Evaluation Criteria**:
- Score 1-2: Multiple grammar errors, unnatural phrasing
- Score 3-4: Several fluency issues
- Score 5-6: Generally fluent with minor issues
- Score 7-8: Highly fluent, natural language
- Score 9-10: Perfect fluency, publication-quality

**Summary to Evaluate**:
{PREDICTED_TEXT}

**Instructions**:
1. Check for grammatical correctness
2. Assess naturalness of language
3. Rate fluency from 1-10
4. Provide a brief explanation (1-2 sentences)

` + responseFormat

const dagPrompt = `You are an expert evaluator for text summarization using decompose-and-grade.

**Task**: Break the summary into individual factual claims, verify each claim against the source document, then grade the summary by the fraction of verified claims.

**Source Document**:
{PROMPT}

**Summary to Evaluate**:
{PREDICTED_TEXT}

**Instructions**:
1. List each atomic claim made by the summary
2. Mark each claim as supported or unsupported by the source
3. Rate the summary from 1-10 based on the fraction of supported claims
4. Provide a brief explanation (1-2 sentences)

` + responseFormat

const prometheusPrompt = `You are a fair judge assistant assessing a summary against a reference answer and a scoring rubric.

**Rubric**: Judge how well the summary matches the coverage, accuracy, and emphasis of the reference answer, using the source document as ground truth.
- Score 1-2: Contradicts or barely overlaps the reference
- Score 3-4: Misses most of the reference content
- Score 5-6: Covers about half of the reference content accurately
- Score 7-8: Covers nearly all reference content with minor deviations
- Score 9-10: Equivalent to the reference in coverage and accuracy

**Source Document**:
{PROMPT}

**Reference Answer**:
{REFERENCE_TEXT}

**Summary to Evaluate**:
{PREDICTED_TEXT}

**Instructions**:
1. Compare the summary against the reference answer point by point
2. Rate the summary from 1-10 per the rubric
3. Provide a brief explanation (1-2 sentences)

` + responseFormat

const factCheckerPrompt = `You are a fact-checking service. Verify the factual claims of a summary against its source document.

**Source Document**:
{PROMPT}

**Summary to Check**:
{PREDICTED_TEXT}

**Instructions**:
1. Extract every verifiable claim from the summary
2. Check each claim against the source document only
3. Rate overall factual accuracy from 1-10
4. Provide a brief explanation (1-2 sentences)

` + responseFormat

// builtinPrompts maps remote metric names to their judge templates.
var builtinPrompts = map[string]string{
	registry.LLMFaithfulness: faithfulnessPrompt,
	registry.LLMCoherence:    coherencePrompt,
	registry.LLMRelevance:    relevancePrompt,
	registry.LLMFluency:      fluencyPrompt,
	registry.LLMDAG:          dagPrompt,
	registry.LLMPrometheus:   prometheusPrompt,
	registry.FactCheckerAPI:  factCheckerPrompt,
}

// BuiltinPrompt returns the judge template for a built-in remote metric.
func BuiltinPrompt(metric string) (string, bool) {
	p, ok := builtinPrompts[metric]
	return p, ok
}
