package commands

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"sumeval/pkg/core"
	"sumeval/pkg/eval"
)

func newServeCommand() *cobra.Command {
	var (
		provider     string
		modelName    string
		mockResponse string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluation engine as an MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, err := eval.New(ctx, appConfig.evalConfig(provider, modelName, mockResponse))
			if err != nil {
				return err
			}
			defer client.Close()

			server := mcp.NewServer(&mcp.Implementation{Name: "sumeval", Version: "v1.0.0"}, nil)
			tools := mcpTools{client: client}

			mcp.AddTool(server, &mcp.Tool{
				Name:        "list_metrics",
				Description: "List the summary evaluation metric catalog",
			}, tools.listMetrics)
			mcp.AddTool(server, &mcp.Tool{
				Name:        "get_info",
				Description: "Describe one metric by name",
			}, tools.getInfo)
			mcp.AddTool(server, &mcp.Tool{
				Name:        "evaluate_summary",
				Description: "Score a summary with named metrics, or with the recommended set when none are given",
			}, tools.evaluateSummary)
			mcp.AddTool(server, &mcp.Tool{
				Name:        "custom_judge",
				Description: "Score a summary with a caller-supplied judge prompt template",
			}, tools.customJudge)

			return server.Run(ctx, &mcp.StdioTransport{})
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "remote provider (openai, anthropic, gemini, mock)")
	cmd.Flags().StringVar(&modelName, "model", "", "remote model name")
	cmd.Flags().StringVar(&mockResponse, "mock-response", "", "fixed mock judge response")

	return cmd
}

type mcpTools struct {
	client *eval.Client
}

type listMetricsInput struct {
	Stage    string `json:"stage,omitempty" jsonschema:"optional stage filter: integrity-check, conformance-check, or judge"`
	Category string `json:"category,omitempty" jsonschema:"optional category filter"`
}

type metricInfo struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Stage          string `json:"stage"`
	Kind           string `json:"kind"`
	NeedsSource    bool   `json:"needs_source"`
	NeedsReference bool   `json:"needs_reference"`
	Description    string `json:"description"`
}

type listMetricsOutput struct {
	Metrics []metricInfo `json:"metrics"`
}

func (t mcpTools) listMetrics(ctx context.Context, req *mcp.CallToolRequest, input listMetricsInput) (*mcp.CallToolResult, listMetricsOutput, error) {
	out := listMetricsOutput{}
	for _, d := range t.client.ListMetrics() {
		if input.Stage != "" && string(d.Stage) != input.Stage {
			continue
		}
		if input.Category != "" && string(d.Category) != input.Category {
			continue
		}
		out.Metrics = append(out.Metrics, metricInfo{
			Name:           d.Name,
			Category:       string(d.Category),
			Stage:          string(d.Stage),
			Kind:           string(d.Kind),
			NeedsSource:    d.NeedsSource,
			NeedsReference: d.NeedsReference,
			Description:    d.Description,
		})
	}
	return nil, out, nil
}

type getInfoInput struct {
	MetricName string `json:"metric_name" jsonschema:"the metric to describe"`
}

func (t mcpTools) getInfo(ctx context.Context, req *mcp.CallToolRequest, input getInfoInput) (*mcp.CallToolResult, metricInfo, error) {
	d, err := t.client.MetricInfo(input.MetricName)
	if err != nil {
		return nil, metricInfo{}, err
	}
	return nil, metricInfo{
		Name:           d.Name,
		Category:       string(d.Category),
		Stage:          string(d.Stage),
		Kind:           string(d.Kind),
		NeedsSource:    d.NeedsSource,
		NeedsReference: d.NeedsReference,
		Description:    d.Description,
	}, nil
}

type evaluateInput struct {
	Summary   string   `json:"summary" jsonschema:"the machine-generated summary to score"`
	Source    string   `json:"source,omitempty" jsonschema:"the document the summary was generated from"`
	Reference string   `json:"reference,omitempty" jsonschema:"a human-written reference summary"`
	Metrics   []string `json:"metrics,omitempty" jsonschema:"metric names to run; empty means the recommended set"`
	Quick     bool     `json:"quick,omitempty" jsonschema:"recommend one metric per category instead of the full set"`
}

type evaluateOutput struct {
	Scenario string                  `json:"scenario"`
	Results  map[string]metricResult `json:"results"`
}

type metricResult struct {
	Status      string             `json:"status"`
	Score       float64            `json:"score"`
	Scores      map[string]float64 `json:"scores,omitempty"`
	Explanation string             `json:"explanation,omitempty"`
	Error       string             `json:"error,omitempty"`
}

func (t mcpTools) evaluateSummary(ctx context.Context, req *mcp.CallToolRequest, input evaluateInput) (*mcp.CallToolResult, evaluateOutput, error) {
	names := input.Metrics
	if len(names) == 0 {
		in := core.EvaluationInputs{Summary: input.Summary, Source: input.Source, Reference: input.Reference}
		names = t.client.Recommended(in.HasSource(), in.HasReference(), input.Quick)
	}

	response, err := t.client.RunMetrics(ctx, names, input.Summary, input.Source, input.Reference)
	if err != nil && len(response.Results) == 0 {
		return nil, evaluateOutput{}, err
	}

	out := evaluateOutput{
		Scenario: string(response.Scenario),
		Results:  make(map[string]metricResult, len(response.Results)),
	}
	for name, result := range response.Results {
		out.Results[name] = toMetricResult(result)
	}
	return nil, out, nil
}

type customJudgeInput struct {
	Template  string `json:"template" jsonschema:"judge prompt with {PROMPT}, {PREDICTED_TEXT}, {REFERENCE_TEXT} placeholders"`
	Summary   string `json:"summary" jsonschema:"the machine-generated summary to score"`
	Source    string `json:"source,omitempty" jsonschema:"the document the summary was generated from"`
	Reference string `json:"reference,omitempty" jsonschema:"a human-written reference summary"`
}

func (t mcpTools) customJudge(ctx context.Context, req *mcp.CallToolRequest, input customJudgeInput) (*mcp.CallToolResult, metricResult, error) {
	if input.Template == "" {
		return nil, metricResult{}, fmt.Errorf("template is required")
	}
	result, err := t.client.CustomJudge(ctx, input.Template, input.Summary, input.Source, input.Reference)
	if err != nil && result.Metric == "" {
		return nil, metricResult{}, err
	}
	return nil, toMetricResult(result), nil
}

func toMetricResult(result core.MetricResult) metricResult {
	out := metricResult{
		Status:      string(result.Status),
		Score:       result.Score,
		Scores:      result.Scores,
		Explanation: result.Explanation,
	}
	if result.Err != "" {
		out.Error = result.Err
	}
	return out
}
