package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sumeval/pkg/core"
	"sumeval/pkg/eval"
	"sumeval/pkg/registry"
	"sumeval/pkg/reporter"
)

func newRunCommand() *cobra.Command {
	var (
		metricNames   []string
		summary       string
		summaryFile   string
		source        string
		sourceFile    string
		reference     string
		referenceFile string
		judgeTemplate string
		provider      string
		modelName     string
		mockResponse  string
		format        string
		outputPath    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate a single summary",
		Long:  "Evaluate one summary with explicit metrics, or with the recommended set when --metric is omitted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			summaryText, err := resolveText(summary, summaryFile)
			if err != nil {
				return err
			}
			if summaryText == "" {
				return errors.New("--summary or --summary-file is required")
			}
			sourceText, err := resolveText(source, sourceFile)
			if err != nil {
				return err
			}
			referenceText, err := resolveText(reference, referenceFile)
			if err != nil {
				return err
			}

			ctx := context.Background()
			client, err := eval.New(ctx, appConfig.evalConfig(provider, modelName, mockResponse))
			if err != nil {
				return err
			}
			defer client.Close()

			template := ""
			if judgeTemplate != "" {
				raw, err := os.ReadFile(judgeTemplate)
				if err != nil {
					return err
				}
				template = string(raw)
			}

			names := metricNames
			if len(names) == 0 {
				in := core.EvaluationInputs{Summary: summaryText, Source: sourceText, Reference: referenceText}
				names = client.Recommended(in.HasSource(), in.HasReference(), false)
			}

			response, runErr := client.RunMetrics(ctx, names, summaryText, sourceText, referenceText)
			if runErr != nil && len(response.Results) == 0 {
				return runErr
			}

			if template != "" {
				result, judgeErr := client.CustomJudge(ctx, template, summaryText, sourceText, referenceText)
				if judgeErr != nil && runErr == nil {
					runErr = judgeErr
				}
				if result.Metric != "" {
					response.Results[result.Metric] = result
					names = append(names, registry.CustomJudge)
				}
			}

			writer, closeWriter, err := outputWriter(outputPath)
			if err != nil {
				return err
			}
			defer closeWriter()

			row := core.EvaluationInputs{ID: "1", Summary: summaryText, Source: sourceText, Reference: referenceText}
			report := reporter.New(names, client.JudgeColumns(names, template != ""), []core.EvaluationInputs{row}, []core.EvaluationResponse{response})
			rep, err := buildReporter(resolveFormat(format), writer)
			if err != nil {
				return err
			}
			if err := rep.Report(report); err != nil {
				return err
			}

			// A judge auth failure still produced a full result row above;
			// surface the configuration problem after the report.
			return runErr
		},
	}

	cmd.Flags().StringSliceVar(&metricNames, "metric", nil, "metric name, repeatable (default: recommended set)")
	cmd.Flags().StringVar(&summary, "summary", "", "summary text")
	cmd.Flags().StringVar(&summaryFile, "summary-file", "", "read summary text from file")
	cmd.Flags().StringVar(&source, "source", "", "source document text")
	cmd.Flags().StringVar(&sourceFile, "source-file", "", "read source document from file")
	cmd.Flags().StringVar(&reference, "reference", "", "reference summary text")
	cmd.Flags().StringVar(&referenceFile, "reference-file", "", "read reference summary from file")
	cmd.Flags().StringVar(&judgeTemplate, "judge-template-file", "", "custom judge prompt template file")
	cmd.Flags().StringVar(&provider, "provider", "", "remote provider (openai, anthropic, gemini, mock)")
	cmd.Flags().StringVar(&modelName, "model", "", "remote model name")
	cmd.Flags().StringVar(&mockResponse, "mock-response", "", "fixed mock judge response")
	cmd.Flags().StringVar(&format, "format", "", "output format (table, json, csv, markdown)")
	cmd.Flags().StringVar(&outputPath, "output", "", "output file path")

	return cmd
}

func resolveText(inline, file string) (string, error) {
	if inline != "" && file != "" {
		return "", errors.New("give the text inline or as a file, not both")
	}
	if file == "" {
		return inline, nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func resolveFormat(flag string) string {
	format := resolveString(flag, appConfig.Format)
	if format == "" {
		format = reporter.FormatTable
	}
	return format
}

func outputWriter(path string) (io.Writer, func(), error) {
	resolved := resolveString(path, appConfig.Output)
	if resolved == "" {
		return os.Stdout, func() {}, nil
	}
	file, err := os.Create(resolved)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { file.Close() }, nil
}

func buildReporter(format string, writer io.Writer) (reporter.Reporter, error) {
	switch format {
	case reporter.FormatJSON:
		return reporter.JSONReporter{Writer: writer, Pretty: true}, nil
	case reporter.FormatTable:
		return reporter.TableReporter{Writer: writer}, nil
	case reporter.FormatMarkdown:
		return reporter.MarkdownReporter{Writer: writer}, nil
	case reporter.FormatCSV:
		return reporter.CSVReporter{Writer: writer}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
