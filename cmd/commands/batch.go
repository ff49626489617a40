package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sumeval/pkg/batch"
	"sumeval/pkg/core"
	"sumeval/pkg/dataset"
	"sumeval/pkg/eval"
	"sumeval/pkg/registry"
	"sumeval/pkg/reporter"
	"sumeval/pkg/runlog"
)

func newBatchCommand() *cobra.Command {
	var (
		datasetPath   string
		metricNames   []string
		quick         bool
		judgeTemplate string
		workers       int
		provider      string
		modelName     string
		mockResponse  string
		format        string
		outputPath    string
		logDir        string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate a dataset of summaries",
		Long:  "Evaluate every row of a JSON or JSONL dataset. With no --metrics, the recommended set for the dataset's input shape is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if datasetPath == "" {
				return fmt.Errorf("--dataset is required")
			}

			rows, err := dataset.Load(datasetPath)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("dataset %s has no rows", datasetPath)
			}

			ctx := context.Background()
			client, err := eval.New(ctx, appConfig.evalConfig(provider, modelName, mockResponse))
			if err != nil {
				return err
			}
			defer client.Close()

			names := metricNames
			if len(names) == 0 {
				shape := datasetShape(rows)
				names = client.Recommended(shape.hasSource, shape.hasReference, quick)
			}

			template := ""
			if judgeTemplate != "" {
				raw, err := os.ReadFile(judgeTemplate)
				if err != nil {
					return err
				}
				template = string(raw)
			}

			progress := newProgressBar(progressWriter(cmd), len(rows))
			progress.Update(0)

			runner := client.BatchRunner(
				resolveInt(workers, appConfig.Workers, 4),
				func(completed, total int) { progress.Update(completed) },
			)

			started := time.Now()
			responses, runErr := runner.Run(ctx, batch.Job{
				Rows:          rows,
				Metrics:       names,
				JudgeTemplate: template,
			})
			if runErr != nil && responses == nil {
				return runErr
			}
			finished := time.Now()

			writer, closeWriter, err := outputWriter(outputPath)
			if err != nil {
				return err
			}
			defer closeWriter()

			columns := names
			if template != "" {
				columns = append(append([]string{}, names...), registry.CustomJudge)
			}
			report := reporter.New(columns, client.JudgeColumns(names, template != ""), rows, responses)
			rep, err := buildReporter(resolveFormat(format), writer)
			if err != nil {
				return err
			}
			if err := rep.Report(report); err != nil {
				return err
			}

			dir := resolveString(logDir, appConfig.LogDir)
			if dir != "none" {
				if dir == "" {
					dir = "./logs"
				}
				log := runlog.FromRun(names, template != "", responses, started, finished)
				if path, err := runlog.Write(dir, log); err != nil {
					logger.Warn("run log not written", zap.Error(err))
				} else {
					logger.Info("run log written", zap.String("path", path))
				}
			}

			return runErr
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "path to JSON or JSONL dataset")
	cmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "comma-separated metric names (default: recommended set)")
	cmd.Flags().BoolVar(&quick, "quick", false, "recommend one metric per category")
	cmd.Flags().StringVar(&judgeTemplate, "judge-template-file", "", "custom judge prompt template file")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of row workers")
	cmd.Flags().StringVar(&provider, "provider", "", "remote provider (openai, anthropic, gemini, mock)")
	cmd.Flags().StringVar(&modelName, "model", "", "remote model name")
	cmd.Flags().StringVar(&mockResponse, "mock-response", "", "fixed mock judge response")
	cmd.Flags().StringVar(&format, "format", "", "output format (table, json, csv, markdown)")
	cmd.Flags().StringVar(&outputPath, "output", "", "output file path")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "run log directory (none to disable)")

	return cmd
}

type inputShape struct {
	hasSource    bool
	hasReference bool
}

// datasetShape treats an input as available when any row carries it, so a
// few sparse rows do not shrink the recommended set; sparse rows come back
// as skipped cells instead.
func datasetShape(rows []core.EvaluationInputs) inputShape {
	shape := inputShape{}
	for _, row := range rows {
		if row.HasSource() {
			shape.hasSource = true
		}
		if row.HasReference() {
			shape.hasReference = true
		}
	}
	return shape
}

type progressBar struct {
	writer io.Writer
	total  int
	start  time.Time
	isTTY  bool
}

func newProgressBar(writer io.Writer, total int) *progressBar {
	return &progressBar{
		writer: writer,
		total:  total,
		start:  time.Now(),
		isTTY:  isTerminal(writer),
	}
}

func (p *progressBar) Update(completed int) {
	width := 30
	if p.total <= 0 {
		return
	}

	ratio := float64(completed) / float64(p.total)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))

	bar := strings.Repeat("=", filled) + strings.Repeat(".", width-filled)
	percent := int(ratio * 100)
	elapsed := time.Since(p.start).Truncate(time.Second)

	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	line := fmt.Sprintf("[%s] %3d%% (%d/%d) %s", barStyle.Render(bar), percent, completed, p.total, elapsed)
	if p.isTTY {
		fmt.Fprintf(p.writer, "\r%s", line)
	} else {
		fmt.Fprintf(p.writer, "%s\n", line)
	}

	if completed >= p.total {
		fmt.Fprintln(p.writer)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func progressWriter(cmd *cobra.Command) io.Writer {
	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	if isTerminal(stderr) {
		return stderr
	}
	if isTerminal(stdout) {
		return stdout
	}
	return stderr
}
