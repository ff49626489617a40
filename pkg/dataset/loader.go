// Package dataset loads batch evaluation rows from JSON or JSONL files.
// Each row carries a summary plus optional source and reference texts.
package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sumeval/pkg/core"
)

// Load reads every row of a dataset file. Row order is preserved; batch
// output is index-aligned with it. Rows without an id get their 1-based
// position.
func Load(path string) ([]core.EvaluationInputs, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	var rows []core.EvaluationInputs
	switch format {
	case "json":
		rows, err = loadJSON(path)
	case "jsonl":
		rows, err = loadJSONL(path)
	default:
		err = errors.New("dataset: unsupported format")
	}
	if err != nil {
		return nil, err
	}

	for i := range rows {
		if rows[i].ID == "" {
			rows[i].ID = strconv.Itoa(i + 1)
		}
	}
	return rows, nil
}

func detectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		return "jsonl", nil
	case ".json":
		return "json", nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(string(b)) == "" {
			continue
		}
		if b == '[' {
			return "json", nil
		}
		if b == '{' {
			return "jsonl", nil
		}
		return "", errors.New("dataset: unsupported format")
	}
}

func loadJSON(path string) ([]core.EvaluationInputs, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []core.EvaluationInputs
	if err := json.NewDecoder(file).Decode(&rows); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return rows, nil
}

func loadJSONL(path string) ([]core.EvaluationInputs, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	var rows []core.EvaluationInputs
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var row core.EvaluationInputs
		if err := json.Unmarshal([]byte(text), &row); err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
