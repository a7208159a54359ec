package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MetricEntry is one line of a run's metric history: the tracked values for
// a single cost evaluation, in call order.
type MetricEntry struct {
	// Evaluation is the index of the cost call.
	Evaluation int `json:"evaluation"`

	// Cost is the RMSE cost recorded for this call (+Inf for infeasible
	// candidates is serialized as null by encoding/json, so it is stored as
	// a string "inf" sentinel instead).
	Cost float64 `json:"-"`

	// CostRepr carries the cost through JSON, including infinities.
	CostRepr string `json:"cost"`

	// ParamRMSRE is the root-mean-square relative error of the estimated
	// parameters against the true ones.
	ParamRMSRE float64 `json:"paramRmsre"`

	// IdentifiedParams is the number of parameters within 5% of truth.
	IdentifiedParams int `json:"identifiedParams"`
}

// HistoryWriter appends metric entries to <baseDir>/runs/<runID>/history.jsonl,
// one JSON object per line, buffered.
type HistoryWriter struct {
	file   *os.File
	writer *bufio.Writer
}

// NewHistoryWriter creates (or truncates) the history file for a run.
func NewHistoryWriter(baseDir, runID string) (*HistoryWriter, error) {
	dir := filepath.Join(baseDir, "runs", runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}
	file, err := os.Create(filepath.Join(dir, "history.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("creating history file: %w", err)
	}
	return &HistoryWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, 64*1024),
	}, nil
}

// Append writes one entry.
func (hw *HistoryWriter) Append(entry MetricEntry) error {
	entry.CostRepr = formatCost(entry.Cost)
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("serializing metric entry: %w", err)
	}
	if _, err := hw.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing metric entry: %w", err)
	}
	return nil
}

// Close flushes and closes the history file.
func (hw *HistoryWriter) Close() error {
	if err := hw.writer.Flush(); err != nil {
		hw.file.Close()
		return fmt.Errorf("flushing history file: %w", err)
	}
	return hw.file.Close()
}

// ReadHistory loads a run's full metric history.
func ReadHistory(baseDir, runID string) ([]MetricEntry, error) {
	path := filepath.Join(baseDir, "runs", runID, "history.jsonl")
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{RunID: runID}
	} else if err != nil {
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	defer file.Close()

	var entries []MetricEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry MetricEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("parsing metric entry %d: %w", len(entries), err)
		}
		entry.Cost = parseCost(entry.CostRepr)
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}
	return entries, nil
}
