package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"steameagle/internal/fileutil"
)

// WriteFailureReport writes failures to path as an indented JSON array. An
// empty slice still produces a file so stale reports from earlier runs do not
// linger.
func WriteFailureReport(path string, failures []Failure) error {
	if failures == nil {
		failures = []Failure{}
	}
	data, err := json.MarshalIndent(failures, "", "  ")
	if err != nil {
		return fmt.Errorf("encode failure report: %w", err)
	}
	data = append(data, '\n')

	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write failure report: %w", err)
	}
	return nil
}

// ReadFailureReport loads a report written by WriteFailureReport.
func ReadFailureReport(path string) ([]Failure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var failures []Failure
	if err := json.Unmarshal(data, &failures); err != nil {
		return nil, fmt.Errorf("decode failure report: %w", err)
	}
	return failures, nil
}
