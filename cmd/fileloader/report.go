package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// jsonReport is the --json document.
type jsonReport struct {
	Batches []jsonBatch `json:"batches"`
	Summary jsonSummary `json:"summary"`
}

type jsonBatch struct {
	Name       string     `json:"name"`
	Complete   bool       `json:"complete"`
	Error      string     `json:"error,omitempty"`
	DurationMS int64      `json:"durationMs"`
	Files      []jsonFile `json:"files"`
}

type jsonFile struct {
	File   string `json:"file"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type jsonSummary struct {
	Loaded  int `json:"loaded"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
	Errors  int `json:"batchErrors"`
}

// writeJSON prints results as an indented JSON document.
func writeJSON(w io.Writer, results []BatchResult) error {
	s := summarize(results)
	report := jsonReport{
		Batches: make([]jsonBatch, 0, len(results)),
		Summary: jsonSummary{Loaded: s.Loaded, Failed: s.Failed, Pending: s.Pending, Errors: s.BatchErrors},
	}
	for _, b := range results {
		jb := jsonBatch{
			Name:       b.Name,
			Complete:   b.Complete,
			DurationMS: b.Duration.Milliseconds(),
			Files:      make([]jsonFile, 0, len(b.Files)),
		}
		if b.Err != nil {
			jb.Error = b.Err.Error()
		}
		for _, f := range b.Files {
			jf := jsonFile{File: f.File, Status: f.Status}
			if f.Err != nil {
				jf.Error = f.Err.Error()
			}
			jb.Files = append(jb.Files, jf)
		}
		report.Batches = append(report.Batches, jb)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// writeText prints one line per file. Failures go to stderr; successes are
// hidden in quiet mode.
func writeText(stdout, stderr io.Writer, results []BatchResult, quiet, verbose bool) {
	multi := len(results) > 1
	for _, b := range results {
		prefix := ""
		if multi {
			prefix = "[" + b.Name + "] "
		}
		if b.Err != nil {
			fmt.Fprintf(stderr, "%sERROR %v\n", prefix, b.Err)
			continue
		}
		for _, f := range b.Files {
			switch f.Status {
			case StatusOK:
				if !quiet {
					fmt.Fprintf(stdout, "%sOK      %s\n", prefix, f.File)
				}
			case StatusFailed:
				fmt.Fprintf(stderr, "%sFAILED  %s: %v\n", prefix, f.File, f.Err)
			case StatusPending:
				fmt.Fprintf(stderr, "%sPENDING %s\n", prefix, f.File)
			}
		}
		if verbose {
			fmt.Fprintf(stdout, "%sbatch finished in %v (complete: %t)\n", prefix, b.Duration.Round(time.Millisecond), b.Complete)
		}
	}

	if quiet {
		return
	}
	s := summarize(results)
	fmt.Fprintf(stdout, "\n%d loaded, %d failed, %d pending", s.Loaded, s.Failed, s.Pending)
	if s.BatchErrors > 0 {
		fmt.Fprintf(stdout, ", %d batch errors", s.BatchErrors)
	}
	fmt.Fprintln(stdout)
}
