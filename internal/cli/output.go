package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/maharajah/maharajah/internal/retriever"
)

// resultJSON is the wire shape for "--format json" from spec §6: an array
// of objects with rank/file_path/start_line/end_line/symbol/score/summary/
// content fields.
type resultJSON struct {
	Rank      int     `json:"rank"`
	FilePath  string  `json:"file_path"`
	StartLine int     `json:"start_line"`
	EndLine   int     `json:"end_line"`
	Symbol    string  `json:"symbol"`
	Score     float64 `json:"score"`
	Summary   *string `json:"summary"`
	Content   string  `json:"content"`
}

// writeResults renders results in the requested format, matching the
// teacher's indexer_status.go human/JSON dual-mode split.
func writeResults(w io.Writer, results []retriever.Result, format string) error {
	switch format {
	case "json":
		return writeResultsJSON(w, results)
	case "", "text":
		writeResultsText(w, results)
		return nil
	default:
		return &cliError{code: ExitUserError, err: fmt.Errorf("unknown --format %q (want text or json)", format)}
	}
}

func writeResultsJSON(w io.Writer, results []retriever.Result) error {
	out := make([]resultJSON, len(results))
	for i, r := range results {
		out[i] = resultJSON{
			Rank:      r.Rank,
			FilePath:  r.FilePath,
			StartLine: r.StartLine,
			EndLine:   r.EndLine,
			Symbol:    r.Symbol,
			Score:     r.Score,
			Summary:   r.Summary,
			Content:   r.Content,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeResultsText(w io.Writer, results []retriever.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}
	for _, r := range results {
		symbol := r.Symbol
		if symbol == "" {
			symbol = "(none)"
		}
		fmt.Fprintf(w, "%d. %s:%d-%d  %s  score=%.4f\n", r.Rank, r.FilePath, r.StartLine, r.EndLine, symbol, r.Score)
		if r.Summary != nil && *r.Summary != "" {
			fmt.Fprintf(w, "   %s\n", *r.Summary)
		}
	}
}
