package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

type failedEntry struct {
	Instrument string `json:"instrument"`
	Day        string `json:"day"`
	Reason     string `json:"reason"`
}

type successReport struct {
	RunID       string   `json:"run_id"`
	Instruments []string `json:"instruments"`
}

type failedReport struct {
	RunID  string        `json:"run_id"`
	Failed []failedEntry `json:"failed"`
}

func writeRunReport(outDir, runID string, successList []string, failedList []failedEntry) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	if len(successList) > 0 {
		p := filepath.Join(outDir, ".lastrun.success.json")
		data, err := json.MarshalIndent(successReport{RunID: runID, Instruments: successList}, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			return err
		}
		slog.Info("report wrote success", "path", p, "instruments", len(successList))
	}
	if len(failedList) > 0 {
		p := filepath.Join(outDir, ".lastrun.failed.json")
		data, err := json.MarshalIndent(failedReport{RunID: runID, Failed: failedList}, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			return err
		}
		slog.Info("report wrote failed", "path", p, "count", len(failedList))
	}
	return nil
}

func appendSuccess(list []string, instrument string) []string {
	for _, s := range list {
		if s == instrument {
			return list
		}
	}
	return append(list, instrument)
}

func joinFailedReasons(failedList []failedEntry) string {
	if len(failedList) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range failedList {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Instrument)
		b.WriteString(" ")
		b.WriteString(f.Day)
		b.WriteString(": ")
		b.WriteString(f.Reason)
		if i >= 4 && len(failedList) > 6 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(failedList)-5))
			break
		}
	}
	return b.String()
}
