package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/halverson/comfyscan/config"
	"github.com/halverson/comfyscan/extract"
	"github.com/halverson/comfyscan/graphapi"
	"github.com/halverson/comfyscan/metacache"
)

type fileResult struct {
	Path   string         `json:"path"`
	Result extract.Result `json:"result"`
	Err    string         `json:"error,omitempty"`
}

func newScanCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	var jsonFlag bool
	var strictFlag bool

	cmd := &cobra.Command{
		Use:   "scan FILE...",
		Short: "Extract embedded generation metadata from files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			extractor := &extract.Extractor{
				Detect:      graphapi.DetectOptions{Strict: strictFlag || cfg.StrictDetection},
				ProbeBinary: cfg.ProbeBinary,
				Cache:       metacache.New(cfg.CacheCapacity, slog.Default()),
				Logger:      slog.Default(),
			}
			analyze := graphapi.AnalyzeOptions{PairLimit: cfg.PairLimit}

			// a progress bar over the batch, but not when emitting JSON
			var bar *progressbar.ProgressBar
			if !jsonFlag && len(args) > 1 {
				bar = progressbar.Default(int64(len(args)), "scanning")
			}

			results := make([]fileResult, 0, len(args))
			for _, path := range args {
				fr := fileResult{Path: path}
				result, err := extractor.ExtractFile(cmd.Context(), path)
				if err != nil {
					// a per-file failure never aborts the batch
					fr.Err = err.Error()
					if errors.Is(err, extract.ErrUnsupportedFormat) {
						slog.Debug("skipping unsupported file", "path", path)
					} else {
						slog.Warn("extraction failed", "path", path, "err", err)
					}
				} else {
					fr.Result = result
				}
				results = append(results, fr)
				if bar != nil {
					bar.Add(1)
				}
			}

			if jsonFlag {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			renderSummary(results, extractor.Detect, analyze)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit results as JSON")
	cmd.Flags().BoolVar(&strictFlag, "strict", false, "Require more evidence before accepting a workflow")
	return cmd
}

func renderSummary(results []fileResult, detect graphapi.DetectOptions, analyze graphapi.AnalyzeOptions) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"File", "Found", "Detail"})
	for _, fr := range results {
		detail := ""
		switch {
		case fr.Err != "":
			detail = fr.Err
		case fr.Result.Parameters != nil:
			detail = truncate(fr.Result.Parameters.PositivePrompt, 60)
		case fr.Result.Workflow != nil:
			detail = workflowDetail(fr.Result.Workflow, detect, analyze)
		case fr.Result.Metadata != "":
			detail = truncate(fr.Result.Metadata, 60)
		case fr.Result.UserComment != "":
			detail = truncate(fr.Result.UserComment, 60)
		}
		kind := fr.Result.Kind()
		if fr.Err != "" {
			kind = "error"
		}
		t.AppendRow(table.Row{fr.Path, kind, detail})
	}
	t.Render()
}

func workflowDetail(raw []byte, detect graphapi.DetectOptions, analyze graphapi.AnalyzeOptions) string {
	wf := graphapi.DetectWorkflowJSON(string(raw), detect)
	if wf == nil {
		return "workflow"
	}
	analysis := graphapi.Analyze(wf, analyze)
	parts := []string{fmt.Sprintf("%d nodes", len(analysis.NodeTypes))}
	if len(analysis.Models) > 0 {
		parts = append(parts, analysis.Models[0])
	}
	if analysis.Confident {
		parts = append(parts, truncate(analysis.Positive, 40))
	}
	return strings.Join(parts, ", ")
}

// truncate cuts on rune boundaries so multi-byte prompt text never renders
// a torn character in the table.
func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
