// Package cli exposes the classifier as a local command-line tool that works
// on plain-text files without any queue or database.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirillkom/document-triage/internal/core/classifier"
	"github.com/kirillkom/document-triage/internal/core/domain"
	"github.com/kirillkom/document-triage/internal/core/ports"
)

// Classifier is what the commands need from the core.
type Classifier interface {
	ports.TextClassifier
	ports.BatchClassifier
}

// NewRootCommand builds the triage command tree around c.
func NewRootCommand(c Classifier) *cobra.Command {
	root := &cobra.Command{
		Use:           "triage",
		Short:         "Classify extracted document text",
		Long:          "Labels extracted text as Boleto, NotaFiscal, FaturaRecibo or Outros using keyword and pattern scoring.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newClassifyCommand(c), newExplainCommand(c))
	return root
}

func newClassifyCommand(c Classifier) *cobra.Command {
	var (
		asJSON bool
		source string
	)
	cmd := &cobra.Command{
		Use:   "classify <file.txt>...",
		Short: "Print the label of each text file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := readBatch(source, args)
			if err != nil {
				return err
			}
			result, err := c.ClassifyBatch(cmd.Context(), batch)
			if err != nil {
				return fmt.Errorf("classify: %w", err)
			}
			if asJSON {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			for i, doc := range result.Files {
				fmt.Fprintf(out, "%s\t%s\n", args[i], doc.FileType)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the classification batch result as JSON")
	cmd.Flags().StringVar(&source, "source", "cli", "source identifier recorded in the JSON output")
	return cmd
}

func newExplainCommand(c Classifier) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "explain <file.txt>",
		Short: "Show every detector's score and verdict for a text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			text := string(data)
			decision := c.Classify(text)
			evaluations := c.Explain(text)
			signals := classifier.ExtractSignals(text)

			if asJSON {
				return writeJSON(cmd, map[string]any{
					"decision":    decision,
					"evaluations": evaluations,
					"signals":     signals,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", args[0], decision.Type)
			for _, ev := range evaluations {
				name := ev.Detector
				if ev.Branch != "" {
					name += "/" + ev.Branch
				}
				fmt.Fprintf(out, "  %-35s score=%-3d threshold=%-3d gate=%-5t matched=%t\n",
					name, ev.Score, ev.Threshold, ev.GatePassed, ev.Matched)
				for _, contrib := range ev.Contributions {
					fmt.Fprintf(out, "    %+d %s\n", contrib.Points, contrib.Name)
				}
			}
			fmt.Fprintf(out, "  signals: email=%t cnpj=%d long_digits=%t access_key=%t wide_numeric=%t reply_separator=%t digits=%d\n",
				signals.EmailAddress, signals.CNPJCount, signals.LongDigitRun, signals.AccessKey,
				signals.WideNumericRun, signals.ReplySeparator, signals.DigitCount)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the decision, evaluations and signals as JSON")
	return cmd
}

func readBatch(source string, paths []string) (*domain.ExtractionBatch, error) {
	batch := &domain.ExtractionBatch{
		SourceIdentifier: source,
		Files:            make([]domain.ExtractedDocument, 0, len(paths)),
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		fullPath, err := filepath.Abs(path)
		if err != nil {
			fullPath = path
		}
		batch.Files = append(batch.Files, domain.ExtractedDocument{
			FileName:    filepath.Base(path),
			FullPath:    fullPath,
			FileType:    strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
			TextContent: string(data),
		})
	}
	return batch, nil
}

func writeJSON(cmd *cobra.Command, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
