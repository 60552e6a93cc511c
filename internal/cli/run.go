package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/claimflow/internal/ioport"
	"github.com/ppiankov/claimflow/internal/llm"
	"github.com/ppiankov/claimflow/internal/model"
	"github.com/ppiankov/claimflow/internal/workflow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	claimType   string
	docPath     string
	answers     []string
	batchMode   bool
	samplePath  string
	runTimeout  time.Duration
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the claim intake workflow",
	Long: `Run executes the claim intake workflow end to end:
- Collect missing facts from scripted answers
- Extract facts from the supporting document
- Detect conflicts between the claimant and the document
- Resolve conflicts through clarification
- Finalize the claim with a structured record and summaries

Example:
  claimflow run --claim-type motor_accident --doc police_report.txt
  claimflow run --answer 2025-01-12 --answer 18:45 --answer "Bellevue Square, Zurich"
  claimflow run --llm --llm-provider openrouter --llm-model mistral-small`,
	Args: cobra.NoArgs,
	RunE: runClaim,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&claimType, "claim-type", "motor_accident", "type of claim to run")
	runCmd.Flags().StringVar(&docPath, "doc", "", "path to a police report (skips the document prompt)")
	runCmd.Flags().StringArrayVar(&answers, "answer", nil, "scripted answer, in question order (repeatable)")
	runCmd.Flags().BoolVar(&batchMode, "batch", false, "present all clarification questions at once")
	runCmd.Flags().StringVar(&samplePath, "sample-doc", "", "document used when the path prompt is left blank")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Minute, "overall run timeout")

	// LLM flags
	runCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM-backed questions and summaries")
	runCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, openrouter, anthropic, ollama)")
	runCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runClaim(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Claim type: %s\n", claimType)
		fmt.Fprintf(os.Stderr, "Document: %s\n", docPath)
		fmt.Fprintf(os.Stderr, "LLM: %v\n", cfg.LLM.Provider != "")
		fmt.Fprintln(os.Stderr)
	}

	client, err := llm.NewClient(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("init LLM client: %w", err)
	}

	io := ioport.NewScriptedIO(answers, cfg.Documents.SamplePath)
	flow := workflow.New(io, client, cfg)

	rec := model.NewClaimRecord(claimType)
	if docPath != "" {
		rec.Documents = append(rec.Documents, docPath)
	}

	rec, pending, err := flow.Run(ctx, rec)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	if pending != nil {
		// Scripted IO never suspends; this guards a misconfigured handler.
		return fmt.Errorf("workflow suspended awaiting %d answer(s)", len(pending.Questions))
	}

	return printResult(rec)
}

// printResult writes the record JSON, summary, reasoning summary, and raw
// trace, in that order.
func printResult(rec *model.ClaimRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	fmt.Println("\nFinal Claim JSON:")
	fmt.Println(string(data))

	if rec.Summary != "" {
		fmt.Println("\nSummary for Claims Handler:")
		fmt.Println(rec.Summary)
	}
	if rec.ReasoningSummary != "" {
		fmt.Println("\nReasoning Trace Summary:")
		fmt.Println(rec.ReasoningSummary)
	}

	fmt.Println("\nReasoning Trace (raw events):")
	for _, step := range rec.ReasoningTrace {
		fmt.Printf("- %s\n", step)
	}
	return nil
}

// buildConfig merges defaults, config file/env (via viper), and flags.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if viper.IsSet("workflow.batch") {
		cfg.Workflow.Batch = viper.GetBool("workflow.batch")
	}
	if viper.IsSet("documents.sample_path") {
		cfg.Documents.SamplePath = viper.GetString("documents.sample_path")
	}

	cfg.Workflow.Batch = cfg.Workflow.Batch || batchMode
	if samplePath != "" {
		cfg.Documents.SamplePath = samplePath
	}
	cfg.Output.Verbose = verbose

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "openrouter":
			cfg.LLM.APIKey = os.Getenv("OPENROUTER_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable not set")
			}
			if base := os.Getenv("OPENROUTER_BASE_URL"); base != "" {
				cfg.LLM.BaseURL = base
			}
		case "anthropic":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if base := os.Getenv("OLLAMA_BASE_URL"); base != "" {
				cfg.LLM.BaseURL = base
			}
		}
	}

	return cfg, nil
}
