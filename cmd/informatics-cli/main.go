package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/biosmart-lab/informatics/pkg/clinical"
	"github.com/biosmart-lab/informatics/pkg/common/logger"
	"github.com/biosmart-lab/informatics/pkg/informatics"
	"github.com/biosmart-lab/informatics/pkg/nlp"
	"github.com/biosmart-lab/informatics/pkg/risk"
	"github.com/biosmart-lab/informatics/pkg/terminology"
	"github.com/spf13/cobra"
)

func main() {
	logger.Configure(os.Stderr, os.Getenv("LOG_LEVEL"), "text")

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var rulesPath, terminologyPath string

	rootCmd := &cobra.Command{
		Use:           "informatics",
		Short:         "Clinical risk scoring and entity tagging",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", os.Getenv("NLP_RULES_PATH"), "YAML tagger rules file")
	rootCmd.PersistentFlags().StringVar(&terminologyPath, "terminology", os.Getenv("TERMINOLOGY_PATH"), "YAML code dictionary file")

	newService := func() (*informatics.Service, error) {
		rules, err := nlp.LoadRules(rulesPath)
		if err != nil {
			return nil, err
		}
		tagger, err := nlp.NewTagger(rules)
		if err != nil {
			return nil, err
		}
		dict, err := terminology.Load(terminologyPath)
		if err != nil {
			return nil, err
		}
		return informatics.NewService(informatics.Options{Tagger: tagger, Dictionary: dict})
	}

	rootCmd.AddCommand(scoreCmd(out, newService))
	rootCmd.AddCommand(extractCmd(out, newService))
	rootCmd.AddCommand(codesCmd(out, newService))
	rootCmd.AddCommand(populationCmd(out, newService))
	return rootCmd
}

type serviceFactory func() (*informatics.Service, error)

func scoreCmd(out io.Writer, newService serviceFactory) *cobra.Command {
	var rec risk.VitalsRecord

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score cardiovascular and metabolic risk from vitals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			assessment, err := svc.ScoreRisk(context.Background(), rec)
			if err != nil {
				return err
			}
			return printJSON(out, assessment)
		},
	}
	cmd.Flags().IntVar(&rec.Age, "age", 45, "patient age in years")
	cmd.Flags().IntVar(&rec.Glucose, "glucose", 110, "blood glucose in mg/dL")
	cmd.Flags().StringSliceVar(&rec.ConditionHistory, "condition", nil, "condition history tag (repeatable)")
	return cmd
}

func extractCmd(out io.Writer, newService serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <note>",
		Short: "Tag ICD-10 entities in a clinical note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			result, err := svc.ExtractEntities(context.Background(), args[0])
			if err != nil {
				return err
			}
			if result.Warning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", result.Warning)
			}
			return printJSON(out, result)
		},
	}
}

func codesCmd(out io.Writer, newService serviceFactory) *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List dictionary codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			return printJSON(out, svc.Dictionary().BySystem(system))
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "restrict to one code system (ICD-10, LOINC)")
	return cmd
}

func populationCmd(out io.Writer, newService serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "population",
		Short: "Stratify the sample cohort by risk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			return printJSON(out, clinical.Stratify(clinical.SampleCohort(), svc.Dictionary()))
		},
	}
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
