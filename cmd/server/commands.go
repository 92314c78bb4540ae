package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/trainingsplan/internal/api"
	"alcyxob/trainingsplan/internal/service"
)

var (
	competitionFlag     string
	planFileFlag        string
	planNameFlag        string
	planDescriptionFlag string
)

var generateWeeksCmd = &cobra.Command{
	Use:   "generate-weeks",
	Short: "Create or reconcile the week ledger of a competition",
	RunE:  runGenerateWeeks,
}

var importPlanCmd = &cobra.Command{
	Use:   "import-plan",
	Short: "Import a plan document for a competition",
	RunE:  runImportPlan,
}

func runGenerateWeeks(cmd *cobra.Command, _ []string) error {
	competitionID, err := primitive.ObjectIDFromHex(competitionFlag)
	if err != nil {
		return fmt.Errorf("invalid competition id %q", competitionFlag)
	}
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	competition, err := a.services.Competitions.GenerateWeeks(cmd.Context(), competitionID)
	if err != nil {
		return err
	}
	return printJSON(cmd, api.MapWeeksToResponse(competition.Weeks))
}

func runImportPlan(cmd *cobra.Command, _ []string) error {
	competitionID, err := primitive.ObjectIDFromHex(competitionFlag)
	if err != nil {
		return fmt.Errorf("invalid competition id %q", competitionFlag)
	}
	content, err := os.ReadFile(planFileFlag)
	if err != nil {
		return fmt.Errorf("reading plan document: %w", err)
	}
	name := planNameFlag
	if name == "" {
		name = filepath.Base(planFileFlag)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	plan, err := a.services.Plans.ImportPlan(cmd.Context(), service.PlanUpload{
		CompetitionID: competitionID,
		Name:          name,
		Description:   planDescriptionFlag,
		FileName:      filepath.Base(planFileFlag),
		Content:       content,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, api.MapPlanToResponse(plan))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
