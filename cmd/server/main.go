package main

import (
	"log"

	"github.com/spf13/cobra"
)

// @title Trainingsplan API
// @version 1.0
// @description API for importing training plans and scheduling the weeks before a competition.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api

var configPath string

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Training plan ingestion and adaptive scheduling service",
	// Errors are reported by main.
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory holding config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateWeeksCmd)
	generateWeeksCmd.Flags().StringVar(&competitionFlag, "competition", "", "Competition ID")
	_ = generateWeeksCmd.MarkFlagRequired("competition")

	rootCmd.AddCommand(importPlanCmd)
	importPlanCmd.Flags().StringVar(&competitionFlag, "competition", "", "Competition ID")
	importPlanCmd.Flags().StringVar(&planFileFlag, "file", "", "Plan document (JSON or YAML)")
	importPlanCmd.Flags().StringVar(&planNameFlag, "name", "", "Plan name, defaults to the file name")
	importPlanCmd.Flags().StringVar(&planDescriptionFlag, "description", "", "Plan description")
	_ = importPlanCmd.MarkFlagRequired("competition")
	_ = importPlanCmd.MarkFlagRequired("file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}
