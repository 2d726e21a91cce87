package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	userID  string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fincast-cli",
		Short: "Fincast CLI tool",
		Long:  `A command line interface for interacting with the Fincast API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Fincast API")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "Ledger owner ID sent as the identity header")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Report commands
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Report operations",
	}

	var year, month int
	var currency string
	trialBalanceCmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Print the monthly trial balance",
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/api/v1/reports/trial-balance?year=%d&month=%d", year, month)
			if currency != "" {
				path += "&currency=" + currency
			}
			get(path)
		},
	}
	trialBalanceCmd.Flags().IntVar(&year, "year", time.Now().Year(), "Report year")
	trialBalanceCmd.Flags().IntVar(&month, "month", int(time.Now().Month()), "Report month (1-12)")
	trialBalanceCmd.Flags().StringVar(&currency, "currency", "", "Optional currency filter")

	reportCmd.AddCommand(trialBalanceCmd)
	rootCmd.AddCommand(reportCmd)

	// Schedule commands
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Forecast schedule operations",
	}

	var from, to string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List forecast rows for a date window",
		Run: func(cmd *cobra.Command, args []string) {
			get(fmt.Sprintf("/api/v1/schedule/?from=%s&to=%s", from, to))
		},
	}
	listCmd.Flags().StringVar(&from, "from", "", "Window start (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&to, "to", "", "Window end (YYYY-MM-DD)")

	var recomputeFrom string
	recomputeCmd := &cobra.Command{
		Use:   "recompute",
		Short: "Recompute the forecast chains",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/schedule/recompute"
			if recomputeFrom != "" {
				path += "?from=" + recomputeFrom
			}
			post(path, "")
		},
	}
	recomputeCmd.Flags().StringVar(&recomputeFrom, "from", "", "Recompute start date (YYYY-MM-DD)")

	scheduleCmd.AddCommand(listCmd)
	scheduleCmd.AddCommand(recomputeCmd)
	rootCmd.AddCommand(scheduleCmd)

	// Recurring event commands
	recurringCmd := &cobra.Command{
		Use:   "recurring",
		Short: "Recurring event operations",
	}

	var applyFrom, applyTo string
	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Expand active recurring events over a date window",
		Run: func(cmd *cobra.Command, args []string) {
			body := fmt.Sprintf(`{"from":%q,"to":%q}`, applyFrom, applyTo)
			post("/api/v1/recurring-events/apply", body)
		},
	}
	applyCmd.Flags().StringVar(&applyFrom, "from", "", "Window start (YYYY-MM-DD)")
	applyCmd.Flags().StringVar(&applyTo, "to", "", "Window end (YYYY-MM-DD)")

	recurringCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(recurringCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) {
	do(http.MethodGet, path, "")
}

func post(path, body string) {
	do(http.MethodPost, path, body)
}

func do(method, path, body string) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, strings.NewReader(body))
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}

	if len(raw) == 0 {
		fmt.Printf("OK (Status: %d)\n", resp.StatusCode)
		return
	}

	var pretty any
	if err := json.Unmarshal(raw, &pretty); err != nil {
		fmt.Println(string(raw))
		return
	}

	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}
