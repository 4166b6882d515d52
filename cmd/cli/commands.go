package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var officeID string

func init() {
	leaderboardCmd.Flags().StringVar(&officeID, "office", "", "office id")
	leaderboardCmd.MarkFlagRequired("office")
	gamesCmd.Flags().StringVar(&officeID, "office", "", "office id")
	gamesCmd.MarkFlagRequired("office")
	statsCmd.Flags().StringVar(&officeID, "office", "", "office id")
	statsCmd.MarkFlagRequired("office")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(officesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(functionsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var officesCmd = &cobra.Command{
	Use:   "offices",
	Short: "List all offices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/offices")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show an office's leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players?officeId=" + url.QueryEscape(officeID))
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List an office's recorded games, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/games?officeId=" + url.QueryEscape(officeID))
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <officeID> <winnerID> <loserID>",
	Short: "Record a finished game",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/api/games", map[string]string{
			"officeId": args[0],
			"winnerId": args[1],
			"loserId":  args[2],
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <gameID>",
	Short: "Delete the most recently recorded game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performDeleteRequest("/api/games/" + url.PathEscape(args[0]))
	},
}

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the registered rating functions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/ratingfunctions")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show an office's streaks and rivalries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/otherstats?officeId=" + url.QueryEscape(officeID))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func performPostRequest(endpoint string, body any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func performDeleteRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
