package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

const passwordHeader = "X-Admin-Password"

func init() {
	releaseCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log notifications instead of sending them")
	resetCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log notifications instead of sending them")
	exportCmd.Flags().StringP("out", "o", "", "Write the CSV to this file instead of stdout")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(waitlistCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(debugTimeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(spotsCmd)
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(countersCmd)
	rootCmd.AddCommand(exportCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil, false)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show spots, waitlist size and lock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/status", nil, false)
	},
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Show the released teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/roster", nil, false)
	},
}

var waitlistCmd = &cobra.Command{
	Use:   "waitlist",
	Short: "Show the waitlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/waitlist", nil, false)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [year week]",
	Short: "List archived weeks, or show one week",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch len(args) {
		case 0:
			return performRequest(http.MethodGet, "/api/history", nil, false)
		case 2:
			return performRequest(http.MethodGet, "/api/history/"+args[0]+"/"+args[1], nil, false)
		}
		return fmt.Errorf("history takes no arguments or both a year and a week")
	},
}

var debugTimeCmd = &cobra.Command{
	Use:   "debug-time",
	Short: "Show how the server sees the league clock",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/debug-time", nil, false)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the periodic lock and reset checks now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/force-check", nil, false)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil, false)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Show the full roster with payments and ratings (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/admin/players", nil, true)
	},
}

var spotsCmd = &cobra.Command{
	Use:   "spots N",
	Short: "Set the remaining spot count (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid spot count %q: %w", args[0], err)
		}
		return performRequest(http.MethodPost, "/api/admin/update-spots", map[string]int{"newSpots": n}, true)
	},
}

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Balance and release the roster (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, withDryRun("/api/admin/release-roster"), nil, true)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Archive the week and start a new signup (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, withDryRun("/api/admin/manual-reset"), nil, true)
	},
}

var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Show lifetime event counters (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/admin/counters", nil, true)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the payment sheet as CSV (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := login()
		if err != nil {
			return err
		}
		resp, err := http.Get(host + "/api/admin/export-payments?sessionToken=" + url.QueryEscape(token))
		if err != nil {
			return fmt.Errorf("failed to make request: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("export failed with status %d", resp.StatusCode)
		}

		out := io.Writer(os.Stdout)
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			defer f.Close()
			out = f
		}
		if _, err := io.Copy(out, resp.Body); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return nil
	},
}

func withDryRun(endpoint string) string {
	if dryRun {
		return endpoint + "?dry_run=true"
	}
	return endpoint
}

// login trades the admin password for a session token.
func login() (string, error) {
	if password == "" {
		return "", fmt.Errorf("admin password is required, set --password or $ADMIN_PASSWORD")
	}
	payload, err := sonic.Marshal(map[string]string{"password": password})
	if err != nil {
		return "", err
	}
	resp, err := http.Post(host+"/api/admin/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()
	var out struct {
		Success      bool   `json:"success"`
		SessionToken string `json:"sessionToken"`
	}
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}
	if !out.Success {
		return "", fmt.Errorf("login failed")
	}
	return out.SessionToken, nil
}

func performRequest(method, endpoint string, body any, admin bool) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if admin {
		if password == "" {
			return fmt.Errorf("admin password is required, set --password or $ADMIN_PASSWORD")
		}
		req.Header.Set(passwordHeader, password)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
