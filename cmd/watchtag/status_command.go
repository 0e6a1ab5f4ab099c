package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"watchtag/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			bind := strings.TrimSpace(cfg.Paths.APIBind)
			if bind == "" {
				return fmt.Errorf("daemon API is disabled (paths.api_bind is empty)")
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, "http://"+bind+"/api/status", nil)
			if err != nil {
				return err
			}
			if token := strings.TrimSpace(cfg.Paths.APIToken); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			client := &http.Client{Timeout: 5 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("connect to daemon at %s: %w (is watchtagd running?)", bind, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("daemon returned %d", resp.StatusCode)
			}

			var status api.DaemonStatus
			if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
				return fmt.Errorf("decode status: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd, status)
			}

			rows := [][]string{
				{"Running", yesNo(status.Running)},
				{"PID", strconv.Itoa(status.PID)},
				{"Sweep active", yesNo(status.SweepActive)},
				{"Rules", strconv.Itoa(status.RuleCount)},
				{"Region", status.Region},
			}
			if status.LastRun != nil {
				rows = append(rows,
					[]string{"Last run", status.LastRun.StartedAt.Local().Format("2006-01-02 15:04")},
					[]string{"Last status", status.LastRun.Status},
					[]string{"Last tagged", strconv.Itoa(status.LastRun.ItemsTagged)},
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print status as JSON")
	return cmd
}
