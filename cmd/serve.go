package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/theirongolddev/cashflow/internal/server"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr     string
	flagServeInterval string
	flagServeBuffer   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scenario views over HTTP, reloading the dataset when it changes",
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running server's status endpoint",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().StringVar(&flagServeInterval, "interval", "", "Dataset reload interval, e.g. 30s, 5m, 1d (0 disables)")
	serveCmd.Flags().IntVar(&flagServeBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr() string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return appCfg.Server.Addr
}

func runServe(_ *cobra.Command, _ []string) error {
	srvCfg := appCfg.Server
	if flagServeInterval != "" {
		srvCfg.ReloadInterval = flagServeInterval
	}
	if flagServeBuffer > 0 {
		srvCfg.EventsBuffer = flagServeBuffer
	}
	interval, err := srvCfg.ReloadEvery()
	if err != nil {
		return err
	}

	mode, err := viewMode()
	if err != nil {
		return err
	}

	src := datasetSource()
	res, err := loadData()
	if err != nil {
		return err
	}

	// Unknown names leave an explicit default empty rather than widening it
	// to every scenario.
	var defaults []string
	pinned := len(flagScenarios) > 0 || len(appCfg.General.DefaultScenarios) > 0
	if pinned {
		defaults = selection(res.Dataset)
	}

	svc := server.New(server.Config{
		Source:           src,
		DefaultMode:      mode,
		DefaultScenarios: defaults,
		PinDefaults:      pinned,
		Interval:         interval,
		Addr:             serveAddr(),
		EventsBuffer:     srvCfg.EventsBuffer,
		Logger:           logger,
	}, res)

	fmt.Printf("  cashflow listening on http://%s\n", serveAddr())
	if src.Watchable() && interval > 0 {
		fmt.Printf("  Reloading %s every %s\n", res.Origin, interval)
	} else {
		fmt.Printf("  Serving %s dataset\n", res.Origin)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	addr := serveAddr()
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st server.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Printf("  Started: %s\n", st.StartedAt.Local().Format(time.RFC3339))
	fmt.Printf("  Dataset: %s (%s)\n", st.Dataset.Title, st.Origin)
	fmt.Printf("  Fingerprint: %s\n", st.Dataset.Fingerprint)
	fmt.Printf("  Scenarios: %d over %d periods\n", len(st.Dataset.Totals), st.Dataset.Periods)
	if st.ReloadIntervalSec > 0 {
		fmt.Printf("  Reloads: %d (every %ds)\n", st.ReloadCount, st.ReloadIntervalSec)
	}
	fmt.Printf("  Events: %d, subscribers: %d\n", st.EventCount, st.SubscriberCount)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}
