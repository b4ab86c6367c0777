package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dt-pm-tools/jira-summarizer/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the summarization proxy server",
	Long:  `Serves POST /api/generate-summary: the proxy fetches the JIRA ticket with the credentials supplied in the request body and returns the AI summary. The AI provider key is read from the server's environment; callers never see it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		handler := server.New(appConfig)
		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           handler.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		slog.Info("summarization proxy listening", "addr", serveAddr, "path", server.SummaryPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
