package main

import (
	"fmt"
	"net/http"

	"github.com/annumhq/annum/internal/config"
	"github.com/annumhq/annum/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the year progress and profile pages",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = application.cfg.Serve.Addr
	}
	if addr == "" {
		addr = config.DefaultServeAddr
	}

	handler := web.NewHandler(web.Options{
		API:     application.api,
		Session: application.session,
	})
	fmt.Printf("serving on http://%s\n", addr)
	return http.ListenAndServe(addr, handler)
}
