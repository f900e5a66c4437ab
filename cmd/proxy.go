package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"energy-cli/internal/proxy"
)

var (
	proxyListen string
	proxyTarget string
	proxyPrefix string
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Run the local API reverse proxy",
	Long: `Serves ` + proxy.DefaultPrefix + `/* on the listen address, strips the prefix and forwards to the
backend. The default base URL of this CLI points at this proxy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := proxy.NewHandler(proxyTarget, proxyPrefix, os.Stdout)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              proxyListen,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-cmd.Context().Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()

		fmt.Printf("Proxying %s%s/* -> %s\n", proxyListen, proxyPrefix, proxyTarget)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(proxyCmd)
	proxyCmd.Flags().StringVar(&proxyListen, "listen", proxy.DefaultListen, "Listen address")
	proxyCmd.Flags().StringVar(&proxyTarget, "target", proxy.DefaultTarget, "Backend URL")
	proxyCmd.Flags().StringVar(&proxyPrefix, "prefix", proxy.DefaultPrefix, "Path prefix to strip")
}
