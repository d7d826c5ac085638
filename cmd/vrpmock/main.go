package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tu10ng/vrpmock/internal/app"
)

var cfgFile string

func main() {
	configPath := os.Getenv("VRPMOCK_CONFIG")
	if configPath == "" {
		configPath = "config.yml"
	}

	var rootCmd = &cobra.Command{
		Use:     "vrpmock",
		Short:   "Huawei VRP terminal mock",
		Version: "0.1.0",
		Run: func(cmd *cobra.Command, args []string) {
			if err := app.Boot(cfgFile, false); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			startServer(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", configPath, "config file")

	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
