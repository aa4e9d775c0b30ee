package main

import (
	"os"

	"inventory_commerce/internal/logger"

	"github.com/spf13/cobra"
)

var envFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "reportctl",
		Short:         "Xem danh mục và xuất báo cáo kho/bán hàng từ dòng lệnh",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", "", "đường dẫn file env (mặc định config/env/$GO_ENV.env)")
	rootCmd.AddCommand(newListCmd(), newExportCmd())
	return rootCmd
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		logger.GetAppLogger().WithError(err).Error("reportctl failed")
		logger.Shutdown()
		os.Exit(1)
	}
	logger.Shutdown()
}
