package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/endorses/callflow/cmd/flow"
	"github.com/endorses/callflow/internal/pkg/logger"
	"github.com/endorses/callflow/internal/pkg/signals"
	"github.com/endorses/callflow/internal/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:     "callflow",
	Short:   "callflow correlates VoIP calls in captures",
	Long:    fmt.Sprintf("callflow %s - VoIP call correlation and flow diagrams", version.GetVersion()),
	Version: version.GetFullVersion(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl := logLevel
		if lvl == "" {
			lvl = viper.GetString("log_level")
		}
		if lvl == "" {
			return nil
		}
		l, ok := logger.ParseLevel(lvl)
		if !ok {
			return fmt.Errorf("invalid log level %q", lvl)
		}
		logger.SetLevel(l)
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signals.WithCancel(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func addSubCommandPalattes() {
	rootCmd.AddCommand(flow.FlowCmd)
}

func init() {
	cobra.OnInitialize(initConfig)

	logger.Initialize()

	addSubCommandPalattes()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.callflow.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".callflow")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}
