package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thetarby/rwsim/internal/config"
)

// NewRootCmd builds the rwsim command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rwsim",
		Short: "Readers and writers access-policy simulator",
		Long: `rwsim simulates readers and writers sharing a counter under one of
four access policies (unrestricted, exclusive, reader-priority, fair),
driven by a discrete clock that ticks every quarter second by default.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig()
			return nil
		},
	}

	// Global flags
	root.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/rwsim/config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-dir", "", "write JSON logs to <dir>/rwsim.log instead of stderr")
	_ = viper.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.dir", root.PersistentFlags().Lookup("log-dir"))

	root.AddCommand(newRunCmd(), newGenerateCmd(), newPoliciesCmd())
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("RWSIM")
	// e.g., RWSIM_SIMULATION_POLICY for simulation.policy
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
