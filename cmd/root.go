/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/rotblauer/transectd/names"
	"github.com/rotblauer/transectd/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var optDatadir string
var optVerbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "transectd",
	Short: "Field survey track recorder",
	Long: `Transectd records field survey walks.

It reads GPS fixes, keeps a running track, and tells you when you
get close to a point of interest you haven't checked off yet.

Subcommands:

  record   Run a recorder on fixes from stdin.
  webd     Run the HTTP daemon; devices push fixes to it.
  import   Load POIs into the store from GPX or JSON seed files.
`,
	// Uncomment the following line if your bare application
	// has an action associated with it:
	// Run: func(cmd *cobra.Command, args []string) { },
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.transectd.yaml)")
	rootCmd.PersistentFlags().StringVar(&optDatadir, "datadir", params.DatadirRoot, "root directory for state and archives")
	rootCmd.PersistentFlags().BoolVarP(&optVerbose, "verbose", "v", false, "debug logging")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".transectd" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".transectd")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// The flag wins; its default is already the conventional root.
	if !rootCmd.PersistentFlags().Changed("datadir") && viper.IsSet("datadir") {
		optDatadir = viper.GetString("datadir")
	}
	params.DatadirRoot = optDatadir

	// Device name aliases, eg. aliases: {ibex: "ibex.*|Pixel 7"}.
	if err := names.SetAliases(viper.GetStringMapString("aliases")); err != nil {
		log.Fatalln("Invalid alias pattern:", err)
	}
}

// setDefaultSlog installs the process logger. Every command's Run calls
// it first; flags are not parsed until Run, so init is too early.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	level := slog.LevelInfo
	if optVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
