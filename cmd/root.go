// This file is part of vzprune
//
// Copyright (C) 2026  The vzprune Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>

package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultKeep    = 3
	defaultPattern = "*" + defaultArchiveSuffix

	defaultArchiveSuffix = ".vma.zst"
	defaultLogSuffix     = ".log"
	defaultNotesSuffix   = ".notes"
)

var (
	cfgFile string
	debug   bool
	logger  *zap.Logger

	// appFs is swapped for an in-memory filesystem in tests.
	appFs afero.Fs = afero.NewOsFs()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vzprune",
	Short: "Retention tool for Proxmox VE vzdump backup archives.",
	Long: `vzprune keeps the N most recent vzdump backup archives per guest
and removes older ones together with their log and notes files.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			fmt.Println(err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vzprune.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging (default is false)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	newLogger := zap.NewProduction
	if debug {
		newLogger = zap.NewDevelopment
	}
	var err error
	if logger, err = newLogger(); err != nil {
		panic(err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			logger.Error(err.Error())
			os.Exit(1)
		}

		// Search config in home directory with name ".vzprune" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".vzprune")
	}

	// Defaults, overridable from the config file and environment.
	viper.SetDefault("keep", defaultKeep)
	viper.SetDefault("pattern", defaultPattern)
	viper.SetDefault("archive_suffix", defaultArchiveSuffix)
	viper.SetDefault("log_suffix", defaultLogSuffix)
	viper.SetDefault("notes_suffix", defaultNotesSuffix)

	viper.SetEnvPrefix("vzprune")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		logger.Info("Using config file: " + viper.ConfigFileUsed())
	}
}
