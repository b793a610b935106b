/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
	goflag "flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "goblock",
	Short: "Hexahedral block structures fitted to a boundary representation",
	Long: `
goblock builds a hexahedral block structure around a geometric model, refines it
with sheet cuts, removes blocks and classifies every node, edge, face and block
against the points, curves, surfaces and volume of the model.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch mode := viper.GetString("profile"); mode {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		default:
			return fmt.Errorf("unknown profile mode %q, one of [cpu, mem]", mode)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	glog.Flush()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.goblock.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling mode, one of [cpu, mem]")
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))

	// glog flags (-v, -logtostderr, ...) ride along with the cobra flags
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".goblock")
	}
	viper.SetEnvPrefix("GOBLOCK")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		glog.V(1).Infof("using config file: %s", viper.ConfigFileUsed())
	}
	// glog refuses to log until the go flag set is parsed
	_ = goflag.CommandLine.Parse(nil)
}
