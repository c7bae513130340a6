package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gromgull/model1/core/config"
)

var flags *pflag.FlagSet

var (
	cfgPathFlag   string
	sourceFlag    string
	targetFlag    string
	iterFlag      int
	toleranceFlag float64
	noNullFlag    bool
	topFlag       int
	minFlag       float64
	outputFlag    string
	modelFlag     string
)

func init() {
	resetFlags()
}

// Explicitly define a method to facilitate tests
func resetFlags() {
	flags = &pflag.FlagSet{}

	flags.StringVarP(&cfgPathFlag, "config", "c", "",
		"config file path (default ./m1_config.yaml)")
	flags.StringVarP(&sourceFlag, "source", "s", "",
		"source-side corpus file, one tokenized sentence per line")
	flags.StringVarP(&targetFlag, "target", "t", "",
		"target-side corpus file, one tokenized sentence per line")
	flags.IntVarP(&iterFlag, "iterations", "n", 5,
		"EM iteration budget")
	flags.Float64Var(&toleranceFlag, "tolerance", 0,
		"stop once the max probability change of an iteration falls below this (0 disables)")
	flags.BoolVar(&noNullFlag, "no-null", false,
		"train without the NULL alignment token")
	flags.IntVar(&topFlag, "top", 0,
		"export only the best N target words per source word (0 exports all)")
	flags.Float64Var(&minFlag, "min", 0,
		"export only entries at or above this probability")
	flags.StringVarP(&outputFlag, "output", "o", "",
		"table export file (default stdout)")
	flags.StringVarP(&modelFlag, "model", "m", "",
		"model file path (default ./m1.model)")
}

func attachFlags(cmd *cobra.Command, names []string) {
	cmdFlags := cmd.Flags()
	for _, name := range names {
		if flag := flags.Lookup(name); flag != nil {
			cmdFlags.AddFlag(flag)
		} else {
			panic(fmt.Errorf("could not find flag '%s' to attach to command '%s'", name, cmd.Name()))
		}
	}
}

// applyFlags lets changed command-line flags win over file and env values.
func applyFlags(lc *config.LocalConfig, cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("source") {
		lc.Corpus.SourcePath = sourceFlag
	}
	if f.Changed("target") {
		lc.Corpus.TargetPath = targetFlag
	}
	if f.Changed("iterations") {
		lc.Train.Iterations = iterFlag
	}
	if f.Changed("tolerance") {
		lc.Train.Tolerance = toleranceFlag
	}
	if f.Changed("no-null") {
		lc.Train.IncludeNull = !noNullFlag
	}
	if f.Changed("top") {
		lc.Export.TopN = topFlag
	}
	if f.Changed("min") {
		lc.Export.MinProb = minFlag
	}
	if f.Changed("output") {
		lc.Export.OutputPath = outputFlag
	}
	if f.Changed("model") {
		lc.ModelPath = modelFlag
	}
}

var mainCmd = &cobra.Command{Use: "m1"}

func main() {

	mainCmd.AddCommand(trainCMD())
	mainCmd.AddCommand(alignCMD())

	if mainCmd.Execute() != nil {
		os.Exit(1)
	}
}
