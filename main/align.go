package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gromgull/model1/core/config"
	"github.com/gromgull/model1/session"
)

func align(cmd *cobra.Command) error {
	lc, err := config.InitLocalConfig(cmd)
	if err != nil {
		return err
	}
	applyFlags(lc, cmd)
	if err := lc.Validate(); err != nil {
		return err
	}

	return session.Align(lc, os.Stdout)
}

func alignCMD() *cobra.Command {
	alignCmd := &cobra.Command{
		Use:   "align",
		Short: "decode best alignments",
		Long:  "print the most probable word alignment for each sentence pair under a trained model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return align(cmd)
		},
	}
	flagList := []string{
		"config",
		"source",
		"target",
		"model",
	}
	attachFlags(alignCmd, flagList)
	return alignCmd
}
