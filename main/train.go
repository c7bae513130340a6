package main

import (
	"github.com/spf13/cobra"

	"github.com/gromgull/model1/core/config"
	"github.com/gromgull/model1/session"
)

func train(cmd *cobra.Command) error {
	lc, err := config.InitLocalConfig(cmd)
	if err != nil {
		return err
	}
	applyFlags(lc, cmd)

	s := &session.Session{}
	if err := s.Init(lc); err != nil {
		return err
	}

	return s.Train()
}

func trainCMD() *cobra.Command {
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "train a translation table",
		Long:  "estimate word translation probabilities from a sentence-aligned bitext with IBM Model 1 EM",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return train(cmd)
		},
	}
	flagList := []string{
		"config",
		"source",
		"target",
		"iterations",
		"tolerance",
		"no-null",
		"top",
		"min",
		"output",
		"model",
	}
	attachFlags(trainCmd, flagList)
	return trainCmd
}
