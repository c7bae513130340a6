package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gromgull/model1/common"
)

// LocalConfig is the resolved run configuration. Values come from
// m1_config.yaml, the M1_* environment, and finally command-line flags,
// later sources winning.
type LocalConfig struct {
	Corpus CorpusConfig
	Train  TrainConfig
	Export ExportConfig

	ModelPath string
	LogBrief  string
}

type CorpusConfig struct {
	SourcePath string
	TargetPath string
}

type TrainConfig struct {
	Iterations  int
	Tolerance   float64 // 0 disables early stopping
	IncludeNull bool
}

type ExportConfig struct {
	TopN       int // 0 keeps every supported target word
	MinProb    float64
	OutputPath string // empty means stdout
}

func setDefaults() {
	viper.SetDefault("corpus.source", "")
	viper.SetDefault("corpus.target", "")
	viper.SetDefault("train.iterations", 5)
	viper.SetDefault("train.tolerance", 0.0)
	viper.SetDefault("train.null", true)
	viper.SetDefault("export.top", 0)
	viper.SetDefault("export.min", 0.0)
	viper.SetDefault("export.output", "")
	viper.SetDefault("model.path", "./m1.model")
	viper.SetDefault("log.brief", common.LOG_MODE_DEV)
}

// InitLocalConfig resolves the configuration for cmd. The config file is
// taken from the --config flag when set, otherwise m1_config.yaml is looked
// up under M1_CFG_PATH (default "."). A missing file is fine; flags and
// environment cover everything.
func InitLocalConfig(cmd *cobra.Command) (*LocalConfig, error) {
	viper.Reset()
	viper.SetEnvPrefix("m1")
	viper.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	setDefaults()

	altPath := os.Getenv("M1_CFG_PATH")
	if altPath == "" {
		altPath = "."
	}
	flag := cmd.Flags().Lookup("config")
	if flag == nil {
		return nil, errors.New("cmd has no config flag")
	}
	cmdSetConfigFile := flag.Value.String()
	viper.AddConfigPath(altPath)
	viper.SetConfigName("m1_config")
	if cmdSetConfigFile != "" {
		viper.SetConfigFile(cmdSetConfigFile)
	}
	if err := viper.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	lc := &LocalConfig{}
	lc.Corpus.SourcePath = viper.GetString("corpus.source")
	lc.Corpus.TargetPath = viper.GetString("corpus.target")
	lc.Train.Iterations = viper.GetInt("train.iterations")
	lc.Train.Tolerance = viper.GetFloat64("train.tolerance")
	lc.Train.IncludeNull = viper.GetBool("train.null")
	lc.Export.TopN = viper.GetInt("export.top")
	lc.Export.MinProb = viper.GetFloat64("export.min")
	lc.Export.OutputPath = viper.GetString("export.output")
	lc.ModelPath = viper.GetString("model.path")
	lc.LogBrief = viper.GetString("log.brief")

	return lc, nil
}

// Validate checks what every subcommand needs before any file is touched.
func (lc *LocalConfig) Validate() error {
	if lc.Corpus.SourcePath == "" {
		return errors.New("source corpus path not set")
	}
	if lc.Corpus.TargetPath == "" {
		return errors.New("target corpus path not set")
	}
	if lc.Train.Iterations < 0 {
		return errors.Errorf("iteration count %d is negative", lc.Train.Iterations)
	}
	if lc.Train.Tolerance < 0 {
		return errors.Errorf("tolerance %g is negative", lc.Train.Tolerance)
	}
	return nil
}

// LogConfig maps the brief mode onto the shared logging config.
func (lc *LocalConfig) LogConfig() *common.LogConfig {
	c := common.DefaultLogConfig(lc.LogBrief != common.LOG_MODE_PROD)
	c.BriefMode = ""
	return c
}
