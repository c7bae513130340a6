package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/gromgull/model1/common"
	"github.com/gromgull/model1/core/config"
	"github.com/gromgull/model1/core/corpus"
	"github.com/gromgull/model1/core/event"
	"github.com/gromgull/model1/core/model"
	"github.com/gromgull/model1/core/vocab"
)

// Session wires one training or alignment run: config in, corpus loaded,
// trainer driven, artifacts written.
type Session struct {
	conf    *config.LocalConfig
	data    *corpus.Corpus
	trainer *model.Trainer
	bus     *event.Bus
	prog    *progress
	log     *common.M1Logger
}

// progress collects per-iteration events off the bus.
type progress struct {
	history []event.Iteration
}

func (p *progress) HandleTrainEvent(ev *event.Iteration) {
	p.history = append(p.history, *ev)
}

func (s *Session) Init(lc *config.LocalConfig) error {
	s.conf = lc

	common.SetLogConfig(lc.LogConfig())
	s.log = common.GetLogger(common.MODULE_SESSION)

	if err := lc.Validate(); err != nil {
		return errors.Wrap(err, "config")
	}

	data, err := corpus.LoadFiles(lc.Corpus.SourcePath, lc.Corpus.TargetPath)
	if err != nil {
		return err
	}
	s.data = data

	s.bus = event.NewBus()
	s.prog = &progress{}
	s.bus.Register(s.prog)

	s.trainer = model.NewTrainer(data, model.Options{
		MaxIterations: lc.Train.Iterations,
		Tolerance:     lc.Train.Tolerance,
		IncludeNull:   lc.Train.IncludeNull,
	})
	s.trainer.SetBus(s.bus)

	return nil
}

// Train runs EM, persists the model, and writes the table export.
func (s *Session) Train() error {
	res, err := s.trainer.Run()
	if err != nil {
		return err
	}
	if res.Converged {
		s.log.Infof("converged after %d iterations, likelihood %.6f", res.Iterations, res.LogLikelihood)
	} else {
		s.log.Infof("iteration budget spent after %d iterations, likelihood %.6f", res.Iterations, res.LogLikelihood)
	}

	m := &Model{
		Source: s.data.Source,
		Target: s.data.Target,
		Table:  s.trainer.Table(),
	}
	if err := SaveModel(s.conf.ModelPath, m); err != nil {
		return err
	}
	s.log.Infof("model written to %s", s.conf.ModelPath)

	return s.export(m)
}

// History returns the per-iteration stats observed on the bus.
func (s *Session) History() []event.Iteration {
	return s.prog.history
}

func (s *Session) export(m *Model) error {
	entries := model.Export(m.Table, m.Source, m.Target, s.conf.Export.TopN, s.conf.Export.MinProb)

	var w io.Writer = os.Stdout
	if s.conf.Export.OutputPath != "" {
		f, err := os.Create(s.conf.Export.OutputPath)
		if err != nil {
			return errors.Wrapf(err, "create export file %s", s.conf.Export.OutputPath)
		}
		defer f.Close()
		w = f
	}
	if err := model.WriteEntries(w, entries); err != nil {
		return errors.Wrap(err, "write table export")
	}

	logger := common.GetLogger(common.MODULE_EXPORT)
	logger.Infof("exported %d table entries", len(entries))
	return nil
}

// Align loads a saved model and writes Pharaoh-style index pairs ("i-j",
// source-target) for every sentence pair of the bitext, one line per pair.
// Words outside the model's vocabulary stay unaligned.
func Align(lc *config.LocalConfig, w io.Writer) error {
	m, err := LoadModel(lc.ModelPath)
	if err != nil {
		return err
	}

	sf, err := os.Open(lc.Corpus.SourcePath)
	if err != nil {
		return errors.Wrapf(err, "open source corpus %s", lc.Corpus.SourcePath)
	}
	defer sf.Close()
	tf, err := os.Open(lc.Corpus.TargetPath)
	if err != nil {
		return errors.Wrapf(err, "open target corpus %s", lc.Corpus.TargetPath)
	}
	defer tf.Close()

	bw := bufio.NewWriter(w)
	srcScan := bufio.NewScanner(sf)
	tgtScan := bufio.NewScanner(tf)
	line := 0
	for srcScan.Scan() {
		if !tgtScan.Scan() {
			return errors.Wrapf(corpus.ErrMalformed, "target stream ends at line %d", line+1)
		}
		line++

		fWords := strings.Fields(srcScan.Text())
		eWords := strings.Fields(tgtScan.Text())
		f := make([]vocab.ID, len(fWords))
		e := make([]vocab.ID, len(eWords))
		for i, wd := range fWords {
			f[i] = m.Source.Lookup(wd)
		}
		for i, wd := range eWords {
			e[i] = m.Target.Lookup(wd)
		}

		first := true
		for i, j := range m.Table.BestAlignment(f, e) {
			if j < 0 {
				continue
			}
			if !first {
				fmt.Fprint(bw, " ")
			}
			fmt.Fprintf(bw, "%d-%d", i, j)
			first = false
		}
		fmt.Fprintln(bw)
	}
	if tgtScan.Scan() {
		return errors.Wrapf(corpus.ErrMalformed, "source stream ends at line %d", line+1)
	}
	if err := srcScan.Err(); err != nil {
		return errors.Wrap(err, "read source stream")
	}
	if err := tgtScan.Err(); err != nil {
		return errors.Wrap(err, "read target stream")
	}
	return bw.Flush()
}
