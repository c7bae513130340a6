package session

import (
	"encoding/gob"
	"os"

	"github.com/pkg/errors"

	"github.com/gromgull/model1/core/model"
	"github.com/gromgull/model1/core/vocab"
)

// Model is the persisted training artifact: both vocabularies and the
// trained table, enough to export or align in a later invocation.
type Model struct {
	Source *vocab.Vocab
	Target *vocab.Vocab
	Table  *model.TTable
}

func SaveModel(path string, m *Model) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create model file %s", path)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(m); err != nil {
		return errors.Wrapf(err, "encode model to %s", path)
	}
	return nil
}

func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open model file %s", path)
	}
	defer f.Close()

	m := &Model{}
	if err := gob.NewDecoder(f).Decode(m); err != nil {
		return nil, errors.Wrapf(err, "decode model from %s", path)
	}
	return m, nil
}
