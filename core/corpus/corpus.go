package corpus

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/gromgull/model1/common"
	"github.com/gromgull/model1/core/vocab"
)

// ErrMalformed marks corpus validation failures: the two streams disagree
// on line count, or a line holds no tokens on one side. Nothing is trained
// from a corpus that fails validation.
var ErrMalformed = errors.New("malformed corpus")

// Pair is one aligned sentence pair. F holds source-side identities, E
// target-side identities, both in surface order. The NULL identity is never
// stored here; the trainer augments the candidate sets itself.
type Pair struct {
	F []vocab.ID
	E []vocab.ID
}

// Corpus owns the sentence pairs and the two vocabularies they were encoded
// with. Built once, read-only afterwards. Pair order follows the input
// streams so that float accumulation during training is reproducible.
type Corpus struct {
	Source *vocab.Vocab
	Target *vocab.Vocab
	Pairs  []Pair
}

// Load reads two pre-tokenized line streams in lockstep, one sentence pair
// per matching line index. Tokens are whitespace delimited; no
// normalization is applied.
func Load(source, target io.Reader) (*Corpus, error) {
	logger := common.GetLogger(common.MODULE_CORPUS)

	c := &Corpus{
		Source: vocab.New(),
		Target: vocab.New(),
	}

	srcScan := bufio.NewScanner(source)
	tgtScan := bufio.NewScanner(target)
	srcScan.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	tgtScan.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for {
		srcOK := srcScan.Scan()
		tgtOK := tgtScan.Scan()
		if srcOK != tgtOK {
			side := "target"
			if tgtOK {
				side = "source"
			}
			return nil, errors.Wrapf(ErrMalformed, "%s stream ends at line %d", side, line+1)
		}
		if !srcOK {
			break
		}
		line++

		fWords := strings.Fields(srcScan.Text())
		eWords := strings.Fields(tgtScan.Text())
		if len(fWords) == 0 {
			return nil, errors.Wrapf(ErrMalformed, "empty source sentence at line %d", line)
		}
		if len(eWords) == 0 {
			return nil, errors.Wrapf(ErrMalformed, "empty target sentence at line %d", line)
		}

		p := Pair{
			F: make([]vocab.ID, len(fWords)),
			E: make([]vocab.ID, len(eWords)),
		}
		for i, w := range fWords {
			p.F[i] = c.Source.Add(w)
		}
		for i, w := range eWords {
			p.E[i] = c.Target.Add(w)
		}
		c.Pairs = append(c.Pairs, p)
	}
	if err := srcScan.Err(); err != nil {
		return nil, errors.Wrap(err, "read source stream")
	}
	if err := tgtScan.Err(); err != nil {
		return nil, errors.Wrap(err, "read target stream")
	}
	if len(c.Pairs) == 0 {
		return nil, errors.Wrap(ErrMalformed, "corpus holds no sentence pairs")
	}

	logger.Infof("loaded %d sentence pairs", len(c.Pairs))
	logger.Infof("source vocabulary %d, target vocabulary %d", c.Source.Size(), c.Target.Size())

	return c, nil
}

// LoadFiles is Load over two paths.
func LoadFiles(sourcePath, targetPath string) (*Corpus, error) {
	sf, err := os.Open(sourcePath)
	if err != nil {
		return nil, errors.Wrapf(err, "open source corpus %s", sourcePath)
	}
	defer sf.Close()

	tf, err := os.Open(targetPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open target corpus %s", targetPath)
	}
	defer tf.Close()

	return Load(sf, tf)
}
