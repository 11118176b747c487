// Package corenlp writes cross-validation folds in the plain-text format used to
// train and evaluate a Stanford CoreNLP sentiment model. Ratings map to the
// CoreNLP scale as -1→1, 0→2, 1→3.
package corenlp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"github.com/mwiater/senticv/internal/dataset"
	"github.com/mwiater/senticv/internal/folds"
	"github.com/mwiater/senticv/internal/logging"
)

// Score maps a dataset rating to the CoreNLP sentiment scale.
func Score(rating int) int {
	switch rating {
	case -1:
		return 1
	case 0:
		return 2
	default:
		return 3
	}
}

// Exporter splits training texts into sentences and writes fold files.
type Exporter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewExporter loads the English sentence model.
func NewExporter() (*Exporter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load sentence tokenizer: %w", err)
	}
	return &Exporter{tokenizer: tokenizer}, nil
}

// Sentences splits text into trimmed, non-empty sentences.
func (e *Exporter) Sentences(text string) []string {
	var out []string
	for _, s := range e.tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// WriteTrain writes one "<score>\t<sentence>" line per sentence of each record,
// each followed by a blank line.
func (e *Exporter) WriteTrain(w io.Writer, ds dataset.Dataset, indices []int) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("\n")
	for _, i := range indices {
		score := Score(ds[i].Rating)
		for _, sentence := range e.Sentences(ds[i].Text) {
			fmt.Fprintf(bw, "%d\t%s\n\n", score, sentence)
		}
	}
	return bw.Flush()
}

// WriteTest writes each record as "<score>\n<text>\n\n" with the text untouched.
func (e *Exporter) WriteTest(w io.Writer, ds dataset.Dataset, indices []int) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("\n")
	for _, i := range indices {
		fmt.Fprintf(bw, "%d\n%s\n\n", Score(ds[i].Rating), ds[i].Text)
	}
	return bw.Flush()
}

// Export partitions ds into k folds and writes train_set<i>.txt and
// test_set<i>.txt under dir. It returns the written paths.
func (e *Exporter) Export(dir string, ds dataset.Dataset, k int) ([]string, error) {
	plan, err := folds.Partition(len(ds), k)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for _, fold := range plan {
		trainPath := filepath.Join(dir, fmt.Sprintf("train_set%d.txt", fold.Index))
		if err := writeFile(trainPath, func(w io.Writer) error { return e.WriteTrain(w, ds, fold.TrainIndices) }); err != nil {
			return written, err
		}
		testPath := filepath.Join(dir, fmt.Sprintf("test_set%d.txt", fold.Index))
		if err := writeFile(testPath, func(w io.Writer) error { return e.WriteTest(w, ds, fold.TestIndices) }); err != nil {
			return written, err
		}
		written = append(written, trainPath, testPath)
		logging.LogDebug("exported fold %d to %s", fold.Index, dir)
	}
	return written, nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
