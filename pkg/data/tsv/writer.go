package tsv

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/c9s/barfeed/pkg/types"
)

var BarHeader = []string{"symbol", "date", "open", "high", "low", "close", "adj_close", "volume"}

type Writer struct {
	file io.WriteCloser

	*csv.Writer
}

func NewWriterFile(filename string) (*Writer, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return NewWriter(f), nil
}

func AppendWriterFile(filename string) (*Writer, error) {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}

	return NewWriter(f), nil
}

func NewWriter(file io.WriteCloser) *Writer {
	tsv := csv.NewWriter(file)
	tsv.Comma = '\t'
	return &Writer{
		Writer: tsv,
		file:   file,
	}
}

func (w *Writer) WriteBarHeader() error {
	return w.Write(BarHeader)
}

// WriteBar writes one revealed bar as a row in the BarHeader layout.
func (w *Writer) WriteBar(symbol types.Symbol, bar types.Bar) error {
	return w.Write([]string{
		symbol.String(),
		bar.Date.String(),
		formatFloat(bar.Open),
		formatFloat(bar.High),
		formatFloat(bar.Low),
		formatFloat(bar.Close),
		formatFloat(bar.AdjClose),
		strconv.FormatUint(bar.Volume, 10),
	})
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (w *Writer) Close() error {
	w.Writer.Flush()
	return w.file.Close()
}
