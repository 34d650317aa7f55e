package loader

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/c9s/barfeed/pkg/types"
)

var (
	// ErrNotEnoughColumns is returned when the CSV record does not have enough columns.
	ErrNotEnoughColumns = errors.New("not enough columns")

	// ErrInvalidDateFormat is returned when the date column is not in the 2006-01-02 format.
	ErrInvalidDateFormat = errors.New("cannot parse date string")

	// ErrInvalidPriceFormat is returned when a price column is not a valid decimal.
	ErrInvalidPriceFormat = errors.New("OHLC prices must be in valid decimal format")

	// ErrInvalidVolumeFormat is returned when the volume column is not a valid integer.
	ErrInvalidVolumeFormat = errors.New("volume must be in valid integer format")
)

// CSVBarDecoder decodes one CSV record into a bar.
type CSVBarDecoder func(record []string) (types.Bar, error)

// YahooCSVBarDecoder decodes the daily history layout:
//
//	Date,Open,High,Low,Close,Adj Close,Volume
func YahooCSVBarDecoder(record []string) (types.Bar, error) {
	var bar types.Bar

	if len(record) < 7 {
		return bar, ErrNotEnoughColumns
	}

	date, err := types.ParseBarDate(strings.TrimSpace(record[0]))
	if err != nil {
		return bar, ErrInvalidDateFormat
	}

	var prices [5]float64
	for i := range prices {
		prices[i], err = strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return bar, ErrInvalidPriceFormat
		}
	}

	volume, err := parseVolume(strings.TrimSpace(record[6]))
	if err != nil {
		return bar, ErrInvalidVolumeFormat
	}

	return types.Bar{
		Date:     date,
		Open:     prices[0],
		High:     prices[1],
		Low:      prices[2],
		Close:    prices[3],
		AdjClose: prices[4],
		Volume:   volume,
	}, nil
}

// parseVolume accepts integers and integral decimals like "1200.0".
func parseVolume(s string) (uint64, error) {
	if v, err := strconv.ParseUint(s, 10, 64); err == nil {
		return v, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != float64(uint64(f)) {
		return 0, ErrInvalidVolumeFormat
	}

	return uint64(f), nil
}

// CSVBarReader reads bars from CSV data, the first record is a header.
type CSVBarReader struct {
	csv     *csv.Reader
	decoder CSVBarDecoder
	line    int
}

func NewCSVBarReader(r io.Reader) *CSVBarReader {
	return NewCSVBarReaderWithDecoder(r, YahooCSVBarDecoder)
}

func NewCSVBarReaderWithDecoder(r io.Reader, decoder CSVBarDecoder) *CSVBarReader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	return &CSVBarReader{
		csv:     reader,
		decoder: decoder,
	}
}

// Read reads the next bar, the header record is skipped.
func (r *CSVBarReader) Read() (types.Bar, error) {
	if r.line == 0 {
		r.line++
		if _, err := r.csv.Read(); err != nil {
			return types.Bar{}, err
		}
	}

	rec, err := r.csv.Read()
	if err != nil {
		return types.Bar{}, err
	}

	r.line++
	bar, err := r.decoder(rec)
	if err != nil {
		return bar, errors.Wrapf(err, "line %d", r.line)
	}

	return bar, nil
}

// ReadAll reads all the remaining bars.
func (r *CSVBarReader) ReadAll() ([]types.Bar, error) {
	var bars []types.Bar
	for {
		bar, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

var _ DataLoader = (*CSVLoader)(nil)

// CSVLoader loads <Dir>/<SYMBOL>.csv files.
type CSVLoader struct {
	Dir     string
	Decoder CSVBarDecoder
}

func NewCSVLoader(dir string) *CSVLoader {
	return &CSVLoader{Dir: dir, Decoder: YahooCSVBarDecoder}
}

func (l *CSVLoader) CacheKey() string {
	dir, err := filepath.Abs(l.Dir)
	if err != nil {
		dir = l.Dir
	}

	return "csv:" + dir
}

func (l *CSVLoader) Path(symbol types.Symbol) string {
	return filepath.Join(l.Dir, symbol.String()+".csv")
}

func (l *CSVLoader) Load(_ context.Context, symbol types.Symbol) ([]types.Bar, error) {
	path := l.Path(symbol)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(types.ErrSymbolNotFound, "csv loader: %s", path)
		}
		return nil, err
	}

	//nolint:errcheck // read only
	defer file.Close()

	decoder := l.Decoder
	if decoder == nil {
		decoder = YahooCSVBarDecoder
	}

	bars, err := NewCSVBarReaderWithDecoder(file, decoder).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "csv loader: %s", path)
	}

	log.Debugf("loaded %d %s bars from %s", len(bars), symbol, path)
	return bars, nil
}
