package replay

import (
	"context"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"

	"github.com/c9s/barfeed/pkg/data/tsv"
	"github.com/c9s/barfeed/pkg/metrics"
	"github.com/c9s/barfeed/pkg/strategy"
	"github.com/c9s/barfeed/pkg/types"
)

type instanceIDProvider interface {
	InstanceID() string
}

// Runner replays the bars of a DataHandler through the strategies.
type Runner struct {
	Handler    *DataHandler
	Strategies []strategy.Strategy

	// StartDate and EndDate limit the replayed range when set
	StartDate types.BarDate
	EndDate   types.BarDate

	// Dumper receives every revealed bar when set
	Dumper *tsv.Writer

	EnableMetrics bool
	Progress      bool
}

func NewRunner(handler *DataHandler, strategies ...strategy.Strategy) *Runner {
	return &Runner{
		Handler:    handler,
		Strategies: strategies,
	}
}

// Warmup initializes and fills the indicators of every strategy, then aligns
// the indicators and the raw feeds to the returned warm-up date.
func (r *Runner) Warmup() (types.BarDate, error) {
	warmup := types.MaxBarDate(r.Handler.StartDate(), r.StartDate)

	for _, s := range r.Strategies {
		if initializer, ok := s.(strategy.Initializer); ok {
			if err := initializer.Initialize(); err != nil {
				return types.BarDate{}, errors.Wrapf(err, "strategy %s initialize error", s.ID())
			}
		}

		if len(s.Indicators()) == 0 {
			continue
		}

		first, err := strategy.FillIndicators(s, r.Handler)
		if err != nil {
			return types.BarDate{}, err
		}

		handlerLogger.Infof("strategy %s indicators are valid from %s", s.ID(), first)
		warmup = types.MaxBarDate(warmup, first)
	}

	for _, s := range r.Strategies {
		if err := strategy.TruncateIndicators(s, warmup); err != nil {
			return types.BarDate{}, err
		}
	}

	if err := r.Handler.Truncate(warmup); err != nil {
		return types.BarDate{}, err
	}

	return warmup, nil
}

// Run warms the strategies up and replays until the context is cancelled,
// a feed or an indicator is exhausted or the end date is passed.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	warmup, err := r.Warmup()
	if err != nil {
		return nil, err
	}

	summary := &Summary{WarmupDate: warmup}
	symbols := r.Handler.Symbols()

	var bar *pb.ProgressBar
	if r.Progress {
		if remaining, ok := r.Handler.Remaining(); ok {
			bar = pb.Full.Start(remaining)
			bar.SetTemplateString(`{{ string . "date" | green}} | {{counters . }} {{bar . }} {{percent . }} {{etime . }}`)
			defer bar.Finish()
		}
	}

	if r.Dumper != nil {
		if err := r.Dumper.WriteBarHeader(); err != nil {
			return nil, err
		}
	}

	handlerLogger.Infof("replaying %v from %s", symbols, warmup)

replayLoop:
	for {
		select {
		case <-ctx.Done():
			handlerLogger.Warnf("replay interrupted: %v", ctx.Err())
			summary.Interrupted = true
			break replayLoop
		default:
		}

		if !r.Handler.Update() {
			break
		}

		date := r.revealedDate(symbols)
		if !r.EndDate.IsZero() && date.After(r.EndDate) {
			handlerLogger.Infof("passed the end date %s", r.EndDate)
			break
		}

		for _, s := range r.Strategies {
			if !strategy.UpdateIndicators(s) {
				handlerLogger.Infof("strategy %s indicators are exhausted", s.ID())
				break replayLoop
			}
		}

		for _, s := range r.Strategies {
			s.OnBar(r.Handler)
		}

		if err := r.record(summary, symbols); err != nil {
			return summary, err
		}

		summary.Steps++
		if summary.FirstDate.IsZero() {
			summary.FirstDate = date
		}
		summary.LastDate = date

		if bar != nil {
			bar.Set("date", date.String())
			bar.Increment()
		}
	}

	for _, s := range r.Strategies {
		summary.Strategies = append(summary.Strategies, r.summarizeStrategy(s))
	}

	handlerLogger.Infof("replayed %d steps, %s ~ %s", summary.Steps, summary.FirstDate, summary.LastDate)
	return summary, nil
}

func (r *Runner) revealedDate(symbols []types.Symbol) (date types.BarDate) {
	for _, symbol := range symbols {
		if b, ok := r.Handler.Bar(symbol); ok {
			date = types.MaxBarDate(date, b.Date)
		}
	}
	return date
}

func (r *Runner) record(summary *Summary, symbols []types.Symbol) error {
	if r.EnableMetrics {
		metrics.RecordStep()
	}

	for _, symbol := range symbols {
		b, ok := r.Handler.Bar(symbol)
		if !ok {
			continue
		}

		summary.addBar(symbol, b)

		if r.EnableMetrics {
			metrics.RecordBar(symbol, b)
		}

		if r.Dumper != nil {
			if err := r.Dumper.WriteBar(symbol, b); err != nil {
				return errors.Wrapf(err, "unable to dump %s bar", symbol)
			}
		}
	}

	return nil
}

func (r *Runner) summarizeStrategy(s strategy.Strategy) StrategySummary {
	st := StrategySummary{
		ID:         s.ID(),
		Indicators: len(s.Indicators()),
	}

	if p, ok := s.(instanceIDProvider); ok {
		st.InstanceID = p.InstanceID()
	}

	if reporter, ok := s.(strategy.SignalReporter); ok {
		st.Signals = reporter.Signals()
	}

	if r.EnableMetrics {
		for signalType, n := range st.SignalCounts() {
			metrics.RecordSignals(st.ID, signalType, n)
		}
	}

	return st
}
