package colorize

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Report is the outcome of a colorize run, shaped for a UI or API caller
type Report struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	Column    string                 `json:"column,omitempty"`
	Policy    Policy                 `json:"policy"`
	Processed int                    `json:"processed"`
	Colored   int                    `json:"colored"`
	Failures  []*MalformedColorError `json:"failures,omitempty"`

	// Err is ErrNoGraph or ErrNoColorColumn when the run stopped before
	// touching any node
	Err error `json:"-"`
}

// Messages returns the report message followed by one line per failure
func (r *Report) Messages() []string {
	msgs := []string{r.Message}
	for _, f := range r.Failures {
		msgs = append(msgs, f.Error())
	}
	return msgs
}

// Colorizer locates the color column and applies it to every node
type Colorizer struct {
	logger  *zap.Logger
	keyword string
	applier *Applier
}

// New creates a colorizer
func New(opts ...Option) *Colorizer {
	o := newOptions(opts)
	return &Colorizer{
		logger:  o.logger,
		keyword: o.keyword,
		applier: &Applier{logger: o.logger, policy: o.policy},
	}
}

// Keyword returns the column-name substring searched for
func (c *Colorizer) Keyword() string {
	return c.keyword
}

// Run colors the view's nodes. It never panics on bad input and never returns
// a nil report.
func (c *Colorizer) Run(view GraphView) *Report {
	report := &Report{Policy: c.applier.policy}

	if isNil(view) {
		report.Err = ErrNoGraph
		report.Message = ErrNoGraph.Error()
		c.logger.Warn("colorize aborted", zap.Error(ErrNoGraph))
		return report
	}

	c.logger.Info("looking for a node attribute column",
		zap.String("contains", c.keyword))

	column, ok := ResolveColumn(view.LookupColumns(), c.keyword)
	if !ok {
		report.Err = ErrNoColorColumn
		report.Message = ErrNoColorColumn.Error()
		c.logger.Warn("colorize aborted", zap.Error(ErrNoColorColumn))
		return report
	}
	report.Column = column.DisplayName()

	res := c.applier.Apply(view, column)
	report.Processed = res.Processed
	report.Colored = res.Colored
	report.Failures = res.Failures
	report.Success = len(res.Failures) == 0
	report.Message = summarize(report)

	c.logger.Info("colorize finished",
		zap.String("column", report.Column),
		zap.Int("processed", report.Processed),
		zap.Int("colored", report.Colored),
		zap.Int("failures", len(report.Failures)))

	return report
}

func summarize(r *Report) string {
	msg := fmt.Sprintf("colored %d of %d nodes from %q", r.Colored, r.Processed, r.Column)
	if n := len(r.Failures); n > 0 {
		msg += fmt.Sprintf("; %d malformed color values", n)
		if r.Policy == PolicyAtomic && r.Colored == 0 {
			msg += ", nothing applied"
		}
	}
	return msg
}

// isNil catches both a nil interface and a typed nil pointer
func isNil(v GraphView) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
