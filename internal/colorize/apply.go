package colorize

import (
	"go.uber.org/zap"

	"nodecolor/internal/domain"
)

// GraphView is what a host graph must provide to be colored
type GraphView interface {
	LookupColumns() []domain.AttributeColumn
	IterateNodes() []string
	ReadAttribute(nodeID string, index int) domain.AttributeValue
	WriteColor(nodeID string, c domain.RGB) error
}

// Result summarizes one pass over a node collection
type Result struct {
	Processed int                    `json:"processed"`
	Colored   int                    `json:"colored"`
	Failures  []*MalformedColorError `json:"failures,omitempty"`
}

// Applier parses node values in one column and writes the colors back
type Applier struct {
	logger *zap.Logger
	policy Policy
}

// NewApplier creates an applier
func NewApplier(opts ...Option) *Applier {
	o := newOptions(opts)
	return &Applier{
		logger: o.logger,
		policy: o.policy,
	}
}

// Policy returns the failure policy in effect
func (a *Applier) Policy() Policy {
	return a.policy
}

type staged struct {
	nodeID string
	color  domain.RGB
}

// Apply colors every node of the view from the given column
func (a *Applier) Apply(view GraphView, column domain.AttributeColumn) Result {
	var res Result
	var pending []staged

	for _, id := range view.IterateNodes() {
		res.Processed++

		c, err := a.resolveNode(view, id, column)
		if err != nil {
			res.Failures = append(res.Failures, err)
			a.logger.Debug("malformed color value",
				zap.String("node", id),
				zap.String("raw", err.Raw),
				zap.String("reason", string(err.Reason)))
			continue
		}

		if a.policy == PolicyAtomic {
			pending = append(pending, staged{nodeID: id, color: c})
			continue
		}

		if a.write(view, id, c, column, &res) {
			res.Colored++
		}
	}

	if a.policy == PolicyAtomic {
		if len(res.Failures) > 0 {
			a.logger.Info("atomic policy: no colors written",
				zap.Int("failures", len(res.Failures)))
			return res
		}
		for _, p := range pending {
			if a.write(view, p.nodeID, p.color, column, &res) {
				res.Colored++
			}
		}
	}

	return res
}

// resolveNode reads and parses one node without touching its color
func (a *Applier) resolveNode(view GraphView, nodeID string, column domain.AttributeColumn) (domain.RGB, *MalformedColorError) {
	v := view.ReadAttribute(nodeID, column.Index)

	var err *MalformedColorError
	switch v.Kind {
	case domain.KindAbsent:
		err = malformed("", ReasonMissingValue, nil)
	case domain.KindString:
		c, perr := ParseColor(v.Str)
		if perr == nil {
			return c, nil
		}
		err = perr.(*MalformedColorError)
	default:
		err = malformed(v.String(), ReasonNotAString, nil)
	}

	err.NodeID = nodeID
	err.Column = column.DisplayName()
	return domain.RGB{}, err
}

func (a *Applier) write(view GraphView, nodeID string, c domain.RGB, column domain.AttributeColumn, res *Result) bool {
	if err := view.WriteColor(nodeID, c); err != nil {
		res.Failures = append(res.Failures, &MalformedColorError{
			NodeID: nodeID,
			Column: column.DisplayName(),
			Raw:    view.ReadAttribute(nodeID, column.Index).String(),
			Reason: ReasonWriteFailed,
			Err:    err,
		})
		a.logger.Warn("failed to write node color",
			zap.String("node", nodeID), zap.Error(err))
		return false
	}
	return true
}
