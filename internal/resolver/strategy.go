// Package resolver turns loose textual descriptions into page elements.
//
// A resolver holds a fixed, ordered list of strategies. Resolution walks the
// list and stops at the first strategy that yields at least one candidate;
// that candidate is acted upon and later strategies are never consulted.
// A strategy whose query fails is treated as a miss. Nothing is cached
// between calls.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nbenliogludev/webmancer/internal/page"
)

// ErrNoMatch is reported when every strategy missed.
var ErrNoMatch = errors.New("no strategy matched")

// MatchKind describes how a strategy compares the description.
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchPartial
	MatchAttribute
	MatchHeuristic
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPartial:
		return "partial"
	case MatchAttribute:
		return "attribute"
	case MatchHeuristic:
		return "heuristic"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// Strategy is one named unit of matching logic.
type Strategy interface {
	Name() string
	Kind() MatchKind
	// Find returns the candidate elements in priority order. An empty
	// result is a miss.
	Find(ctx context.Context, p page.Page, description string) ([]page.Element, error)
}

// Candidate is a located element together with the strategy that found it.
type Candidate struct {
	Element  page.Element
	Strategy string
}

// Result is the outcome of one resolve call.
type Result struct {
	Success  bool
	Strategy string
	Err      string
}

type outcome int

const (
	outcomeMiss outcome = iota
	outcomeAbort
)

// classify maps a strategy failure onto the cascade. Query and act faults
// count as misses; only cancellation of the caller's context stops it.
func classify(err error) outcome {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return outcomeAbort
	}
	return outcomeMiss
}

type cascade struct {
	verb       string
	strategies []Strategy
	logger     *zap.Logger
}

// run folds over the strategies and applies act to the first candidate of
// the first strategy that matches.
func (c *cascade) run(ctx context.Context, p page.Page, description string, act func(page.Element) error) Result {
	for i, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return c.fail(description, err)
		}

		log := c.logger.With(
			zap.Int("strategy_index", i+1),
			zap.String("strategy", s.Name()),
			zap.Stringer("match", s.Kind()),
		)

		candidate, err := c.attempt(ctx, s, p, description)
		if err != nil {
			log.Debug("Strategy fault", zap.Error(err))
			if classify(err) == outcomeAbort {
				return c.fail(description, err)
			}
			continue
		}
		if candidate == nil {
			continue
		}

		if err := act(candidate.Element); err != nil {
			log.Debug("Strategy fault while acting on candidate", zap.Error(err))
			if classify(err) == outcomeAbort {
				return c.fail(description, err)
			}
			continue
		}

		log.Info(fmt.Sprintf("%s succeeded", c.verb), zap.String("description", description))
		return Result{Success: true, Strategy: candidate.Strategy}
	}

	return c.fail(description, ErrNoMatch)
}

func (c *cascade) attempt(ctx context.Context, s Strategy, p page.Page, description string) (*Candidate, error) {
	elements, err := s.Find(ctx, p, description)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, nil
	}
	return &Candidate{Element: elements[0], Strategy: s.Name()}, nil
}

func (c *cascade) fail(description string, err error) Result {
	msg := fmt.Sprintf("%s: could not resolve %q: %v", c.verb, description, err)
	c.logger.Warn("Resolution failed", zap.String("description", description), zap.Error(err))
	return Result{Err: msg}
}

// roleStrategy queries the accessibility tree by role and name.
type roleStrategy struct {
	name  string
	role  page.Role
	exact bool
}

func (s roleStrategy) Name() string { return s.name }

func (s roleStrategy) Kind() MatchKind {
	if s.exact {
		return MatchExact
	}
	return MatchPartial
}

func (s roleStrategy) Find(_ context.Context, p page.Page, description string) ([]page.Element, error) {
	return p.ByRole(s.role, description, s.exact)
}

// selectorStrategy interpolates the escaped description into a selector.
type selectorStrategy struct {
	name  string
	kind  MatchKind
	build func(escaped string) string
}

func (s selectorStrategy) Name() string    { return s.name }
func (s selectorStrategy) Kind() MatchKind { return s.kind }

func (s selectorStrategy) Find(_ context.Context, p page.Page, description string) ([]page.Element, error) {
	return p.Query(s.build(Escape(description)))
}

// xpathStrategy interpolates the description as an XPath string literal.
type xpathStrategy struct {
	name  string
	kind  MatchKind
	build func(literal string) string
}

func (s xpathStrategy) Name() string    { return s.name }
func (s xpathStrategy) Kind() MatchKind { return s.kind }

func (s xpathStrategy) Find(_ context.Context, p page.Page, description string) ([]page.Element, error) {
	return p.Query(s.build(XPathLiteral(description)))
}

// locatorStrategy wraps one of the Page.By* lookups.
type locatorStrategy struct {
	name   string
	kind   MatchKind
	lookup func(p page.Page, description string) ([]page.Element, error)
}

func (s locatorStrategy) Name() string    { return s.name }
func (s locatorStrategy) Kind() MatchKind { return s.kind }

func (s locatorStrategy) Find(_ context.Context, p page.Page, description string) ([]page.Element, error) {
	return s.lookup(p, description)
}
