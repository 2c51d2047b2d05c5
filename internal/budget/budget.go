package budget

import (
	"fmt"
	"strconv"
	"strings"
)

// Result reports what the gate measured. Enforced is false when no budget was
// configured and the text passed through unchecked.
type Result struct {
	Estimated int
	Budget    int
	Enforced  bool
}

// ExceededError means the estimate is strictly above the configured budget.
type ExceededError struct {
	Estimated int
	Budget    int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("estimated token count (~%d) exceeds budget of %d", e.Estimated, e.Budget)
}

// MalformedError means the budget input did not parse as an integer. Callers
// log it as a warning and proceed without a gate.
type MalformedError struct {
	Raw string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("invalid token budget %q", e.Raw)
}

// EstimateTokens returns a rough, conservative token estimate for text.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// Check estimates tokens for text and compares the estimate against the raw
// budget input. An empty raw value disables the gate. A value that does not
// parse returns a *MalformedError. An estimate strictly above the budget
// returns a *ExceededError; an estimate equal to the budget passes.
func Check(text, raw string) (Result, error) {
	if raw == "" {
		return Result{}, nil
	}
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Result{}, &MalformedError{Raw: raw}
	}
	res := Result{
		Estimated: EstimateTokens(text),
		Budget:    limit,
		Enforced:  true,
	}
	if res.Estimated > limit {
		return res, &ExceededError{Estimated: res.Estimated, Budget: limit}
	}
	return res, nil
}
