package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultDailyBudget is the number of completions allowed per calendar day
// when no budget is configured.
const DefaultDailyBudget = 100

// ErrBudgetExhausted is returned once the day's completion budget is used
// up. Callers should fall back to local-only answers until midnight.
var ErrBudgetExhausted = fmt.Errorf("daily completion budget exhausted")

// BudgetedProvider wraps a Provider with a per-day call cap. The counter
// resets when the calendar day changes (local time).
type BudgetedProvider struct {
	provider Provider
	limit    int

	mu    sync.Mutex
	day   string
	calls int
	now   func() time.Time
}

// NewBudgetedProvider wraps provider with a daily call limit. limit <= 0
// selects the default.
func NewBudgetedProvider(provider Provider, limit int) *BudgetedProvider {
	if limit <= 0 {
		limit = DefaultDailyBudget
	}
	return &BudgetedProvider{
		provider: provider,
		limit:    limit,
		now:      time.Now,
	}
}

func (b *BudgetedProvider) Name() string {
	return b.provider.Name()
}

// Remaining reports how many calls are left today.
func (b *BudgetedProvider) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollover()
	return b.limit - b.calls
}

func (b *BudgetedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	b.mu.Lock()
	b.rollover()
	if b.calls >= b.limit {
		b.mu.Unlock()
		return nil, ErrBudgetExhausted
	}
	b.calls++
	b.mu.Unlock()

	resp, err := b.provider.Complete(ctx, req)
	if err != nil {
		// A failed call should not burn budget.
		b.mu.Lock()
		if b.day == b.now().Format("2006-01-02") && b.calls > 0 {
			b.calls--
		}
		b.mu.Unlock()
		return nil, err
	}
	return resp, nil
}

// rollover resets the counter on day change. Caller must hold b.mu.
func (b *BudgetedProvider) rollover() {
	today := b.now().Format("2006-01-02")
	if b.day != today {
		b.day = today
		b.calls = 0
	}
}
