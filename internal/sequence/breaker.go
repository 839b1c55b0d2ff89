package sequence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/taoyao-code/sphero-wire/internal/protocol/sphero"
)

// ErrBreakerOpen 序列号来源连续失败，熔断期内直接拒绝
var ErrBreakerOpen = errors.New("sequence source circuit open")

// State 熔断器状态
type State int

const (
	StateClosed   State = iota // 正常分配
	StateOpen                  // 熔断，拒绝分配
	StateHalfOpen              // 放行一次试探
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker 给共享序列号来源（Redis）加熔断，
// 避免 Redis 不可用时每个编码请求都等到超时
type Breaker struct {
	next sphero.Sequencer

	mu        sync.Mutex
	state     State
	failures  int
	openedAt  time.Time
	probing   bool
	trips     int64
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	onStateChange func(from, to State)
}

// NewBreaker threshold 次连续失败后熔断，cooldown 后放行一次试探
func NewBreaker(next sphero.Sequencer, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 5 * time.Second
	}
	return &Breaker{next: next, threshold: threshold, cooldown: cooldown, now: time.Now}
}

// OnStateChange 设置状态变化回调（同步调用，不得阻塞）
func (b *Breaker) OnStateChange(fn func(from, to State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onStateChange = fn
}

// Next 实现 sphero.Sequencer
func (b *Breaker) Next(ctx context.Context) (uint8, error) {
	if err := b.before(); err != nil {
		return 0, err
	}
	seq, err := b.next.Next(ctx)
	b.after(err)
	return seq, err
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return fmt.Errorf("%w (retry in %s)", ErrBreakerOpen, b.cooldown-b.now().Sub(b.openedAt))
		}
		b.transition(StateHalfOpen)
		b.probing = true
		return nil
	case StateHalfOpen:
		// 同一时刻只放行一个试探
		if b.probing {
			return ErrBreakerOpen
		}
		b.probing = true
		return nil
	default:
		return nil
	}
}

func (b *Breaker) after(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	if err == nil {
		b.failures = 0
		b.transition(StateClosed)
		return
	}
	// 调用方取消不算来源故障
	if errors.Is(err, context.Canceled) {
		return
	}

	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.threshold {
		b.openedAt = b.now()
		if b.state != StateOpen {
			b.trips++
		}
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	if b.onStateChange != nil {
		b.onStateChange(from, to)
	}
}

// State 当前状态
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Trips 累计熔断次数
func (b *Breaker) Trips() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trips
}
