package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrInvalidPolicy политика повторов заполнена некорректно
var ErrInvalidPolicy = errors.New("retry: invalid policy")

// Policy ограниченная политика повторов с экспоненциальной задержкой.
// Применяется только на границе транспорта (подключение к БД и т.п.),
// бизнес-логика сама ничего не повторяет.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultPolicy 5 попыток, 200ms, x2
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2,
	}
}

// Validate проверяет политику
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return errors.Join(ErrInvalidPolicy, errors.New("max attempts must be at least 1"))
	}
	if p.BaseDelay < 0 || p.MaxDelay < 0 {
		return errors.Join(ErrInvalidPolicy, errors.New("delays must not be negative"))
	}
	if p.Multiplier < 1 {
		return errors.Join(ErrInvalidPolicy, errors.New("multiplier must be at least 1"))
	}
	return nil
}

// Permanent помечает ошибку как неповторяемую
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do выполняет fn, повторяя при ошибке согласно политике.
// Возвращает последнюю ошибку fn, если попытки исчерпаны,
// или ошибку контекста, если он отменен во время ожидания.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoValue как Do, но возвращает результат fn
func DoValue[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := p.Validate(); err != nil {
		return zero, err
	}

	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.BaseDelay,
		RandomizationFactor: 0,
		Multiplier:          p.Multiplier,
		MaxInterval:         p.maxDelay(),
	}
	b.Reset()

	return backoff.Retry(ctx, func() (T, error) {
		return fn(ctx)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
	)
}

// Delays возвращает задержки перед каждой повторной попыткой (для логов и тестов)
func (p Policy) Delays() []time.Duration {
	if p.MaxAttempts < 2 {
		return nil
	}
	delays := make([]time.Duration, 0, p.MaxAttempts-1)
	delay := p.BaseDelay
	for i := 1; i < p.MaxAttempts; i++ {
		if delay > p.maxDelay() {
			delay = p.maxDelay()
		}
		delays = append(delays, delay)
		delay = time.Duration(float64(delay) * p.Multiplier)
	}
	return delays
}

func (p Policy) maxDelay() time.Duration {
	if p.MaxDelay > 0 {
		return p.MaxDelay
	}
	return time.Duration(float64(p.BaseDelay) * float64(p.MaxAttempts) * p.Multiplier)
}
