package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/pkg/joincode"
)

const defaultCodeAttempts = 5

type Option func(*options)

type options struct {
	now          func() time.Time
	codeAttempts int
	newCode      func() (string, error)
}

func newOptions(opts []Option) options {
	o := options{
		now:          time.Now,
		codeAttempts: defaultCodeAttempts,
		newCode:      joincode.Generate,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithClock replaces time.Now, mostly for tests around event expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithCodeAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.codeAttempts = n
		}
	}
}

func WithCodeGenerator(fn func() (string, error)) Option {
	return func(o *options) {
		o.newCode = fn
	}
}

// allocateCode draws codes until one is free and insert accepts it.
// insert reports a lost race with domain.ErrCodeTaken.
func allocateCode(
	ctx context.Context,
	o options,
	inUse func(ctx context.Context, code string) (bool, error),
	insert func(code string) error,
) error {
	for i := 0; i < o.codeAttempts; i++ {
		code, err := o.newCode()
		if err != nil {
			return fmt.Errorf("o.newCode -> %w", err)
		}

		taken, err := inUse(ctx, code)
		if err != nil {
			return err
		}
		if taken {
			continue
		}

		err = insert(code)
		if errors.Is(err, domain.ErrCodeTaken) {
			continue
		}

		return err
	}

	return domain.ErrCodeExhausted
}
