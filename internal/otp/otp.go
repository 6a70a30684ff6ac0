// Package otp implements the verification-code boundary: send stores a
// freshly generated code with a TTL, verify compares and consumes it.
// Wrong, expired, or replayed codes fail.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
)

const codeLength = 4

var (
	ErrInvalidCode = errors.New("otp code is invalid")
	ErrCodeExpired = errors.New("otp code has expired or was never sent")
)

// CodeStore persists outstanding codes keyed by phone number.
type CodeStore interface {
	Set(ctx context.Context, phone, code string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

// Sender delivers a code to the patient. Real SMS delivery is out of scope;
// the default sender only logs.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

type logSender struct {
	log *zap.Logger
}

// NewLogSender returns a Sender that records the delivery instead of
// performing it.
func NewLogSender(log *zap.Logger) Sender {
	return &logSender{log: log}
}

func (s *logSender) Send(ctx context.Context, phone, code string) error {
	s.log.Info("otp code issued", zap.String("phone", phone))
	return nil
}

type Service struct {
	store  CodeStore
	sender Sender
	ttl    time.Duration
	log    *zap.Logger
}

func NewService(store CodeStore, sender Sender, ttl time.Duration, log *zap.Logger) *Service {
	return &Service{
		store:  store,
		sender: sender,
		ttl:    ttl,
		log:    log,
	}
}

// Send generates a code for the phone number, stores it with the configured
// TTL and hands it to the sender. A resend replaces any outstanding code.
func (s *Service) Send(ctx context.Context, phone string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate otp code: %w", err)
	}

	if err := s.store.Set(ctx, phone, code, s.ttl); err != nil {
		return fmt.Errorf("store otp code: %w", err)
	}

	if err := s.sender.Send(ctx, phone, code); err != nil {
		return fmt.Errorf("send otp code: %w", err)
	}

	return nil
}

// Verify checks the submitted code against the outstanding one and consumes
// it on success, so a code verifies at most once.
func (s *Service) Verify(ctx context.Context, phone, code string) error {
	stored, err := s.store.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrCodeExpired) {
			return ErrCodeExpired
		}
		return fmt.Errorf("load otp code: %w", err)
	}

	if stored != code {
		return ErrInvalidCode
	}

	if err := s.store.Delete(ctx, phone); err != nil {
		return fmt.Errorf("consume otp code: %w", err)
	}

	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeLength, n), nil
}
