package coupons

import (
	"errors"
	"time"
)

type Kind string

const (
	KindPercent Kind = "percent" // Value is a percentage of the subtotal
	KindFixed   Kind = "fixed"   // Value is an amount in centimes
)

var (
	ErrNotFound  = errors.New("coupon not found")
	ErrInactive  = errors.New("coupon is inactive")
	ErrExpired   = errors.New("coupon has expired")
	ErrExhausted = errors.New("coupon usage cap reached")
)

type Coupon struct {
	Code      string    `json:"code"`
	Kind      Kind      `json:"kind"`
	Value     int       `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	MaxUses   int       `json:"max_uses,omitempty"` // 0 = unlimited
	Used      int       `json:"used"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks whether the coupon may still be redeemed at now.
func Validate(c Coupon, now time.Time) error {
	if !c.Active {
		return ErrInactive
	}
	if !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt) {
		return ErrExpired
	}
	if c.MaxUses > 0 && c.Used >= c.MaxUses {
		return ErrExhausted
	}
	return nil
}
