package domain

import "github.com/shopspring/decimal"

// ApprovalPolicy decides whether a new charge is approved.
type ApprovalPolicy interface {
	Classify(amount decimal.Decimal) TransactionStatus
}

// DefaultApprovalCeiling is the largest amount CeilingPolicy approves.
var DefaultApprovalCeiling = decimal.NewFromInt(2_000_000)

// CeilingPolicy approves amounts at or below Ceiling and declines the rest.
// It is a placeholder until a real risk engine is plugged in.
type CeilingPolicy struct {
	Ceiling decimal.Decimal
}

// NewCeilingPolicy returns a CeilingPolicy, falling back to DefaultApprovalCeiling
// when ceiling is not positive.
func NewCeilingPolicy(ceiling decimal.Decimal) CeilingPolicy {
	if !ceiling.IsPositive() {
		ceiling = DefaultApprovalCeiling
	}
	return CeilingPolicy{Ceiling: ceiling}
}

func (p CeilingPolicy) Classify(amount decimal.Decimal) TransactionStatus {
	if amount.LessThanOrEqual(p.Ceiling) {
		return StatusApproved
	}
	return StatusDeclined
}
