package model

import (
	"errors"
	"fmt"
	"strings"
)

// PolicyKind selects how performance fees accrue and crystallize.
type PolicyKind string

const (
	// AccrueAndCrystallize marks a liability every period, adds it back the
	// next period and pays it only when the crystallization frequency fires.
	AccrueAndCrystallize PolicyKind = "accrue_and_crystallize"
	// ImmediateDeduction evaluates the fee only when the performance
	// frequency fires and deducts it in that same period.
	ImmediateDeduction PolicyKind = "immediate_deduction"
)

var ErrUnknownPolicy = errors.New("unknown policy")

func PolicyKinds() []PolicyKind {
	return []PolicyKind{AccrueAndCrystallize, ImmediateDeduction}
}

func ParsePolicyKind(s string) (PolicyKind, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "", string(AccrueAndCrystallize), "accrue", "add_back", "addback":
		return AccrueAndCrystallize, nil
	case string(ImmediateDeduction), "immediate":
		return ImmediateDeduction, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p *PolicyKind) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicyKind(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// HWMReference picks which NAV mark becomes the new high-water mark when a
// performance fee is paid.
type HWMReference string

const (
	// HWMPrePayout sets the HWM to the NAV before the payout is deducted.
	HWMPrePayout HWMReference = "pre_payout"
	// HWMPostPayout sets the HWM to the closing NAV after the payout.
	HWMPostPayout HWMReference = "post_payout"
)

func ParseHWMReference(s string) (HWMReference, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "", string(HWMPrePayout), "pre", "gross":
		return HWMPrePayout, nil
	case string(HWMPostPayout), "post", "net":
		return HWMPostPayout, nil
	}
	return "", fmt.Errorf("unknown hwm reference: %q", s)
}

func (h *HWMReference) UnmarshalText(text []byte) error {
	parsed, err := ParseHWMReference(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
