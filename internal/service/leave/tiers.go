package leave

import (
	"sort"

	"github.com/sahl-hr/attendance-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// tiersFromRules materializes balance tiers from a leave type's tier
// rules, ordered by tier number.
func tiersFromRules(balanceID string, rules []leave.TierRule) ([]leave.LeaveBalanceTier, error) {
	if len(rules) == 0 {
		return nil, leave.ErrBadTierConfig
	}
	sorted := make([]leave.TierRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TierNumber < sorted[j].TierNumber })

	tiers := make([]leave.LeaveBalanceTier, 0, len(sorted))
	for i, rule := range sorted {
		if rule.TierNumber != i+1 || !rule.DaysAllowed.IsPositive() {
			return nil, leave.ErrBadTierConfig
		}
		tiers = append(tiers, leave.LeaveBalanceTier{
			BalanceID:     balanceID,
			TierNumber:    rule.TierNumber,
			TierName:      rule.TierName,
			DaysAllowed:   rule.DaysAllowed,
			PayPercentage: rule.PayPercentage,
		})
	}
	return tiers, nil
}

// allocateTier picks the tier a request consumes: the first tier with
// remaining days. The whole request must fit inside that tier; requests
// straddling a boundary are rejected so pay percentage stays uniform
// across the leave.
func allocateTier(tiers []leave.LeaveBalanceTier, duration decimal.Decimal) (*leave.LeaveBalanceTier, error) {
	sorted := make([]leave.LeaveBalanceTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TierNumber < sorted[j].TierNumber })

	for idx := range sorted {
		remaining := sorted[idx].Remaining()
		if !remaining.IsPositive() {
			continue
		}
		if duration.GreaterThan(remaining) {
			return nil, leave.ErrTierStraddle
		}
		return &sorted[idx], nil
	}
	return nil, leave.ErrTiersExhausted
}

// releaseTiers credits a cancelled duration back, newest tier first, so
// the credit unwinds consumption in reverse order.
func releaseTiers(tiers []leave.LeaveBalanceTier, duration decimal.Decimal) []leave.LeaveBalanceTier {
	sorted := make([]leave.LeaveBalanceTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TierNumber > sorted[j].TierNumber })

	var changed []leave.LeaveBalanceTier
	for idx := range sorted {
		if !duration.IsPositive() {
			break
		}
		used := sorted[idx].DaysUsed
		if !used.IsPositive() {
			continue
		}
		credit := decimal.Min(used, duration)
		sorted[idx].DaysUsed = used.Sub(credit)
		duration = duration.Sub(credit)
		changed = append(changed, sorted[idx])
	}
	return changed
}
