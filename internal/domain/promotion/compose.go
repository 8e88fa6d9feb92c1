package promotion

import (
	"sort"

	"kostadmin/internal/domain/shared/money"
)

// AppliedAction is one action's contribution to the final discount.
type AppliedAction struct {
	PromotionID PromotionID
	Type        ActionType
	DeltaIDR    money.IDR
}

// Outcome is the composed result of applying matched promotions to a base
// amount. Discount is always within [0, base].
type Outcome struct {
	Applied      []AppliedAction
	DiscountIDR  money.IDR
	RemainingIDR money.IDR
	FreeDays     int
	FreePeriods  int
}

type orderedAction struct {
	promoID       PromotionID
	promoPriority int
	ruleCap       money.IDR
	action        Action
	index         int
}

// Compose folds matched promotions into a final discount against base.
//
// If any match is exclusive, only the first exclusive in match order (the
// lowest promotion priority) contributes and all others are dropped.
// Otherwise actions from every match apply in ascending action priority
// across promotions. Percent deltas are computed on the running remaining
// balance, never the original base, so stacked percentages cannot add up
// past 100%.
func Compose(matches []Match, base money.IDR) Outcome {
	chosen := selectStack(matches)
	actions := orderActions(chosen)

	remaining := base.ClampNonNegative()
	out := Outcome{RemainingIDR: remaining}

	for _, oa := range actions {
		var delta money.IDR
		switch oa.action.Type {
		case ActionPercent:
			delta = remaining.PercentBps(oa.action.PercentBps)
			delta = delta.CapAt(oa.action.MaxDiscountIDR).CapAt(oa.ruleCap)
		case ActionFixedAmount:
			delta = oa.action.AmountIDR.CapAt(oa.action.MaxDiscountIDR).CapAt(oa.ruleCap)
			delta = delta.Min(remaining)
		case ActionFixedPrice:
			target := oa.action.FixedPriceIDR.ClampNonNegative()
			if target < remaining {
				delta = remaining - target
			}
		case ActionFreeDays:
			out.FreeDays += oa.action.NDays
		case ActionFreePeriods:
			out.FreePeriods += oa.action.NPeriods
		}
		delta = delta.Min(remaining).ClampNonNegative()
		remaining -= delta
		out.Applied = append(out.Applied, AppliedAction{
			PromotionID: oa.promoID,
			Type:        oa.action.Type,
			DeltaIDR:    delta,
		})
	}

	out.RemainingIDR = remaining
	out.DiscountIDR = (base - remaining).ClampNonNegative().Min(base.ClampNonNegative())
	return out
}

// selectStack keeps either the single winning exclusive match or all
// stackable ones. Matches arrive ordered by promotion priority, so the
// first exclusive encountered is the winner.
func selectStack(matches []Match) []Match {
	for _, m := range matches {
		if m.Promotion != nil && m.Promotion.StackMode == StackExclusive {
			return []Match{m}
		}
	}
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Promotion == nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

func orderActions(matches []Match) []orderedAction {
	var all []orderedAction
	for _, m := range matches {
		for i, a := range m.Actions {
			all = append(all, orderedAction{
				promoID:       m.Promotion.ID,
				promoPriority: m.Promotion.Priority,
				ruleCap:       m.RuleCapIDR,
				action:        a,
				index:         i,
			})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].action.Priority != all[j].action.Priority {
			return all[i].action.Priority < all[j].action.Priority
		}
		if all[i].promoPriority != all[j].promoPriority {
			return all[i].promoPriority < all[j].promoPriority
		}
		return all[i].index < all[j].index
	})
	return all
}
