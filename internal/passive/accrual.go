// Package passive computes offline earnings accrued between claims.
//
// Accrual is lazy: it is computed on claim from the elapsed wall-clock time
// since the last claim, never by a background ticker. The caller must persist
// the new claim timestamp atomically with the payout, so re-invoking after a
// successful claim yields nothing to claim.
package passive

import "time"

// Policy bounds an accrual run.
type Policy struct {
	// RatePerHour is the currency earned per full offline hour.
	RatePerHour int64
	// MaxHours caps countable offline hours to prevent unbounded farming.
	MaxHours int
	// GraceHours is the offline span beyond which the neglect penalty kicks in.
	GraceHours int
	// BasePenalty is the XP lost per hour past the grace span.
	BasePenalty int64
}

// Result is the outcome of one accrual computation.
type Result struct {
	Earned         int64
	HoursCounted   int
	ElapsedHours   int
	XPPenalty      int64
	PenaltyApplied bool
}

// Accrue computes offline earnings and the neglect penalty for the span
// between lastClaim and now. currentXP floors the penalty so XP never goes
// negative. Pure function; persisting the result is the caller's job.
func Accrue(policy Policy, lastClaim, now time.Time, currentXP int64) Result {
	var res Result
	if !now.After(lastClaim) {
		return res
	}

	res.ElapsedHours = int(now.Sub(lastClaim).Hours())

	res.HoursCounted = res.ElapsedHours
	if policy.MaxHours > 0 && res.HoursCounted > policy.MaxHours {
		res.HoursCounted = policy.MaxHours
	}

	res.Earned = policy.RatePerHour * int64(res.HoursCounted)

	if policy.BasePenalty > 0 && res.ElapsedHours > policy.GraceHours {
		res.XPPenalty = policy.BasePenalty * int64(res.ElapsedHours-policy.GraceHours)
		if res.XPPenalty > currentXP {
			res.XPPenalty = currentXP
		}
		res.PenaltyApplied = res.XPPenalty > 0
	}

	return res
}
