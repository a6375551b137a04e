package progression

// PassiveClaimRetries is how many times a passive claim recomputes after
// losing the conditional write race before surfacing the conflict.
const PassiveClaimRetries = 1
