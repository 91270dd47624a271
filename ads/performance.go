package ads

// Performance aggregates a campaign's insight metrics over a trailing
// lookback window. Constructed fresh per run and never persisted; a zero
// Spend means the window had no delivery data at all.
type Performance struct {
	CampaignID   string
	LookbackDays int
	Spend        Cents
	Conversions  int64
	Revenue      Cents // 0 when the account reports no purchase value
}

// CPA returns cost per acquisition. ok is false when there are no
// conversions to divide by; callers must treat that as "not applicable",
// not as zero.
func (p Performance) CPA() (Cents, bool) {
	if p.Conversions <= 0 {
		return 0, false
	}
	return Cents(int64(p.Spend) / p.Conversions), true
}

// ROAS returns return on ad spend (revenue / spend). ok is false when
// spend is zero.
func (p Performance) ROAS() (float64, bool) {
	if p.Spend <= 0 {
		return 0, false
	}
	return float64(p.Revenue) / float64(p.Spend), true
}
