package engine

import "crossreg/pkg/schema"

// NameConflict records a student whose display name differs between the
// two rosters. The home value is kept.
type NameConflict struct {
	HomeID     string `json:"homeId"`
	HostID     string `json:"hostId"`
	HomeName   string `json:"homeName"`
	HostName   string `json:"hostName"`
	Resolution string `json:"resolution"` // always "home_wins"
}

// DetectConflicts lists students matched in both systems whose names
// disagree after normalization, so "DOE, JANE" and "Jane Doe" agree.
func (i *Institution) DetectConflicts() []NameConflict {
	var conflicts []NameConflict
	for _, s := range i.Students() {
		if s.HostOnly || s.HostName == "" || s.DisplayName == "" {
			continue
		}
		if schema.NormalizeName(s.DisplayName) == schema.NormalizeName(s.HostName) {
			continue
		}
		conflicts = append(conflicts, NameConflict{
			HomeID:     s.HomeID,
			HostID:     s.HostID,
			HomeName:   s.DisplayName,
			HostName:   s.HostName,
			Resolution: "home_wins",
		})
	}
	return conflicts
}
