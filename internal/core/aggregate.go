package core

import (
	"sort"
	"strings"
)

// OutstandingByMonth buckets case records by the calendar month of their
// SRA expiry date. Every non-empty certificate reference increments that
// month's AllCases — a record carrying two certificate numbers counts
// twice — and additionally CanBeIssued when the case is paid. Records
// without a resolvable expiry date are skipped. The result covers every
// month with at least one match, ascending.
func OutstandingByMonth(records []CaseRecord) []OutstandingEntry {
	type bucket struct {
		all int
		can int
	}
	byMonth := make(map[MonthKey]*bucket)
	for _, r := range records {
		if r.SRAExpiry.IsZero() {
			continue
		}
		key := r.SRAExpiry.MonthKey()
		for _, ref := range r.CertificateRefs {
			if strings.TrimSpace(ref.Value) == "" {
				continue
			}
			b, ok := byMonth[key]
			if !ok {
				b = &bucket{}
				byMonth[key] = b
			}
			b.all++
			if r.Paid {
				b.can++
			}
		}
	}

	entries := make([]OutstandingEntry, 0, len(byMonth))
	for key, b := range byMonth {
		entries = append(entries, OutstandingEntry{
			Month:       key.Label(),
			Key:         key,
			AllCases:    b.all,
			CanBeIssued: b.can,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key.Before(entries[j].Key)
	})
	return entries
}

// FindNextExpiring returns the case with the soonest SRA expiry strictly
// after today, comparing at UTC day granularity. Ties keep the first
// occurrence in input order. The second return is false when no record
// qualifies.
func FindNextExpiring(records []CaseRecord, today Date) (NextExpiring, bool) {
	var best Date
	idx := -1
	for i, r := range records {
		if r.SRAExpiry.IsZero() || !r.SRAExpiry.After(today.Time) {
			continue
		}
		if idx == -1 || r.SRAExpiry.Before(best.Time) {
			best = r.SRAExpiry
			idx = i
		}
	}
	if idx == -1 {
		return NextExpiring{}, false
	}
	r := records[idx]
	company := strings.TrimSpace(r.InvoiceAddress)
	if company == "" {
		company = "-"
	}
	return NextExpiring{
		Date:    r.SRAExpiry.ISO(),
		Ship:    r.Ship,
		Name:    r.Name,
		Company: company,
	}, true
}
