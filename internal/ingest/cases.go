package ingest

import (
	"strings"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

// Column aliases for the case export. Matching is case-insensitive and the
// first alias found in the row wins, so minor header drift between export
// versions ("SRA Expiry date" vs "SRA Expiry Date") stays harmless.
var (
	colSRAExpiry = []string{"SRA Expiry date", "SRA Expiry"}
	colPaid      = []string{"Case paid to BMAR", "Case Paid"}
	colShip      = []string{"Ship", "Vessel"}
	colName      = []string{"Name", "Seafarer Name"}
	colInvoice   = []string{"Invoice Address", "Invoice address", "Company"}

	certColumns = map[core.CertificateKind][]string{
		core.CertCOC:  {"COC Number", "COC No"},
		core.CertGOC:  {"GOC Number", "GOC No"},
		core.CertCOP1: {"COP - 1 Number", "COP-1 Number"},
		core.CertCOP2: {"COP - 2 Number", "COP-2 Number"},
	}
)

// BindCases maps parsed rows onto case records. Unresolvable expiry dates
// leave SRAExpiry at its zero value; the aggregator skips those records.
func BindCases(rows []Row) []core.CaseRecord {
	records := make([]core.CaseRecord, 0, len(rows))
	for _, row := range rows {
		rec := core.CaseRecord{
			Ship:           row.Get(colShip...),
			Name:           row.Get(colName...),
			InvoiceAddress: row.Get(colInvoice...),
			Paid:           strings.TrimSpace(row.Get(colPaid...)) != "",
		}
		if d, ok := core.NormalizeDate(row.Get(colSRAExpiry...)); ok {
			rec.SRAExpiry = d
		}
		for _, kind := range core.CertificateKinds() {
			rec.CertificateRefs = append(rec.CertificateRefs, core.CertificateRef{
				Kind:  kind,
				Value: row.Get(certColumns[kind]...),
			})
		}
		records = append(records, rec)
	}
	return records
}
