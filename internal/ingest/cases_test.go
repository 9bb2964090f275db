package ingest

import (
	"strings"
	"testing"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

func TestBindCases(t *testing.T) {
	src := strings.Join([]string{
		`SRA Expiry date,COC Number,GOC Number,COP - 1 Number,COP - 2 Number,Case paid to BMAR,Ship,Name,Invoice Address`,
		`2025-11-10,A1,,,,yes,MV Alfa,Antonio Silva,"Rua A, Lisboa"`,
		`2025-11-20,,B2,,,,MV Beta,Joana Costa,`,
		`not-a-date,C3,,,,,MV Gama,X,`,
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	records := BindCases(rows)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.SRAExpiry.ISO() != "2025-11-10" {
		t.Fatalf("expiry: got %s", first.SRAExpiry.ISO())
	}
	if !first.Paid {
		t.Fatal("non-empty paid cell should read as paid")
	}
	if first.Ship != "MV Alfa" || first.InvoiceAddress != "Rua A, Lisboa" {
		t.Fatalf("got %+v", first)
	}
	if len(first.CertificateRefs) != 4 {
		t.Fatalf("all 4 certificate columns should be bound, got %d", len(first.CertificateRefs))
	}
	if first.CertificateRefs[0].Kind != core.CertCOC || first.CertificateRefs[0].Value != "A1" {
		t.Fatalf("got %+v", first.CertificateRefs[0])
	}

	if records[1].Paid {
		t.Fatal("empty paid cell should read as unpaid")
	}
	if records[1].CertificateRefs[1].Value != "B2" {
		t.Fatalf("got %+v", records[1].CertificateRefs)
	}

	if !records[2].SRAExpiry.IsZero() {
		t.Fatal("unparseable expiry should stay zero")
	}
}

func TestBindCasesHeaderAliases(t *testing.T) {
	rows := []Row{{
		"sra expiry DATE": "2026-01-05",
		"coc number":      "Z9",
		"case paid to bmar": "x",
	}}
	records := BindCases(rows)
	if records[0].SRAExpiry.ISO() != "2026-01-05" {
		t.Fatalf("got %s", records[0].SRAExpiry.ISO())
	}
	if records[0].CertificateRefs[0].Value != "Z9" || !records[0].Paid {
		t.Fatalf("got %+v", records[0])
	}
}
