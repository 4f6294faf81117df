package workflow

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	reportSheetDiscrepancies = "Discrepancies"
	reportSheetSummary       = "Summary"
)

// BuildCommissionSyncWorkbook lays out one row per discrepancy with its outcome,
// plus a summary sheet with the run counts.
func BuildCommissionSyncWorkbook(summary *Summary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheetDiscrepancies); err != nil {
		return nil, err
	}

	headers := []interface{}{"AdminEarningsId", "BookingId", "BookingReference", "TotalCr", "TotalDr", "Outcome", "Error"}
	if err := f.SetSheetRow(reportSheetDiscrepancies, "A1", &headers); err != nil {
		return nil, err
	}

	outcomes := map[int]string{}
	for _, r := range summary.Results {
		switch {
		case r.AlreadyPaid:
			outcomes[r.AdminEarningsId] = "already paid"
		case r.Success:
			outcomes[r.AdminEarningsId] = "fixed"
		}
	}
	failures := map[int]string{}
	for _, e := range summary.Errors {
		failures[e.AdminEarningsId] = e.Err.Error()
		outcomes[e.AdminEarningsId] = "failed"
	}

	for i, d := range summary.Discrepancies {
		outcome, ok := outcomes[d.AdminEarningsId]
		if !ok {
			outcome = "not applied"
		}
		row := []interface{}{
			d.AdminEarningsId,
			d.BookingId,
			d.BookingReference,
			d.TotalCrAmount.InexactFloat64(),
			d.TotalDrAmount.InexactFloat64(),
			outcome,
			failures[d.AdminEarningsId],
		}
		if err := f.SetSheetRow(reportSheetDiscrepancies, "A"+fmt.Sprint(i+2), &row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(reportSheetSummary); err != nil {
		return nil, err
	}
	summaryRows := [][]interface{}{
		{"CorrelationId", summary.CorrelationId},
		{"DryRun", summary.DryRun},
		{"Scanned", summary.Scanned},
		{"Fixed", summary.Fixed},
		{"Failed", summary.Failed},
	}
	for i, row := range summaryRows {
		if err := f.SetSheetRow(reportSheetSummary, "A"+fmt.Sprint(i+1), &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func WriteCommissionSyncReport(summary *Summary, path string) error {
	f, err := BuildCommissionSyncWorkbook(summary)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func WriteCommissionSyncReportTo(summary *Summary, w io.Writer) error {
	f, err := BuildCommissionSyncWorkbook(summary)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}
