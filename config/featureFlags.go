package config

import (
	"os"
	"strings"
)

// SettlementPolicyName selects when a booking's credits justify settling its commission.
//
// Set via env:
// - COMMISSION_SETTLEMENT_POLICY=any_credit (default) | full_settlement
func SettlementPolicyName() string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("COMMISSION_SETTLEMENT_POLICY")))
	if v == "" {
		return "any_credit"
	}
	return v
}

// CommissionSyncDryRun scans and reports without writing.
//
// Set via env:
// - COMMISSION_SYNC_DRY_RUN=true
func CommissionSyncDryRun() bool {
	return envBool("COMMISSION_SYNC_DRY_RUN")
}

// CommissionSyncReportPath is the optional XLSX follow-up report destination.
//
// Set via env:
// - COMMISSION_SYNC_REPORT_XLSX=/tmp/commission-sync.xlsx
func CommissionSyncReportPath() string {
	return strings.TrimSpace(os.Getenv("COMMISSION_SYNC_REPORT_XLSX"))
}

// CommissionSyncCron is a seconds-precision cron spec (UTC).
//
// Set via env:
// - COMMISSION_SYNC_CRON="0 */15 * * * *"
func CommissionSyncCron() string {
	v := strings.TrimSpace(os.Getenv("COMMISSION_SYNC_CRON"))
	if v == "" {
		return "0 */15 * * * *"
	}
	return v
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
