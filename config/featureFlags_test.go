package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseDSN(t *testing.T) {
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "bookings")

	t.Setenv("DB_HOST", "10.0.0.5")
	assert.Equal(t, "app:secret@tcp(10.0.0.5:3306)/bookings?parseTime=true&loc=UTC", DatabaseDSN())

	t.Setenv("DB_HOST", "/cloudsql/proj:region:inst")
	assert.Equal(t, "app:secret@unix(/cloudsql/proj:region:inst)/bookings?parseTime=true&loc=UTC", DatabaseDSN())
}

func TestCommissionSyncFlags(t *testing.T) {
	t.Setenv("COMMISSION_SETTLEMENT_POLICY", "")
	t.Setenv("COMMISSION_SYNC_DRY_RUN", "")
	t.Setenv("COMMISSION_SYNC_REPORT_XLSX", "")
	t.Setenv("COMMISSION_SYNC_CRON", "")

	assert.Equal(t, "any_credit", SettlementPolicyName())
	assert.False(t, CommissionSyncDryRun())
	assert.Empty(t, CommissionSyncReportPath())
	assert.Equal(t, "0 */15 * * * *", CommissionSyncCron())

	t.Setenv("COMMISSION_SETTLEMENT_POLICY", " Full_Settlement ")
	t.Setenv("COMMISSION_SYNC_DRY_RUN", "TRUE")
	t.Setenv("COMMISSION_SYNC_REPORT_XLSX", " /tmp/sync.xlsx ")
	t.Setenv("COMMISSION_SYNC_CRON", "0 0 * * * *")

	assert.Equal(t, "full_settlement", SettlementPolicyName())
	assert.True(t, CommissionSyncDryRun())
	assert.Equal(t, "/tmp/sync.xlsx", CommissionSyncReportPath())
	assert.Equal(t, "0 0 * * * *", CommissionSyncCron())
}
