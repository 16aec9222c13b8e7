package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tutor-payroll/payroll"
)

func TestParseMode(t *testing.T) {
	for _, name := range []string{"report_only", "pay_and_document", "document_only"} {
		m, err := payroll.ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, string(m))
	}

	_, err := payroll.ParseMode("pay")
	assert.ErrorIs(t, err, payroll.ErrInvalidMode)
}

func TestMode_Capabilities(t *testing.T) {
	tests := []struct {
		mode                             payroll.Mode
		transfers, documents, reportsTot bool
	}{
		{payroll.ModeReportOnly, false, false, true},
		{payroll.ModePayAndDocument, true, true, false},
		{payroll.ModeDocumentOnly, false, true, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.transfers, tt.mode.Transfers())
			assert.Equal(t, tt.documents, tt.mode.Documents())
			assert.Equal(t, tt.reportsTot, tt.mode.ReportsTotal())
		})
	}
}
