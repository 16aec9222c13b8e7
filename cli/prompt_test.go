package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tutor-payroll/cli"
	"github.com/warp/tutor-payroll/payroll"
)

func TestPrompter_ChooseMode(t *testing.T) {
	tests := []struct {
		input string
		want  payroll.Mode
	}{
		{"1\n", payroll.ModeReportOnly},
		{"2\n", payroll.ModePayAndDocument},
		{"3\n", payroll.ModeDocumentOnly},
		{"4\nfoo\n 3 \n", payroll.ModeDocumentOnly},
		{"1", payroll.ModeReportOnly},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		mode, err := cli.NewPrompter(strings.NewReader(tt.input), &out).ChooseMode()
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, mode, "input %q", tt.input)
		assert.Contains(t, out.String(), "1. Check how much you should transfer to Stripe.")
		assert.Contains(t, out.String(), "(1, 2, 3) ====> ")
	}
}

func TestPrompter_ChooseMode_InputClosed(t *testing.T) {
	_, err := cli.NewPrompter(strings.NewReader("9\n"), &bytes.Buffer{}).ChooseMode()
	assert.Error(t, err)
}

func TestPrompter_ConfirmTransfers(t *testing.T) {
	var out bytes.Buffer
	ok, err := cli.NewPrompter(strings.NewReader("yes\ny\nY\n"), &out).ConfirmTransfers()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, strings.Count(out.String(), "(Y, N) ====> "))
	assert.Contains(t, out.String(), "Caution:")

	ok, err = cli.NewPrompter(strings.NewReader("N\n"), &bytes.Buffer{}).ConfirmTransfers()
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = cli.NewPrompter(strings.NewReader(""), &bytes.Buffer{}).ConfirmTransfers()
	assert.Error(t, err)
}
