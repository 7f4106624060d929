package reports

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	payments := []Payment{
		pay(1, "MEM-A", `Alice "Al" Smith`, "2024-10", 5000),
		pay(2, "MEM-B", "Bob, Jr.", "2024-11", 1234.56),
		pay(3, "MEM-C", "Carol", "2024-12", 0.1),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, payments))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.True(t, strings.HasPrefix(line, `"`) && strings.HasSuffix(line, `"`), line)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(payments)+1)
	assert.Equal(t, []string{"Member ID", "Member Name", "Month", "Amount", "Payment Date"}, records[0])

	for i, p := range payments {
		row := records[i+1]
		assert.Equal(t, p.MembershipID, row[0])
		assert.Equal(t, p.MemberName, row[1])
		assert.Regexp(t, `^\d{4}-\d{2}$`, row[2])
		assert.Equal(t, p.Month, row[2])
		amount, err := strconv.ParseFloat(row[3], 64)
		require.NoError(t, err)
		assert.Equal(t, p.Amount, amount)
		assert.Equal(t, p.PaymentDate.Format("2006-01-02"), row[4])
	}
	assert.Equal(t, "1234.56", records[2][3])
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "12,000.00", FormatMoney(12000))
	assert.Equal(t, "0.50", FormatMoney(0.5))
	assert.Equal(t, "1,234", FormatCount(1234))
}

func TestWritePDF(t *testing.T) {
	ds := sampleDataset()
	for i := 0; i < 120; i++ {
		ds.Payments = append(ds.Payments, pay(2, "MEM-B", "Bob", "2023-01", float64(100+i)))
	}
	rep := Build(ds, Filter{})
	generated := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)

	types := []ReportType{
		TypeMonthlyInstallments,
		TypeYearlySummary,
		TypeMemberWise,
		TypePaymentTrends,
		TypeExecutiveSummary,
		TypeDetailedTransactions,
	}
	for _, typ := range types {
		t.Run(string(typ), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WritePDF(&buf, rep, typ, ds.Payments, generated))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestWritePDFWithoutData(t *testing.T) {
	rep := Build(Dataset{}, Filter{})
	var buf bytes.Buffer
	err := WritePDF(&buf, rep, TypeExecutiveSummary, nil, time.Now())
	assert.ErrorIs(t, err, ErrNoData)
	assert.Zero(t, buf.Len())
}
