package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/service"
)

func open(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, axis)
	require.NoError(t, err)
	return v
}

func TestPaymentsLedger(t *testing.T) {
	view := &service.PaymentsView{
		Month: models.Month{Year: 2026, Month: time.June},
		Rows: []service.PaymentRow{
			{
				Student:          models.Student{FullName: "Иванов Иван"},
				SubscriptionType: models.Subscription8,
				StandardPrice:    models.Rubles(4200),
				Payment: &models.Payment{
					Amount:      models.Rubles(3000),
					PaymentDate: models.NewDate(2026, time.June, 3),
					Notes:       "Нестандартная оплата",
				},
				Badge: service.Badge{Kind: service.BadgePartial, Shortfall: models.Rubles(1200)},
			},
			{
				Student:          models.Student{FullName: "Петров Пётр"},
				SubscriptionType: models.Subscription12,
				StandardPrice:    models.Rubles(4800),
				Badge:            service.Badge{Kind: service.BadgeUnpaid},
			},
		},
		Summary: service.PaymentsSummary{Total: 2, Paid: 1, Unpaid: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, PaymentsLedger(&buf, view))
	f := open(t, &buf)

	assert.Equal(t, []string{ledgerSheet}, f.GetSheetList())
	assert.Equal(t, "Ученик", cell(t, f, ledgerSheet, "A1"))
	assert.Equal(t, "Иванов Иван", cell(t, f, ledgerSheet, "A2"))
	assert.Equal(t, "8 занятий", cell(t, f, ledgerSheet, "B2"))
	assert.Equal(t, "3000", cell(t, f, ledgerSheet, "D2"))
	assert.Equal(t, "Частично", cell(t, f, ledgerSheet, "F2"))
	assert.Equal(t, "-1200", cell(t, f, ledgerSheet, "G2"))
	assert.Equal(t, "", cell(t, f, ledgerSheet, "D3"))
	assert.Equal(t, "Не оплачено", cell(t, f, ledgerSheet, "F3"))
	assert.Equal(t, "Всего", cell(t, f, ledgerSheet, "A5"))
	assert.Equal(t, "2", cell(t, f, ledgerSheet, "B5"))
	assert.Equal(t, "payments_2026-06.xlsx", PaymentsFileName(view.Month))
}

func TestUnpaidStudents(t *testing.T) {
	report := &models.UnpaidReport{
		Year:        2026,
		Month:       6,
		TotalUnpaid: 2,
		Students: []models.UnpaidStudent{
			{FullName: "Иванов Иван", GroupName: "Старшие", Phone: "+79990000000", DebtAmount: models.Rubles(4200)},
			{FullName: "Петров Пётр", GroupName: "Младшие", DebtAmount: models.Rubles(3800)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, UnpaidStudents(&buf, report))
	f := open(t, &buf)

	assert.Equal(t, "Старшие", cell(t, f, unpaidSheet, "B2"))
	assert.Equal(t, "+79990000000", cell(t, f, unpaidSheet, "C2"))
	assert.Equal(t, "3800", cell(t, f, unpaidSheet, "E3"))
	assert.Equal(t, "Итого", cell(t, f, unpaidSheet, "A5"))
	assert.Equal(t, "8000", cell(t, f, unpaidSheet, "E5"))
}
