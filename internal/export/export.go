// Package export builds xlsx files for the payments ledger and the unpaid
// students report.
package export

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"sambo-academy-admin/internal/models"
	"sambo-academy-admin/internal/service"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	ledgerSheet = "Оплаты"
	unpaidSheet = "Должники"
)

// PaymentsFileName is the download name of a group's ledger for a month.
func PaymentsFileName(m models.Month) string {
	return fmt.Sprintf("payments_%s.xlsx", m)
}

func UnpaidFileName(m models.Month) string {
	return fmt.Sprintf("unpaid_%s.xlsx", m)
}

// PaymentsLedger writes one row per student of the view with the badge and
// the amount paid, followed by the summary counters.
func PaymentsLedger(w io.Writer, view *service.PaymentsView) error {
	f, err := newWorkbook(ledgerSheet, []string{
		"Ученик", "Абонемент", "Стандартная цена", "Оплачено", "Дата оплаты", "Статус", "Разница", "Комментарий",
	})
	if err != nil {
		return err
	}
	defer f.Close()

	for i, r := range view.Rows {
		row := i + 2
		set(f, ledgerSheet, "A", row, r.Student.FullName)
		set(f, ledgerSheet, "B", row, r.SubscriptionType.Label())
		set(f, ledgerSheet, "C", row, r.StandardPrice.Float())
		if r.Payment != nil {
			set(f, ledgerSheet, "D", row, r.Payment.Amount.Float())
			set(f, ledgerSheet, "E", row, r.Payment.PaymentDate.Display())
			set(f, ledgerSheet, "H", row, r.Payment.Notes)
		}
		set(f, ledgerSheet, "F", row, r.Badge.Label())
		switch {
		case r.Badge.Shortfall > 0:
			set(f, ledgerSheet, "G", row, -r.Badge.Shortfall.Float())
		case r.Badge.Overage > 0:
			set(f, ledgerSheet, "G", row, r.Badge.Overage.Float())
		}
	}

	row := len(view.Rows) + 3
	set(f, ledgerSheet, "A", row, "Всего")
	set(f, ledgerSheet, "B", row, view.Summary.Total)
	set(f, ledgerSheet, "A", row+1, "Оплатили")
	set(f, ledgerSheet, "B", row+1, view.Summary.Paid)
	set(f, ledgerSheet, "A", row+2, "Не оплатили")
	set(f, ledgerSheet, "B", row+2, view.Summary.Unpaid)

	return write(f, w)
}

// UnpaidStudents writes the unpaid report with contacts and debts.
func UnpaidStudents(w io.Writer, report *models.UnpaidReport) error {
	f, err := newWorkbook(unpaidSheet, []string{"Ученик", "Группа", "Телефон", "Email", "Долг"})
	if err != nil {
		return err
	}
	defer f.Close()

	var total models.Money
	for i, s := range report.Students {
		row := i + 2
		set(f, unpaidSheet, "A", row, s.FullName)
		set(f, unpaidSheet, "B", row, s.GroupName)
		set(f, unpaidSheet, "C", row, s.Phone)
		set(f, unpaidSheet, "D", row, s.Email)
		set(f, unpaidSheet, "E", row, s.DebtAmount.Float())
		total += s.DebtAmount
	}

	row := len(report.Students) + 3
	set(f, unpaidSheet, "A", row, "Итого")
	set(f, unpaidSheet, "B", row, report.TotalUnpaid)
	set(f, unpaidSheet, "E", row, total.Float())

	return write(f, w)
}

func newWorkbook(sheet string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "rename sheet")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "header style")
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", last, bold)
	f.SetColWidth(sheet, "A", "A", 32)
	return f, nil
}

func set(f *excelize.File, sheet, col string, row int, v any) {
	f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v)
}

func write(f *excelize.File, w io.Writer) error {
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write xlsx")
	}
	return nil
}
