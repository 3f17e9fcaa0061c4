package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/suweldohq/suweldo-backend-go/internal/domain/payroll"
)

// RenderPayslip renders one payslip as a PDF document. Amounts are printed
// from the persisted breakdown, never recomputed.
func RenderPayslip(header payroll.HeaderResponse, payslip payroll.PayslipResponse) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	name := payslip.EmployeeName
	if name == "" {
		name = payslip.EmployeeID
	}
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", name))
	pdf.Ln(6)
	if payslip.EmployeeCode != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Employee code: %s", payslip.EmployeeCode))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", header.StartDate, header.EndDate))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range payslip.Earnings.Lines {
		pdf.Cell(70, 6, string(line.Category))
		pdf.Cell(30, 6, line.Hours.StringFixed(2)+" h")
		pdf.Cell(25, 6, "x "+line.Multiplier.StringFixed(4))
		pdf.CellFormat(40, 6, line.Amount.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(125, 7, "Gross pay")
	pdf.CellFormat(40, 7, payslip.GrossPay.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	deductionRows := []struct {
		label  string
		amount string
	}{
		{"SSS", payslip.Statutory.SSS.StringFixed(2)},
		{"PhilHealth", payslip.Statutory.PhilHealth.StringFixed(2)},
		{"Pag-IBIG", payslip.Statutory.PagIBIG.StringFixed(2)},
		{"Withholding tax", payslip.Statutory.WithholdingTax.StringFixed(2)},
		{"Loan deductions", payslip.LoanDeductions.StringFixed(2)},
	}
	for _, row := range deductionRows {
		pdf.Cell(125, 6, row.label)
		pdf.CellFormat(40, 6, row.amount, "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(125, 8, "Net pay")
	pdf.CellFormat(40, 8, payslip.NetPay.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Days worked: %d    Days absent: %d    Days on leave: %d",
		payslip.DaysWorked, payslip.DaysAbsent, payslip.DaysLeave))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
