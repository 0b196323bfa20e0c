package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"pedidos/internal"
	"pedidos/internal/storage"
)

// Report is the aggregated view of the canonical table: the same numbers
// the dashboard collaborator charts.
type Report struct {
	TopProducts     []internal.ProductTotal
	Requesters      []internal.NameCount
	ReasonGroups    []internal.NameCount
	Monthly         []internal.NameCount
	ProductsByState []internal.StateProductTotal
}

func BuildReport(db *storage.DB) (Report, error) {
	var report Report
	var err error

	if report.TopProducts, err = db.TopProducts(10); err != nil {
		return Report{}, err
	}
	if report.Requesters, err = db.RequesterCounts(15); err != nil {
		return Report{}, err
	}
	if report.ReasonGroups, err = db.ReasonGroupCounts(); err != nil {
		return Report{}, err
	}
	if report.Monthly, err = db.MonthlyCounts(); err != nil {
		return Report{}, err
	}
	if report.ProductsByState, err = db.StateProductTotals(); err != nil {
		return Report{}, err
	}

	return report, nil
}

func ExportReportToXLSX(report Report, outputPath string) error {
	f := excelize.NewFile()

	first := f.GetSheetName(0)
	_ = f.SetSheetName(first, "Top Produtos")

	writeSheet(f, "Top Produtos", []string{"produto", "quantidade_total", "solicitacoes"}, len(report.TopProducts), func(set func(int, any), i int) {
		set(1, report.TopProducts[i].ProductCode)
		set(2, report.TopProducts[i].TotalQty)
		set(3, report.TopProducts[i].Submissions)
	})

	addSheet(f, "Solicitantes", []string{"solicitante", "solicitacoes"}, len(report.Requesters), func(set func(int, any), i int) {
		set(1, report.Requesters[i].Name)
		set(2, report.Requesters[i].Count)
	})

	addSheet(f, "Motivos", []string{"motivo_agrupado", "solicitacoes"}, len(report.ReasonGroups), func(set func(int, any), i int) {
		set(1, report.ReasonGroups[i].Name)
		set(2, report.ReasonGroups[i].Count)
	})

	addSheet(f, "Evolução Mensal", []string{"ano_mes", "solicitacoes"}, len(report.Monthly), func(set func(int, any), i int) {
		set(1, report.Monthly[i].Name)
		set(2, report.Monthly[i].Count)
	})

	addSheet(f, "Produtos por Estado", []string{"estado", "produto", "quantidade_total"}, len(report.ProductsByState), func(set func(int, any), i int) {
		set(1, report.ProductsByState[i].State)
		set(2, report.ProductsByState[i].ProductCode)
		set(3, report.ProductsByState[i].TotalQty)
	})

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func addSheet(f *excelize.File, name string, headers []string, rows int, fill func(set func(int, any), i int)) {
	_, _ = f.NewSheet(name)
	writeSheet(f, name, headers, rows, fill)
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows int, fill func(set func(int, any), i int)) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i := 0; i < rows; i++ {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		fill(set, i)
	}
}
