package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"pedidos/internal"
)

// ExportRowsToXLSX writes the canonical table in the column layout the
// reporting collaborators consume.
func ExportRowsToXLSX(rows []internal.CanonicalRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"data", "produto", "quantidade", "preco_unitario",
		"estado", "solicitante", "motivo", "motivo_agrupado", "valor_total",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		if row.Date != nil {
			set(1, row.Date.Format("2006-01-02"))
		} else {
			set(1, "")
		}
		set(2, row.ProductCode)
		set(3, derefInt(row.Quantity))
		set(4, derefFloat(row.UnitPrice))
		set(5, derefString(row.State))
		set(6, derefString(row.Requester))
		set(7, derefString(row.Reason))
		set(8, row.ReasonGroup)
		set(9, derefFloat(row.TotalValue))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
