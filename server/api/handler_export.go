package api

import (
	"net/http"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Paziente", "ID Paziente", "Documento", "Tipo Documento", "Entità", "Valore", "Confidenza"}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Dati Clinici"
	f.SetSheetName("Sheet1", sheet)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, row := range h.store.ExportRows() {
		values := []any{
			row.PatientName,
			row.PatientID,
			row.Filename,
			row.DocumentType,
			row.EntityType,
			row.EntityValue,
			row.Confidence,
		}

		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dati_clinici.xlsx"`)

	if err := f.Write(w); err != nil {
		writeError(w, http.StatusInternalServerError, err)
	}
}
