package xlsexport

import (
	"bytes"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	dbmodels "staff-tools-backend/models/db"
)

type Provider interface {
	ExportRequestList(list []dbmodels.Request) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var requestHeaders = []string{"Titolo", "Tipo", "Richiedente", "Comunità", "Stato", "Importo", "Data creazione", "Ultimo aggiornamento"}

func (i impl) ExportRequestList(list []dbmodels.Request) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("xlsx close failed")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, requestHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "xlsx header write failed")
	}
	if len(list) != 0 {
		row, err = writeRequestData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "xlsx data write failed")
		}
	}
	f.SetSheetName(sheet, "Richieste")
	return f.WriteToBuffer()
}

func writeRequestData(f *excelize.File, sheet string, list []dbmodels.Request, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(requestHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Titolo"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Title); err != nil {
			return row, err
		}

		// "Tipo"
		col++
		if err := writeColumn(f, sheet, col, row, item.Kind.ToHuman()); err != nil {
			return row, err
		}

		// "Richiedente"
		col++
		if item.Owner != nil {
			if err := writeColumn(f, sheet, col, row, item.Owner.GetFullName()); err != nil {
				return row, err
			}
		}

		// "Comunità"
		col++
		if err := writeColumn(f, sheet, col, row, item.Community); err != nil {
			return row, err
		}

		// "Stato"
		col++
		if err := writeColumn(f, sheet, col, row, item.State.ToHuman()); err != nil {
			return row, err
		}

		// "Importo"
		col++
		if item.Amount != 0 {
			if err := writeColumn(f, sheet, col, row, item.Amount); err != nil {
				return row, err
			}
		}

		// "Data creazione"
		col++
		if err := writeColumn(f, sheet, col, row, item.CreatedAt.Format("02.01.2006")); err != nil {
			return row, err
		}

		// "Ultimo aggiornamento"
		col++
		if err := writeColumn(f, sheet, col, row, item.UpdatedAt.Format("02.01.2006")); err != nil {
			return row, err
		}
	}
	return row, nil
}
