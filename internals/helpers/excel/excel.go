// internals/helpers/excel/excel.go
package excel

import (
	"bytes"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet: satu tab workbook
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Build membuat workbook dari beberapa sheet; header ditebalkan + freeze baris 1.
func Build(sheets ...Sheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[EXCEL] close: %v", err)
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	defaultSheet := f.GetSheetName(0)
	for i, s := range sheets {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}

		if len(s.Headers) > 0 {
			header := make([]any, len(s.Headers))
			for j, h := range s.Headers {
				header[j] = h
			}
			if err := f.SetSheetRow(name, "A1", &header); err != nil {
				return nil, err
			}
			last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1)
			_ = f.SetCellStyle(name, "A1", last, bold)
			_ = f.SetPanes(name, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
		}
		for r, row := range s.Rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			row := row
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return nil, err
			}
		}
	}
	return f.WriteToBuffer()
}

// Send menulis workbook sebagai attachment.
func Send(c *fiber.Ctx, filename string, buf *bytes.Buffer) error {
	c.Set(fiber.HeaderContentType, ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
