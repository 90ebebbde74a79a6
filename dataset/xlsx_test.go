package dataset

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	lines := [][]interface{}{
		{"State", "District", "Crop", "Season", "Year", "Area", "Production"},
		{"Gujarat", "Rajkot", "Rice", "Kharif", "2017-18", 10, 25},
		{"Punjab", "Amritsar", "Wheat", "Rabi", "2018-19", 5, 20},
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	rows, err := ReadXLSX(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0].State != "Gujarat" || rows[0].Year != "2017-18" || rows[0].Area != "10" {
		t.Errorf("first row: %+v", rows[0])
	}
}

func TestReadXLSXNotAWorkbook(t *testing.T) {
	if _, err := ReadXLSX([]byte("just,a,csv\n1,2,3\n")); err == nil {
		t.Fatal("want error for non-xlsx bytes")
	}
}
