package association

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	a := mustLoad(t, basketResource)
	var buf bytes.Buffer
	if err := a.WriteCSV(&buf, RuleFilter{}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want header plus 3 rules", len(records))
	}
	if !reflect.DeepEqual(records[0], ruleHeaders) {
		t.Errorf("header mismatch: %v", records[0])
	}
	want := []string{"000000", "milk", "bread", "40", "20", "30", "15", "0.8", "0.1", "2", "0.001", "40", "20"}
	if !reflect.DeepEqual(records[1], want) {
		t.Errorf("row mismatch:\n got %v\nwant %v", records[1], want)
	}
}

func TestWriteCSVAppliesFilter(t *testing.T) {
	a := mustLoad(t, basketResource)
	minSupport := 0.2
	var buf bytes.Buffer
	if err := a.WriteCSV(&buf, RuleFilter{MinSupport: &minSupport}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records, want header plus 2 rules", len(records))
	}
}

func TestExportCSVMissingDestination(t *testing.T) {
	a := mustLoad(t, basketResource)
	err := a.ExportCSV("", RuleFilter{})
	var md *MissingDestinationError
	if !errors.As(err, &md) {
		t.Fatalf("got %v, want MissingDestinationError", err)
	}
}

func TestExportCSVWritesFile(t *testing.T) {
	a := mustLoad(t, basketResource)
	path := filepath.Join(t.TempDir(), "rules.csv")
	if err := a.ExportCSV(path, RuleFilter{}); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("Rule ID,Antecedent,Consequent,")) {
		t.Errorf("unexpected file contents:\n%s", data)
	}
}
