package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dennisdiepolder/monti/analytics/internal/dataset"
	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

const chats = "id;queue;date;status;wait;duration;agent\n" +
	"1;Suporte;2024-03-04 09:00;finalizado;00:00:10;00:02:00;Ana\n" +
	"2;Suporte;2024-03-04 10:00;abandonado;00:01:00;;\n" +
	"3;Comercial;2024-03-05 11:00;finalizado;00:00:30;00:03:00;Bia\n"

func TestRunChatReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.csv")
	if err := os.WriteFile(path, []byte(chats), 0o644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	if err := run([]string{"-file", path, "-source", "chat_csv", "-end", "2024-03-04"}, &out, &errOut); err != nil {
		t.Fatalf("run failed: %v (%s)", err, errOut.String())
	}

	var d types.Dashboard
	if err := json.Unmarshal(out.Bytes(), &d); err != nil {
		t.Fatalf("output is not a dashboard: %v", err)
	}
	if d.Source != types.SourceChatCSV {
		t.Errorf("expected chat_csv source, got %s", d.Source)
	}
	if d.KPIs.Total != 2 || d.KPIs.Answered != 1 || d.KPIs.Abandoned != 1 {
		t.Errorf("unexpected kpis for window: %+v", d.KPIs)
	}
	if d.KPIs.ServiceLevel != 100 {
		t.Errorf("expected service level 100, got %v", d.KPIs.ServiceLevel)
	}
}

func TestRunDiagnostics(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-source", "sample", "-diagnostics"}, &out, &bytes.Buffer{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var info dataset.Info
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("output is not dataset info: %v", err)
	}
	if info.Source != types.SourceSample || info.Records == 0 {
		t.Errorf("unexpected sample info: %+v", info)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown source", []string{"-file", "x.csv", "-source", "fax"}},
		{"bad timezone", []string{"-tz", "Nowhere/Void"}},
		{"bad window", []string{"-start", "2024-03-10", "-end", "2024-03-01"}},
		{"missing file", []string{"-file", "/does/not/exist.csv", "-source", "chat_csv"}},
		{"unknown flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
