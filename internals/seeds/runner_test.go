package seeds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeedFile_Bundled(t *testing.T) {
	data, err := LoadSeedFile(filepath.Join("data", "seed_data.json"))
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}
	if len(data.Users) == 0 || data.Users[0].Role != "admin" {
		t.Fatalf("admin user missing: %+v", data.Users)
	}
	if len(data.Teachers) != 2 || data.Teachers[0].EmployeeCode != "EMP001" || data.Teachers[0].UserName != "rmehta" {
		t.Fatalf("teachers = %+v", data.Teachers)
	}
	if len(data.Students) != 3 || data.Students[0].ClassCode != "CSE-2A" {
		t.Fatalf("students = %+v", data.Students)
	}
}

func TestLoadSeedFile_Errors(t *testing.T) {
	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
	p := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(p, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSeedFile(p); err == nil {
		t.Fatalf("expected decode error")
	}
}
