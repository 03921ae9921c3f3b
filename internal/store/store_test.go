package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckExists(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name      string
		setup     func(string) error
		wantExist bool
		wantError bool
	}{
		{
			name: "database exists",
			setup: func(dir string) error {
				f, err := os.Create(GetDBPath(dir))
				if err != nil {
					return err
				}
				return f.Close()
			},
			wantExist: true,
		},
		{
			name:      "database does not exist",
			setup:     func(dir string) error { return nil },
			wantExist: false,
		},
		{
			name: "database path is directory",
			setup: func(dir string) error {
				return os.Mkdir(filepath.Join(dir, DefaultDBFile), 0755)
			},
			wantExist: false,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDir := filepath.Join(tmpDir, tt.name)
			if err := os.Mkdir(testDir, 0755); err != nil {
				t.Fatalf("failed to create test dir: %v", err)
			}

			if err := tt.setup(testDir); err != nil {
				t.Fatalf("setup failed: %v", err)
			}

			exists, err := CheckExists(testDir)

			if tt.wantError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if exists != tt.wantExist {
				t.Errorf("got exists=%v, want %v", exists, tt.wantExist)
			}
		})
	}
}

func TestGetStorePath(t *testing.T) {
	if got := GetStorePath(""); got != "." {
		t.Errorf("got %q, want %q", got, ".")
	}
	if got := GetStorePath("/var/lib/freshstart"); got != "/var/lib/freshstart" {
		t.Errorf("got %q, want %q", got, "/var/lib/freshstart")
	}
}

func TestBaseTables(t *testing.T) {
	got := BaseTables("wp_goob_")
	want := []string{"wp_goob_orders", "wp_goob_suppliers", "wp_goob_clients"}
	if len(got) != len(want) {
		t.Fatalf("got %d tables, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("table %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidTableName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"goob_orders", true},
		{"wp_goob_clients", true},
		{"Orders2", true},
		{"", false},
		{"2orders", false},
		{"orders; DROP TABLE options", false},
		{"orders-archive", false},
		{`"orders"`, false},
	}

	for _, tt := range tests {
		if got := ValidTableName(tt.name); got != tt.want {
			t.Errorf("ValidTableName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStoreStateString(t *testing.T) {
	if StateReady.String() != "ready" {
		t.Errorf("got %q, want %q", StateReady.String(), "ready")
	}
	if StoreState(42).String() != "unknown" {
		t.Errorf("got %q, want %q", StoreState(42).String(), "unknown")
	}
}
