package fragments

import (
	"strings"
	"testing"
)

func TestFragments(t *testing.T) {
	tests := []struct {
		name string
		fn   func() string
		want string
	}{
		{"controller", Controller, "goob-controller"},
		{"workflow", Workflow, "goob-workflow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn()
			if got == "" {
				t.Fatal("fragment is empty")
			}
			if got != tt.fn() {
				t.Error("fragment changed between calls")
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("fragment %q does not contain %q", got, tt.want)
			}
		})
	}
}

func TestControllerPrintIsDisabled(t *testing.T) {
	got := Controller()
	if !strings.Contains(got, "disabled") {
		t.Error("print button should be disabled")
	}
	if !strings.Contains(got, "not implemented") {
		t.Error("controller should carry the not-implemented notice")
	}
}
