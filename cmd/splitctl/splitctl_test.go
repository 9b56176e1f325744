package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mmynk/sharesplit/internal/models"
)

func TestParseItem(t *testing.T) {
	tests := []struct {
		raw        string
		wantName   string
		wantAmount string
		wantIDs    []models.ID
		wantErr    bool
	}{
		{raw: "Milk:4:1,2", wantName: "Milk", wantAmount: "4", wantIDs: models.IDs("1", "2")},
		{raw: "Ratio 1:2 mix:3.50:a", wantName: "Ratio 1:2 mix", wantAmount: "3.50", wantIDs: models.IDs("a")},
		{raw: "Bread:6:", wantName: "Bread", wantAmount: "6"},
		{raw: "Bread", wantErr: true},
		{raw: "Bread:6", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			item, err := parseItem(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", item)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if item.Name != tt.wantName || item.Amount != tt.wantAmount {
				t.Errorf("got %q/%q, want %q/%q", item.Name, item.Amount, tt.wantName, tt.wantAmount)
			}
			if len(item.Participants) != len(tt.wantIDs) {
				t.Fatalf("participants = %v, want %v", item.Participants, tt.wantIDs)
			}
			for i := range tt.wantIDs {
				if item.Participants[i] != tt.wantIDs[i] {
					t.Errorf("participant %d = %s, want %s", i, item.Participants[i], tt.wantIDs[i])
				}
			}
		})
	}
}

func TestSplitFlagsForm(t *testing.T) {
	f := splitFlags{
		description: "Dinner",
		total:       "10",
		splitType:   "manual",
		amounts:     []string{"a=6", " b =4"},
	}
	form, err := f.form()
	if err != nil {
		t.Fatalf("form() failed: %v", err)
	}
	if form.MemberAmounts["a"] != "6" || form.MemberAmounts["b"] != "4" {
		t.Errorf("unexpected amounts: %v", form.MemberAmounts)
	}

	f.amounts = []string{"nope"}
	if _, err := f.form(); err == nil {
		t.Error("expected error for malformed --amount")
	}
}

func TestComputeCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"compute", "--members", "alice,bob,carol", "--total", "100"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	owes := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if fields := strings.Fields(line); len(fields) == 2 {
			owes[fields[0]] = fields[1]
		}
	}
	want := map[string]string{"alice": "33.34", "bob": "33.33", "carol": "33.33", "TOTAL": "100.00"}
	for name, amount := range want {
		if owes[name] != amount {
			t.Errorf("%s owes %q, want %q\n%s", name, owes[name], amount, out.String())
		}
	}
}

func TestCategoriesCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/expense/categories/" || r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"results": [{"id": 1, "name": "Food"}, {"id": 4, "name": "Rent"}]}`)
	}))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"categories", "--api-url", srv.URL, "--token", "tok"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		flagAPIURL, flagToken = "", ""
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("categories failed: %v", err)
	}

	names := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if fields := strings.Fields(line); len(fields) == 2 {
			names[fields[0]] = fields[1]
		}
	}
	if names["1"] != "Food" || names["4"] != "Rent" {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
