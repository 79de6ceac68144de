//go:build integration

package google

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
	"minhasfinancas/internal/sheets"
)

// Run with: go test -tags=integration ./internal/sheets/google
func TestIntegration_AppendJournalRow(t *testing.T) {
	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := New(ctx, spreadsheetID, os.Getenv("GOOGLE_SHEET_NAME"))
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	ref, err := client.Append(ctx, sheets.JournalRow{
		OccurredAt:  time.Now(),
		Event:       core.EntryCreated,
		EntryID:     -1,
		UserID:      -1,
		Year:        time.Now().Year(),
		Month:       int(time.Now().Month()),
		Description: "integration test",
		Amount:      decimal.RequireFromString("0.01"),
		Kind:        core.Credit,
		Status:      core.Pending,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !strings.Contains(ref, "!") {
		t.Errorf("expected an A1 range reference, got %q", ref)
	}
	t.Logf("appended %s", ref)
}
