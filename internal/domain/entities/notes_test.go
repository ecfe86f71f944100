package entities

import (
	"testing"
	"time"
)

var noteNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func TestAppendNote(t *testing.T) {
	t.Run("first entry", func(t *testing.T) {
		blob := AppendNote("", "hello", "Quote Sent", noteNow)
		want := "[15 Mar 2024, 02:30 PM | Quote Sent]\nhello"
		if blob != want {
			t.Fatalf("expected %q, got %q", want, blob)
		}
	})

	t.Run("entries separated by blank line", func(t *testing.T) {
		blob := AppendNote("", "first", "Quote Sent", noteNow)
		blob = AppendNote(blob, "second", "Order Booked", noteNow.Add(time.Hour))
		entries := ParseNotes(blob)
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Text != "first" || entries[1].Text != "second" {
			t.Fatalf("unexpected entries: %+v", entries)
		}
	})

	t.Run("empty text is a no-op", func(t *testing.T) {
		existing := AppendNote("", "hello", "Quote Sent", noteNow)
		if got := AppendNote(existing, "", "Anything", noteNow); got != existing {
			t.Fatalf("expected unchanged blob, got %q", got)
		}
		if got := AppendNote(existing, "   ", "Anything", noteNow); got != existing {
			t.Fatalf("expected whitespace-only text to be ignored")
		}
	})
}

func TestParseNotes(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		blob := AppendNote("", "hello", "Quote Sent", noteNow)
		entries := ParseNotes(blob)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		e := entries[0]
		if e.Text != "hello" || e.Status != "Quote Sent" || e.Timestamp != "15 Mar 2024, 02:30 PM" {
			t.Fatalf("unexpected entry: %+v", e)
		}
	})

	t.Run("legacy untagged block", func(t *testing.T) {
		entries := ParseNotes("old free-form note")
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].Status != "Note" || entries[0].Timestamp != "Unknown date" {
			t.Fatalf("unexpected legacy entry: %+v", entries[0])
		}
		if entries[0].Text != "old free-form note" {
			t.Fatalf("legacy text must be preserved, got %q", entries[0].Text)
		}
	})

	t.Run("mixed legacy and tagged blocks", func(t *testing.T) {
		blob := AppendNote("legacy block", "tagged", "Processing", noteNow)
		entries := ParseNotes(blob)
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Status != "Note" || entries[1].Status != "Processing" {
			t.Fatalf("unexpected entries: %+v", entries)
		}
	})

	t.Run("multiline note text", func(t *testing.T) {
		blob := AppendNote("", "line one\nline two", "Shipped", noteNow)
		entries := ParseNotes(blob)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].Text != "line one\nline two" {
			t.Fatalf("unexpected text: %q", entries[0].Text)
		}
	})

	t.Run("empty blob", func(t *testing.T) {
		if entries := ParseNotes(""); len(entries) != 0 {
			t.Fatalf("expected no entries, got %d", len(entries))
		}
	})
}
