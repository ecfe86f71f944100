package entities

import (
	"regexp"
	"strings"
	"time"
)

// Order notes are stored as a single append-only journal string. Each entry is
// a block separated by a blank line:
//
//	[02 Jan 2006, 03:04 PM | Quote Sent]
//	free-text note
//
// Blocks without the bracketed header are legacy notes written before the
// journal format existed; they parse with sentinel timestamp/status values.

const noteTimestampLayout = "02 Jan 2006, 03:04 PM"

const (
	legacyNoteStatus    = "Note"
	legacyNoteTimestamp = "Unknown date"
)

var noteHeaderRe = regexp.MustCompile(`^\[(.+?) \| (.+?)\]$`)

// NoteEntry is the parsed view of one journal block.
type NoteEntry struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Text      string `json:"text"`
}

// AppendNote appends a timestamped, status-tagged entry to the journal and
// returns the new blob. Empty note text is a no-op.
func AppendNote(existing, text, statusLabel string, now time.Time) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return existing
	}

	entry := "[" + now.Format(noteTimestampLayout) + " | " + statusLabel + "]\n" + text

	existing = strings.TrimRight(existing, "\n ")
	if existing == "" {
		return entry
	}
	return existing + "\n\n" + entry
}

// ParseNotes splits a journal blob into entries. Entries appear in the order
// they were appended. Never fails: malformed blocks degrade to legacy entries.
func ParseNotes(blob string) []NoteEntry {
	blob = strings.ReplaceAll(blob, "\r\n", "\n")
	blocks := strings.Split(blob, "\n\n")

	entries := make([]NoteEntry, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.SplitN(block, "\n", 2)
		if m := noteHeaderRe.FindStringSubmatch(lines[0]); m != nil {
			text := ""
			if len(lines) == 2 {
				text = strings.TrimSpace(lines[1])
			}
			entries = append(entries, NoteEntry{Timestamp: m[1], Status: m[2], Text: text})
			continue
		}

		entries = append(entries, NoteEntry{
			Timestamp: legacyNoteTimestamp,
			Status:    legacyNoteStatus,
			Text:      block,
		})
	}
	return entries
}
