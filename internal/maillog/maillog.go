// Package maillog appends processed mail batches to daily JSONL files for
// offline inspection and replay.
package maillog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mail-signal-bot/internal/types"
)

// Batch is one appended line: everything processed in one poll cycle.
type Batch struct {
	GeneratedAt string                 `json:"generatedAt"`
	Total       int                    `json:"total"`
	Emails      []types.NormalizedMail `json:"emails"`
}

var mu sync.Mutex

// Append writes mails as one JSON line to today's file under dir, creating
// the directory and file as needed. Appending is serialized process-wide.
func Append(dir string, mails []types.NormalizedMail) error {
	if len(mails) == 0 {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create mail log dir: %w", err)
	}

	now := time.Now()
	path := filepath.Join(dir, now.Format("2006-01-02")+".jsonl")

	line, err := json.Marshal(Batch{
		GeneratedAt: now.Format(time.RFC3339),
		Total:       len(mails),
		Emails:      mails,
	})
	if err != nil {
		return fmt.Errorf("marshal mail log batch: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open mail log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write mail log: %w", err)
	}
	return nil
}
