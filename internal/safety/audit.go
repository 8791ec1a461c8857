package safety

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
)

const auditPreviewLen = 100

// AuditLog appends one line per assessment to a text file. Appends are
// serialized through a mutex so concurrent assessments never interleave
// mid-line. The file grows unbounded; rotation is a deployment concern.
type AuditLog struct {
	path   string
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

type auditEntry struct {
	InputPreview string             `json:"input_preview"`
	SafetyLevel  models.SafetyLevel `json:"safety_level"`
	Confidence   float64            `json:"confidence"`
	Reasons      []string           `json:"reasons"`
	Blocked      bool               `json:"blocked"`
	Modified     bool               `json:"modified"`
}

func NewAuditLog(path string) (*AuditLog, error) {
	if path == "" {
		return nil, fmt.Errorf("audit log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !os.IsExist(err) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &AuditLog{
		path:   path,
		file:   f,
		writer: bufio.NewWriter(f),
	}, nil
}

// Record writes one assessment line. Callers treat failures as non-fatal;
// the assessment result stands regardless.
func (a *AuditLog) Record(input string, result models.SafetyResult) error {
	entry := auditEntry{
		InputPreview: preview(input, auditPreviewLen),
		SafetyLevel:  result.Level,
		Confidence:   result.Confidence,
		Reasons:      result.Reasons,
		Blocked:      result.ShouldBlock,
		Modified:     result.ModifiedInput != nil,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}

	line := fmt.Sprintf("%s - INFO - Safety Assessment: %s\n",
		time.Now().Format("2006-01-02 15:04:05"), data)

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.writer.WriteString(line); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	if err := a.writer.Flush(); err != nil {
		return fmt.Errorf("flush audit log: %w", err)
	}
	return nil
}

func (a *AuditLog) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.writer != nil {
		_ = a.writer.Flush()
	}
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}

func preview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
