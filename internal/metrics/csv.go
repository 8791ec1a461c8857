package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
)

var csvHeader = []string{
	"timestamp",
	"tokens_prompt",
	"tokens_completion",
	"total_tokens",
	"latency_ms",
	"estimated_cost_usd",
	"model",
	"question_preview",
}

// Logger appends one CSV row per processed query. Appends are serialized
// so concurrent queries never produce torn rows.
type Logger struct {
	path string
	mu   sync.Mutex
}

func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, fmt.Errorf("metrics file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !os.IsExist(err) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}

	l := &Logger{path: path}
	if err := l.ensureHeader(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Logger) ensureHeader() error {
	if _, err := os.Stat(l.path); err == nil {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (l *Logger) Log(m models.QueryMetrics) error {
	record := []string{
		m.Timestamp.Format(time.RFC3339),
		strconv.Itoa(m.TokensPrompt),
		strconv.Itoa(m.TokensCompletion),
		strconv.Itoa(m.TotalTokens),
		strconv.FormatFloat(m.LatencyMs, 'f', 2, 64),
		strconv.FormatFloat(m.EstimatedCostUSD, 'f', 6, 64),
		m.Model,
		m.QuestionPreview,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open metrics file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write metrics row: %w", err)
	}
	w.Flush()
	return w.Error()
}
