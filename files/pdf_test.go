package files

import (
	"errors"
	"strings"
	"testing"
)

func TestExamTextIgnoresNonPDF(t *testing.T) {
	if got := ExamText("/nonexistent/foto.jpg", "image/jpeg", "foto.jpg"); got != "" {
		t.Fatalf("non-PDF media must yield no text, got %q", got)
	}
}

func TestExamTextMissingFile(t *testing.T) {
	got := ExamText("/nonexistent/exame.pdf", "application/pdf", "exame.pdf")
	if !strings.HasPrefix(got, "[") || !strings.HasSuffix(got, "]") {
		t.Fatalf("missing file must yield bracketed sentinel text, got %q", got)
	}
	if !strings.Contains(got, "exame.pdf") {
		t.Fatalf("sentinel must name the file, got %q", got)
	}
}

func TestSentinelizeShortText(t *testing.T) {
	got := sentinelize("Hb 13", nil, "hemograma.pdf")
	if !strings.HasPrefix(got, "[") {
		t.Fatalf("short extraction must yield sentinel text, got %q", got)
	}
	if !strings.Contains(got, "5 caracteres") {
		t.Fatalf("sentinel must carry the character count, got %q", got)
	}
	if !strings.Contains(got, "hemograma.pdf") {
		t.Fatalf("sentinel must carry the filename, got %q", got)
	}
}

func TestSentinelizeCountsRunesNotBytes(t *testing.T) {
	// 49 characters of accented text is 98 bytes; the threshold and the
	// reported count must follow the character count.
	text := strings.Repeat("é", 49)
	got := sentinelize(text, nil, "exame.pdf")
	if !strings.HasPrefix(got, "[") {
		t.Fatalf("49 characters must yield sentinel text, got %q", got)
	}
	if !strings.Contains(got, "49 caracteres") {
		t.Fatalf("sentinel must report characters, not bytes, got %q", got)
	}
	if got := sentinelize(strings.Repeat("é", 50), nil, "exame.pdf"); strings.HasPrefix(got, "[") {
		t.Fatalf("50 characters must pass through, got sentinel %q", got)
	}
}

func TestSentinelizeTrimsAndKeepsLongText(t *testing.T) {
	text := "  " + strings.Repeat("resultado dentro dos valores de referência. ", 3) + "  "
	got := sentinelize(text, nil, "exame.pdf")
	if strings.HasPrefix(got, "[") {
		t.Fatalf("long extraction must pass through, got sentinel %q", got)
	}
	if got != strings.TrimSpace(text) {
		t.Fatal("extracted text must be trimmed, nothing else")
	}
}

func TestSentinelizeExtractionError(t *testing.T) {
	got := sentinelize("", errors.New("pdf has no extractable text layer"), "scan.pdf")
	if !strings.Contains(got, "scan.pdf") || !strings.Contains(got, "no extractable text layer") {
		t.Fatalf("sentinel must name file and problem, got %q", got)
	}
}
