package diagnosis

import (
	"strings"
	"testing"

	"liamed-backend/prompts"
)

func TestSystemInstructionFallback(t *testing.T) {
	active := &prompts.Prompt{Content: "registry instruction"}

	if got := SystemInstruction(active, "override"); got != "registry instruction" {
		t.Fatalf("active template should win, got %q", got)
	}
	if got := SystemInstruction(nil, "override"); got != "override" {
		t.Fatalf("doctor override should win without a template, got %q", got)
	}
	if got := SystemInstruction(nil, "  "); got != defaultSystemInstruction {
		t.Fatalf("blank override should fall through to the default, got %q", got)
	}
	if got := SystemInstruction(&prompts.Prompt{Content: "   "}, ""); got != defaultSystemInstruction {
		t.Fatalf("blank template should fall through to the default, got %q", got)
	}
}

func TestAssembleUserMessageDeterministic(t *testing.T) {
	req := Request{
		PatientName:       "João Silva",
		UserPrompt:        "febre persistente há 3 dias",
		ComplementaryData: "alérgico a dipirona",
		Exams: []Exam{
			{OriginalName: "hemograma.pdf", ExtractedText: "Hb 13.2 g/dL"},
			{OriginalName: "raiox.pdf", ExtractedText: "sem alterações"},
		},
	}
	first := AssembleUserMessage(req)
	for i := 0; i < 10; i++ {
		if got := AssembleUserMessage(req); got != first {
			t.Fatalf("assembly is not deterministic, call %d differs", i)
		}
	}

	// Fixed ordering: patient, narrative, complementary, exams in submission order.
	idxPatient := strings.Index(first, "João Silva")
	idxNarrative := strings.Index(first, "febre persistente")
	idxCompl := strings.Index(first, "alérgico a dipirona")
	idxExam1 := strings.Index(first, "--- EXAM: hemograma.pdf ---")
	idxExam2 := strings.Index(first, "--- EXAM: raiox.pdf ---")
	if !(idxPatient < idxNarrative && idxNarrative < idxCompl && idxCompl < idxExam1 && idxExam1 < idxExam2) {
		t.Fatalf("sections out of order:\n%s", first)
	}
	if !strings.Contains(first, "Hb 13.2 g/dL") {
		t.Fatal("exam text missing from user turn")
	}
}

func TestAssembleUserMessageOmitsEmptyComplementary(t *testing.T) {
	msg := AssembleUserMessage(Request{PatientName: "Ana", UserPrompt: "tosse"})
	if strings.Contains(msg, "Dados Complementares") {
		t.Fatal("empty complementary block must be omitted entirely")
	}
}

func TestAssembleUserMessageMetadataOnlyExams(t *testing.T) {
	msg := AssembleUserMessage(Request{
		PatientName: "Ana",
		UserPrompt:  "tosse",
		Exams: []Exam{
			{OriginalName: "foto.jpg"},
			{OriginalName: "scan.pdf"},
		},
	})
	if strings.Contains(msg, "--- EXAM:") {
		t.Fatal("exams without text must not produce EXAM sections")
	}
	if !strings.Contains(msg, "**Exames Anexados (Metadados):** foto.jpg, scan.pdf") {
		t.Fatalf("expected filename-only listing, got:\n%s", msg)
	}
}
