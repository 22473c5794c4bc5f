package diagnosis

import (
	"strings"

	"liamed-backend/prompts"
)

// defaultSystemInstruction is the last-resort instruction when neither the
// prompt registry nor the doctor provides one.
const defaultSystemInstruction = `Você é um assistente médico especialista (IA) do sistema LiaMed.
Sua função é auxiliar médicos fornecendo hipóteses diagnósticas e recomendações baseadas nos dados fornecidos.
IMPORTANTE: Você é um assistente, a decisão final é sempre do médico.
Formato de resposta: Markdown estruturado (negrito, listas).`

// SystemInstruction resolves the system turn with a three-level fallback:
// the active diagnostic template from the registry, then the doctor's saved
// override, then the hardcoded default.
func SystemInstruction(active *prompts.Prompt, doctorOverride string) string {
	if active != nil && strings.TrimSpace(active.Content) != "" {
		return active.Content
	}
	if strings.TrimSpace(doctorOverride) != "" {
		return doctorOverride
	}
	return defaultSystemInstruction
}

// AssembleUserMessage composes the user turn. Pure string composition in a
// fixed order so that identical inputs always produce byte-identical output:
// patient, narrative, optional complementary data, then one labeled section
// per exam that yielded text, or a single metadata line when none did.
func AssembleUserMessage(req Request) string {
	var b strings.Builder
	b.WriteString("**Paciente:** " + req.PatientName + "\n")
	b.WriteString("**Relato/Sintomas:** " + req.UserPrompt + "\n")
	if strings.TrimSpace(req.ComplementaryData) != "" {
		b.WriteString("**Dados Complementares:** " + req.ComplementaryData + "\n")
	}

	withText := 0
	for _, e := range req.Exams {
		if e.ExtractedText != "" {
			withText++
		}
	}
	if withText > 0 {
		for _, e := range req.Exams {
			if e.ExtractedText == "" {
				continue
			}
			b.WriteString("--- EXAM: " + e.OriginalName + " ---\n")
			b.WriteString(e.ExtractedText + "\n")
		}
	} else if len(req.Exams) > 0 {
		names := make([]string, 0, len(req.Exams))
		for _, e := range req.Exams {
			names = append(names, e.OriginalName)
		}
		b.WriteString("**Exames Anexados (Metadados):** " + strings.Join(names, ", ") + "\n")
	}

	b.WriteString("\nPor favor, forneça:\n")
	b.WriteString("1. Hipótese Diagnóstica (Listar possíveis condições)\n")
	b.WriteString("2. Sugestão de Conduta/Exames\n")
	b.WriteString("3. Alertas importantes (se houver)\n")
	return b.String()
}
