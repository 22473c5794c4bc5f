package diagnosis

import "fmt"

// Simulate generates the no-configuration fallback answer. It performs no
// network I/O and labels itself so it is never mistaken for a real diagnosis.
func Simulate(userPrompt string) string {
	return fmt.Sprintf("**[MODO SIMULAÇÃO]** (Nenhum endpoint ou chave API configurada)\n\n"+
		"**Hipótese:** Baseado em '%s', sugere-se avaliar quadros virais ou infecções comuns.\n"+
		"**Recomendação:** Acompanhamento clínico e exames de rotina.", userPrompt)
}
