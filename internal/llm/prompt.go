package llm

import (
	"bytes"
	"fmt"
	"text/template"
)

// extractionPromptTmpl instructs the model to pull structured data out of a
// Brazilian legal publication and answer with a bare JSON object.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`Você é um assistente especializado em análise de publicações jurídicas brasileiras.

Analise a publicação abaixo e extraia as informações em formato JSON.

PUBLICAÇÃO:
{{.Text}}

INSTRUÇÕES:
1. Extraia o número do processo (formato CNJ: 0000000-00.0000.0.00.0000)
2. Identifique o nome do cliente/parte principal (POLO ATIVO geralmente é nosso cliente)
3. Identifique o tipo de ato (intimação, citação, decisão, sentença, despacho, etc)
4. Identifique o tribunal/órgão
5. Identifique a vara/juízo
6. IMPORTANTE: Extraia o prazo em DIAS se mencionado (ex: "prazo de 15 dias")
7. Se não houver prazo expresso, marque "prazo_implicito": true e "prazo_dias": 5
8. Crie um resumo em tópicos curtos do que foi determinado
9. Identifique se há urgência

FORMATO DE SAÍDA (APENAS JSON, sem explicações):
{
  "numero_processo": "0000000-00.0000.0.00.0000",
  "cliente": "Nome da Parte",
  "tipo_ato": "Tipo do Ato",
  "tribunal": "Nome do Tribunal",
  "vara": "Nome da Vara",
  "prazo_mencionado": "15 dias",
  "prazo_implicito": false,
  "prazo_dias": 15,
  "resumo_topicos": ["Tópico 1", "Tópico 2"],
  "urgente": false,
  "observacoes": "Observações importantes",
  "confianca": 0.85
}

IMPORTANTE: Retorne APENAS o JSON, sem markdown, sem explicações.

JSON:`))

func renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, struct{ Text string }{Text: text}); err != nil {
		return "", fmt.Errorf("rendering extraction prompt: %w", err)
	}
	return buf.String(), nil
}
