package trello

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"legal-publication-bot/internal/models"
)

const (
	// Trello accepts ~512 chars in a title; 120 keeps boards readable.
	titleLimit = 120

	// Trello description hard limit is 16384; stay well under it.
	descriptionTextLimit = 3000
	descriptionLimit     = 15000
)

const deadlineLayout = "02/01/2006"

// BuildTitle formats "CASE (PF: DD/MM/YYYY) - CLIENT - TYPE". Case number
// and fatal deadline (PF) always fit; client and act type share whatever
// room remains.
func BuildTitle(extraction *models.Extraction) string {
	caseNumber := extraction.CaseNumber
	if caseNumber == "" {
		caseNumber = "SEM NÚMERO"
	}
	deadline := "N/D"
	if !extraction.Deadline.IsZero() {
		deadline = extraction.Deadline.Format(deadlineLayout)
	}
	client := extraction.Client
	if client == "" {
		client = "N/I"
	}
	actType := extraction.ActType
	if actType == "" {
		actType = "ATO"
	}

	fixed := fmt.Sprintf("%s (PF: %s)", caseNumber, deadline)

	remaining := titleLimit - len(fixed) - 6 // two " - " separators
	if remaining <= 20 {
		return fixed
	}

	clientRoom := remaining * 7 / 10
	typeRoom := remaining - clientRoom
	client = truncate(client, clientRoom)
	actType = truncate(actType, typeRoom)

	return fmt.Sprintf("%s - %s - %s", fixed, client, strings.ToUpper(actType))
}

// truncate shortens s to at most limit bytes without splitting a rune
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return cutAtRune(s, limit-2) + ".."
}

// cutAtRune returns the longest prefix of s that is at most limit bytes
// and ends on a rune boundary.
func cutAtRune(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// buildDescription assembles the card body: the publication text followed
// by the extracted summary and review warnings.
func buildDescription(extraction *models.Extraction, notice *models.Notice) string {
	var b strings.Builder

	text := notice.Body
	truncated := len(text) > descriptionTextLimit
	if truncated {
		text = cutAtRune(text, descriptionTextLimit)
	}

	b.WriteString("## 📄 Texto da publicação\n\n")
	b.WriteString(text)
	b.WriteString("\n\n")
	if truncated {
		fmt.Fprintf(&b, "*(texto truncado - total: %d caracteres)*\n\n", len(notice.Body))
	}

	confidence := "BAIXA"
	switch {
	case extraction.Confidence >= 0.8:
		confidence = "ALTA"
	case extraction.Confidence >= 0.6:
		confidence = "MÉDIA"
	}

	b.WriteString("## 🤖 Resumo automático (conferir!)\n\n")
	fmt.Fprintf(&b, "⚠️ Confiança: %s (%d%%)\n\n", confidence, int(extraction.Confidence*100))
	fmt.Fprintf(&b, "- **Processo:** %s\n", orNA(extraction.CaseNumber))
	fmt.Fprintf(&b, "- **Cliente:** %s\n", orNA(extraction.Client))
	fmt.Fprintf(&b, "- **Tipo:** %s\n", orNA(extraction.ActType))
	fmt.Fprintf(&b, "- **Tribunal:** %s\n", orNA(extraction.Court))
	fmt.Fprintf(&b, "- **Vara:** %s\n", orNA(extraction.Venue))

	b.WriteString("\n### 📅 Prazo\n\n")
	if !extraction.Deadline.IsZero() {
		fmt.Fprintf(&b, "- Data limite: %s\n", extraction.Deadline.Format(deadlineLayout))
	}
	if extraction.DeadlineMentioned != "" {
		fmt.Fprintf(&b, "- Prazo mencionado: %s\n", extraction.DeadlineMentioned)
	} else if extraction.DeadlineImplicit {
		b.WriteString("- ⚠️ Prazo não especificado (aplicados 5 dias - regra geral CPC art. 231)\n")
	}

	if len(extraction.Summary) > 0 {
		b.WriteString("\n### 📋 Determinações\n\n")
		for i, topic := range extraction.Summary {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", truncate(topic, 200))
		}
	}

	if extraction.Notes != "" {
		fmt.Fprintf(&b, "\n### ⚠️ Observações\n\n%s\n", truncate(extraction.Notes, 300))
	}

	if extraction.Urgent {
		b.WriteString("\n⚡ **URGENTE!** Publicação contém menção a urgência.\n")
	}

	fmt.Fprintf(&b, "\n---\n\n⚠️ Resumo gerado por IA (%s) - sempre conferir o texto original!\n", extraction.Provider)

	description := b.String()
	if len(description) > descriptionLimit {
		description = cutAtRune(description, descriptionLimit) + "\n\n*(descrição truncada)*"
	}
	return description
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
