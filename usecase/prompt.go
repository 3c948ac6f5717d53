package usecase

import (
	"strings"

	"github.com/adewidar/storebot/domain"
)

// ComposePrompt renders the store-assistant instruction prompt from a
// history snapshot, a catalog snapshot and the incoming message. It is a
// pure function: identical inputs produce a byte-identical prompt, with no
// timestamps or other run-dependent data leaking in.
func ComposePrompt(turns []domain.Turn, products []domain.Product, message string) string {
	var b strings.Builder

	b.WriteString("You are a helpful WhatsApp assistant for a store.\n\n")

	b.WriteString("Previous conversation:\n")
	b.WriteString(renderConversation(turns))
	b.WriteString("\n\n")

	b.WriteString("The user has sent this new message: \"")
	b.WriteString(message)
	b.WriteString("\".\n")
	b.WriteString("Your task is to:\n")
	b.WriteString("1. Consider the conversation history above for context.\n")
	b.WriteString("2. Identify the product name the user is asking about (if any).\n")
	b.WriteString("3. Generate a natural, friendly response based on the product details below.\n")
	b.WriteString("If no product is detected or the product isn't in the list, respond appropriately.\n\n")

	b.WriteString("Available products:\n")
	b.WriteString(renderProducts(products))
	b.WriteString("\n\n")

	b.WriteString("Return only the response text, nothing else.")

	return b.String()
}

func renderConversation(turns []domain.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		label := "Assistant"
		if t.Role == domain.UserRole {
			label = "User"
		}
		lines = append(lines, label+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

func renderProducts(products []domain.Product) string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, "- "+p.Name+": "+p.Price+" "+p.Currency+" "+p.Description)
	}
	return strings.Join(lines, "\n")
}
