package generation

import (
	"fmt"

	"github.com/echosyntax/echosyntax/pkg/provider/openaicompat"
)

// systemInstruction pins the model to raw JSON output.
const systemInstruction = "You are a rigid bot that outputs strictly raw, perfectly valid JSON. No exceptions."

// promptTemplate embeds the user's request verbatim. The model must answer
// with a JSON object holding the api.Field* keys.
const promptTemplate = `You are an expert AI coding assistant.
User Request: "%s"

STRICT INSTRUCTIONS:
1. CRITICAL: Understand and respond strictly in standard English only.
2. Solve EXACTLY what the user asks.
3. Write the exact, working code for the requested logic.
4. Provide the exact expected console output.
5. Explain the code in a short 2-line sentence in clear English.
6. Escape all newlines (\n) and double quotes (\") inside string values so the JSON remains valid.

Respond ONLY with this valid JSON structure:
{
  "language": "Language Name",
  "code": "Complete working algorithmic code",
  "explanation": "Short clear explanation in English",
  "output": "Exact console output"
}`

// BuildPrompt renders the user instruction for a prompt.
func BuildPrompt(userPrompt string) string {
	return fmt.Sprintf(promptTemplate, userPrompt)
}

// buildMessages returns the system and user messages sent to every
// candidate.
func buildMessages(userPrompt string) []openaicompat.ChatMessage {
	return []openaicompat.ChatMessage{
		{Role: openaicompat.RoleSystem, Content: systemInstruction},
		{Role: openaicompat.RoleUser, Content: BuildPrompt(userPrompt)},
	}
}
