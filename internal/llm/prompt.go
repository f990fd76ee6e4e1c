package llm

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// TagVocabulary is the controlled tag list the extraction prompt allows.
var TagVocabulary = []string{
	"beef", "steak", "lamb", "duck", "pork", "chicken", "turkey",
	"fish", "seafood", "shellfish", "vegetarian", "vegan",
	"spicy", "chili", "creamy", "buttery", "tomato", "fried", "crispy",
	"grilled", "smoked", "dessert", "sweet", "cheese", "starter",
}

// LanguageName returns the English name of an ISO language code, or the
// code itself when unknown.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}

func BuildExtractionPrompt(languages []string) string {
	langs := strings.Join(languages, ", ")
	if langs == "" {
		langs = "none"
	}

	return `
You are a restaurant menu extraction engine.

Return ONLY strict JSON. No markdown. No text before or after the JSON.

Required JSON schema:
{
  "restaurant_name": "string|null",
  "language": "ISO 639-1 code of the menu's own language",
  "currency": "ISO 4217 code|null",
  "sections": [
    {
      "title": "string",
      "items": [
        {
          "name": "string",
          "marketing_name": "string|null",
          "description": "string|null",
          "price": 12.5,
          "tags": ["string"]
        }
      ]
    }
  ],
  "wines": [
    {
      "name": "string",
      "type": "red|white|rose|sparkling|dessert|other",
      "region": "string|null",
      "grape": "string|null",
      "price": 9.0
    }
  ],
  "translations": {
    "<language code>": {"sections": [...same shape...], "wines": [...same shape...]}
  }
}

Rules:
- Do not invent dishes, wines or prices.
- Use null for any unknown value. Prices are numbers or null.
- Add "marketing_name" only when the dish name is bland, without lying.
- Tags MUST come from this list only: ` + strings.Join(TagVocabulary, ", ") + `.
- Translations for: ` + langs + ` (titles, names, descriptions, wine names). Same array
  lengths and order as the original. Prices, tags, wine types and grapes unchanged.
- Strict JSON: double quotes, no trailing commas.
`
}

func BuildSectionTranslationPrompt(sectionJSON, lang string) string {
	return fmt.Sprintf(`Translate this restaurant menu section to %s. Return ONLY valid JSON:
%s

Keep prices and tags unchanged. Only translate title, names, marketing names and descriptions.
Keep the same number of items in the same order.
Return ONLY valid JSON, same structure.`, LanguageName(lang), sectionJSON)
}

func BuildWineTranslationPrompt(winesJSON, lang string) string {
	return fmt.Sprintf(`Translate this wine list to %s. Return ONLY a valid JSON array:
%s

Keep prices, types, regions and grapes unchanged. Only translate names.
Keep the same number of wines in the same order.
Return ONLY a valid JSON array.`, LanguageName(lang), winesJSON)
}

func BuildReasonPrompt() string {
	return `
You write short, factual, careful wine pairing reasons.

Rules:
- 1 sentence max, ideally under 90 characters.
- Base each reason ONLY on: dish_tags, wine_type, wine_region, wine_grape.
- Never mention cooking methods or ingredients that are not present.
- When unsure, use a generic reason (e.g. "Balanced match for the flavours of the dish.").

Return ONLY JSON of this shape:
{"reasons": [{"dish_name": "string", "wine_name": "string", "reason": "string"}]}
`
}

func BuildChatSystemPrompt(lang, menuJSON string) string {
	return fmt.Sprintf(`You are a friendly and knowledgeable restaurant waiter and sommelier.

IMPORTANT: Respond ONLY in %s.

Your role:
- Help guests choose dishes based on their preferences
- Recommend wines from the list that pair well with their choices
- Answer questions about ingredients, allergens and dietary restrictions

Rules:
- ONLY mention dishes and wines that exist in the menu data below. Never invent items.
- If a guest asks for something not on the menu, suggest similar alternatives from the menu.
- For pairings, prefer the precomputed "pairings" entries.
- Keep responses short and conversational (2-3 sentences max).
- When asked for a general recommendation, first ask about their protein preference
  (meat, fish, vegetarian) and their budget before suggesting anything.
- Wrap dish names in **bold** markdown.

Menu data (your only source of truth):
%s
`, LanguageName(lang), menuJSON)
}
