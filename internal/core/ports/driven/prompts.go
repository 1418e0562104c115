package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a
	// sensible default or an error, depending on whether the prompt
	// is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAssistantSystem is the system prompt for the product
	// assistant. It carries the grounding guardrails: answer only from
	// retrieved products, admit ignorance, cite names and prices, stay
	// on topic. No format placeholders.
	PromptAssistantSystem = "assistant_system"

	// PromptQueryReformulate turns a follow-up question plus recent
	// conversation into a standalone search query. The template expects
	// a %s placeholder for the latest question.
	PromptQueryReformulate = "query_reformulate"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
