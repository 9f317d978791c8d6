// Package gemini implements the generation.DrugGenerator interface using
// Google's Gemini API. It handles prompt construction, retries with
// exponential backoff for transient failures, and mapping the model's
// JSON output onto domain drugs.
package gemini
