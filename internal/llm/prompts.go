package llm

import "fmt"

const questionPromptTemplate = `You are helping to collect the minimum information needed to file an insurance claim.

Here is the current structured claim state as JSON:
----------------
%s
----------------

Here is the list of required fields for this claim type:
%s

Your task:
- Identify which required fields are still missing (value is null or empty).
- Ask the user 1-3 SHORT, CLEAR questions to collect the MOST important missing fields first.
- Questions should be friendly but professional.
- Ask ONE question per line.

Important:
- Do NOT ask about fields that already have a non-null value.
- Do NOT mention internal field names or JSON.
- Do NOT ask more than 3 questions at once.

Return ONLY the questions, one per line, without any extra commentary.`

const clarifyPromptTemplate = `You are helping to resolve inconsistencies in an insurance claim.

Current claim state (after user answers and document extraction):
----------------
%s
----------------

Detected inconsistencies (each item has: field, user_value, doc_value):
----------------
%s
----------------

Your task:
- For EACH inconsistency, generate a clear question asking the user to confirm which value is correct or to clarify the situation.
- Be polite and professional.
- Mention both conflicting values in a natural way.

Rules:
- Ask ONE question per inconsistency.
- One question per line.
- Do NOT restate the full JSON or technical terms.
- Do NOT propose your own answer; just ask for clarification.

Return ONLY the questions, one per line, without any additional text.`

const extractionPromptTemplate = `You will extract structured information from an insurance-related document.

Claim type: %s

Document text:
----------------
%s
----------------

From this document, extract ONLY the following fields, if they are present:
- date
- time
- location
- other_vehicle_plate
- injuries
- description

Return a single JSON object with EXACTLY these keys:
{
  "date": ...,
  "time": ...,
  "location": ...,
  "other_vehicle_plate": ...,
  "injuries": ...,
  "description": ...
}

Rules:
- If the document does NOT clearly contain a field, set its value to null.
- Do NOT guess or infer missing fields.
- Do NOT add any extra keys or text outside the JSON.
Important:
- If a value is not explicitly stated in the text, set it to null.
- Do NOT guess or infer values based on common sense.`

const summaryPromptTemplate = `You are preparing a short summary of an insurance claim for a human claims handler.

Here is the final structured claim state as JSON:
----------------
%s
----------------

Your task:
- Write a concise, natural-language summary (120-200 words) that a claims handler can quickly read and understand.
- Focus on the key facts: what happened, when and where, who was involved, injuries, damage, and any important context from the documents.
- Write in clear, professional English - avoid technical jargon or JSON references.
- If some information is missing or unknown, briefly note that.
- Make it read like a brief case report, not a data dump.

Style:
- Professional, neutral, and factual.
- Use natural flowing sentences and short paragraphs.
- Write as if you're briefing a colleague verbally.

Return ONLY the summary text, no headers or labels.`

const tracePromptTemplate = `You are creating a short reasoning trace that explains how the claim assistant processed this case.

Final claim state:
----------------
%s
----------------

Internal processing events:
----------------
%s
----------------

Turn these technical events into a clear, chronological reasoning trace (5-10 bullet points) written in natural, professional English.

Focus on explaining:
- How the assistant collected initial information from the user
- How it processed and extracted data from the police report/document
- How it detected and resolved any inconsistencies between user input and document
- How it validated completeness and consistency
- How it finalized the claim

Guidelines:
- Write in natural, flowing language - avoid technical terms like "validation cycles" or "completeness scores"
- Use past tense and active voice
- Make it read like a brief explanation to a colleague, not a technical log
- Focus on the "what" and "why", not the "how" of implementation
- If inconsistencies were found and resolved, explain that clearly

Output format: bullet points ("- ..." per line), nothing else.`

// BuildQuestionPrompt asks the model for up to three collection questions.
func BuildQuestionPrompt(claimStateJSON, requiredFieldsJSON string) string {
	return fmt.Sprintf(questionPromptTemplate, claimStateJSON, requiredFieldsJSON)
}

// BuildClarifyPrompt asks the model for one question per inconsistency.
func BuildClarifyPrompt(claimStateJSON, inconsistenciesJSON string) string {
	return fmt.Sprintf(clarifyPromptTemplate, claimStateJSON, inconsistenciesJSON)
}

// BuildExtractionPrompt asks the model for structured fields from a
// document. Text beyond maxBytes is truncated to bound token usage.
func BuildExtractionPrompt(docText, claimType string, maxBytes int) string {
	if maxBytes > 0 && len(docText) > maxBytes {
		docText = docText[:maxBytes]
	}
	return fmt.Sprintf(extractionPromptTemplate, claimType, docText)
}

// BuildSummaryPrompt asks the model for the claims-handler summary.
func BuildSummaryPrompt(finalClaimStateJSON string) string {
	return fmt.Sprintf(summaryPromptTemplate, finalClaimStateJSON)
}

// BuildTracePrompt asks the model to narrate the processing events.
func BuildTracePrompt(finalClaimStateJSON, internalEventsJSON string) string {
	return fmt.Sprintf(tracePromptTemplate, finalClaimStateJSON, internalEventsJSON)
}
