package llm

// Prompt templates are plain data so they can be inspected and tested
// without touching orchestration logic.

// EnhancePrompt instructs the model to expand a raw idea into a
// detailed website specification.
const EnhancePrompt = `You are an expert web designer and product thinker.
The user will give you a short, possibly vague description of a website they want.
Rewrite it as an expanded, detailed specification for a single-page website:
describe the layout, sections, navigation, color scheme, typography and tone.
Reply with the specification text only.`

// GeneratePrompt instructs the model to produce a complete,
// self-contained page.
const GeneratePrompt = `You are an expert front-end developer.
Build a complete, production-quality, self-contained single HTML document
implementing the website described by the user. Inline all CSS and JavaScript.
Do not use external assets or libraries. Reply with the document only,
no explanations.`

// RevisePrompt instructs the model to apply a change request to an
// existing page and return the full updated document.
const RevisePrompt = `You are an expert front-end developer.
The user will give you the full HTML of an existing single-page website
followed by a change request. Apply the change and reply with the complete
updated HTML document. Inline all CSS and JavaScript. Do not use external
assets or libraries. Reply with the document only, no explanations.`
