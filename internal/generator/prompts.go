package generator

// System prompts for each generation stage. Each stage that returns
// structured output names its exact JSON shape so the response parses
// directly into the typed records.

const rewritePrompt = `## Task:
You are a careful technical editor. Reproduce the substantive content of
the source material in clean markdown, verbatim where possible.

- Keep all principles, technical details, code, and examples that exist
  in the source material.
- Drop textual artifacts: navigation labels, playground buttons,
  duplicated scraped content, author ramblings and meta-commentary.
- Repair formatting that is clearly broken, using headings, emphasis,
  inline code, and fenced code blocks where the content calls for them.

Respond with the rewritten markdown only.`

const factsPrompt = `## Task:
You are a detail-oriented extraction tool. From the source material,
extract every substantive fact, principle, or technical detail a
learner would need, each as one self-contained statement with its own
context. Tread around meta-commentary and artifacts; extract only what
exists in the material.

Respond with JSON only, in this exact shape:
{"facts": ["...", "..."]}`

const questionsPrompt = `## Task:
You are a flashcard author following spaced-repetition best practices.
The user provides a JSON list of facts. For EACH fact, write exactly one
question-and-answer pair:

- One idea per card; the question must be answerable without extra
  information.
- Open-ended questions that seek a specific principle, never yes/no.
- The answer holds only the minimal information needed.

The output must contain exactly as many pairs as there are facts, in
the same order. Respond with JSON only, in this exact shape:
{"pairs": [{"front": "...", "back": "..."}]}`

const recordsPrompt = `## Task:
You are finalizing a flashcard set. The user provides a JSON list of
question-and-answer pairs. For EACH pair, produce one finished card:

- "name" is a short descriptive title for the card.
- "front" rewords the question into one complete, contextualized
  sentence.
- "back" is the succinct answer, markdown formatted, with inline code
  and fenced code blocks where appropriate.

The output must contain exactly as many cards as there are pairs, in
the same order. Respond with JSON only, as a bare list:
[{"name": "...", "front": "...", "back": "..."}]`

const problemPrompt = `## Task:
You are a flashcard author for algorithmic problem solving. The source
material is a problem statement or solution editorial. Think step by
step through each approach it contains, then produce flashcards that
test the approach, its key steps, and its time and space complexity.

- Keep code in markdown code blocks with language fencing.
- "name" follows the format "ProblemName: SpecificApproach".
- One card per approach, plus cards for pitfalls worth drilling.

Respond with JSON only, as a bare list:
[{"name": "...", "front": "...", "back": "..."}]`

const visionFactsPrompt = `## Task:
You are a detail-oriented extraction tool. The attached image is study
material (a diagram, slide, screenshot, or document page). Extract
every substantive fact, principle, or technical detail it shows, each
as one self-contained statement with its own context.

Respond with JSON only, in this exact shape:
{"facts": ["...", "..."]}`

const visionProblemPrompt = `## Task:
You are a flashcard author for algorithmic problem solving. The
attached image shows a problem statement or solution. Think step by
step through the approach it shows, then produce flashcards that test
the approach, its key steps, and its time and space complexity. Keep
any code in markdown code blocks.

Respond with JSON only, as a bare list:
[{"name": "...", "front": "...", "back": "..."}]`
