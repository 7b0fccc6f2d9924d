package anki

// Note type names created on demand before import.
const (
	NoteTypeBasic   = "Flashcards: Basic"
	NoteTypeProblem = "Flashcards: Problem"
)

// noteFields is the in-order field list shared by both note types.
var noteFields = []string{"Name", "Front", "Back", "Source"}

// templatesFor returns the card templates for a note type.
func templatesFor(noteType string) []map[string]string {
	if noteType == NoteTypeProblem {
		return []map[string]string{{
			"Name":  "Problem",
			"Front": problemFrontTemplate,
			"Back":  problemBackTemplate,
		}}
	}
	return []map[string]string{{
		"Name":  "Front to Back",
		"Front": basicFrontTemplate,
		"Back":  basicBackTemplate,
	}}
}

const basicFrontTemplate = `<div class="front">{{Front}}</div>`

const basicBackTemplate = `{{FrontSide}}
<hr id="answer">
<div class="back">{{Back}}</div>
<div class="source">{{Source}}</div>`

const problemFrontTemplate = `<div class="name">{{Name}}</div>
<div class="front">{{Front}}</div>`

const problemBackTemplate = `{{FrontSide}}
<hr id="answer">
<div class="back">{{Back}}</div>
<div class="source">{{Source}}</div>`

const noteCSS = `.card {
  font-family: arial, sans-serif;
  font-size: 18px;
  text-align: left;
  color: black;
  background-color: white;
  padding: 12px;
}

.name {
  font-weight: bold;
  color: #555;
  margin-bottom: 8px;
}

.source {
  font-size: 12px;
  color: #999;
  margin-top: 12px;
}

code {
  font-family: monospace;
  background-color: #f4f4f4;
  padding: 1px 4px;
  border-radius: 3px;
}

pre code {
  display: block;
  padding: 8px;
  overflow-x: auto;
}`
