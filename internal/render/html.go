package render

import (
	"html/template"
	"io"

	"github.com/pkg/errors"

	"noteboard/internal/board"
)

var pageTemplate = template.Must(template.New("board").Parse(`<!doctype html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>Note board</title>
</head>
<body>
<nav>{{range .Filters}}<a href="{{.Fragment}}"{{if eq . $.Active}} aria-current="page"{{end}}>{{.}}</a> {{end}}</nav>
<section id="notes">
{{- range .Cards}}
<article class="note{{if .Completed}} done{{end}}" data-id="{{.ID}}">
<header>
<strong>[P{{.Priority}}] {{.Text}}</strong>
<time datetime="{{.Date}}">{{.DateLabel}}</time>
</header>
<footer>
<button data-action="complete" data-id="{{.ID}}">Complete</button>
<button data-action="delete" data-id="{{.ID}}">Delete</button>
</footer>
</article>
{{- else}}
<p class="empty">No notes.</p>
{{- end}}
</section>
</body>
</html>
`))

type pageData struct {
	Lang    string
	Active  board.Filter
	Filters []board.Filter
	Cards   []Card
}

// WriteHTML writes the rendered cards as an HTML page. Note text is escaped
// by the template engine.
func (b *Board) WriteHTML(w io.Writer) error {
	data := pageData{
		Lang:    b.dates.Tag().String(),
		Active:  b.filter,
		Filters: board.Filters(),
		Cards:   b.cards,
	}
	return errors.Wrap(pageTemplate.Execute(w, data), "render board html")
}
