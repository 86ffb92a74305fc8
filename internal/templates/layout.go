// Package templates renders the book's HTML pages as templ components.
package templates

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
)

// component adapts a plain writer function to a templ.Component.
func component(fn func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fn(w)
	})
}

func esc(s string) string { return html.EscapeString(s) }

// Layout wraps a page body with the shared chrome: header, nav, htmx.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; color: #1a1a2e; }
header { background: #16213e; color: #fff; padding: 0.75rem 1.5rem; display: flex; gap: 1.5rem; align-items: baseline; }
header a { color: #e0e0e0; text-decoration: none; }
header a:hover { color: #fff; }
main { max-width: 60rem; margin: 0 auto; padding: 1.5rem; }
table { border-collapse: collapse; width: 100%%; }
th, td { border: 1px solid #ddd; padding: 0.4rem 0.6rem; text-align: left; }
th a { text-decoration: none; color: inherit; }
pre { background: #f4f4f8; padding: 0.75rem; overflow-x: auto; }
code { font-family: ui-monospace, monospace; }
details { margin: 0.5rem 0 1rem; padding: 0.5rem; background: #f8f8e8; border-radius: 4px; }
summary { cursor: pointer; font-weight: 600; }
nav.toc { background: #f4f4f8; padding: 0.75rem 1rem; border-radius: 4px; }
nav.toc a { text-decoration: none; }
.pager { display: flex; justify-content: space-between; margin: 2rem 0 0; }
.qa-result.correct { color: #1a7f37; }
.qa-result.incorrect { color: #bf2600; }
.caption { font-size: 0.85rem; color: #555; font-style: italic; }
</style>
</head>
<body>
<header>
<strong><a href="/">%s</a></strong>
<a href="/chapters">Chapters</a>
<a href="/glossary">Glossary</a>
<a href="/search">Search</a>
</header>
<main>
`, esc(title), esc(title))
		if err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}
