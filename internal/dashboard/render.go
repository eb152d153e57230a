package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"droneops-dashboard/internal/alert"
)

//go:embed templates/index.html.tmpl
var content embed.FS

var funcMap = template.FuncMap{
	"pct": func(v float64, prec int) string {
		return fmt.Sprintf("%.*f%%", prec, v)
	},
	"coord": func(v float64) string {
		return fmt.Sprintf("%.5f", v)
	},
	"severityClass": func(s alert.Severity) string {
		if s == alert.SeverityCritical {
			return "danger"
		}
		return string(s)
	},
}

var pageTpl = template.Must(template.New("index.html.tmpl").Funcs(funcMap).ParseFS(content, "templates/index.html.tmpl"))

// Render writes the dashboard page to w.
func Render(w io.Writer, p Page) error {
	return pageTpl.Execute(w, p)
}

// Export renders the page into outDir/index.html.
func Export(outDir string, p Page) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(outDir, "index.html"))
	if err != nil {
		return err
	}
	if err := Render(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
