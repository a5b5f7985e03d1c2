package rest

import (
	"embed"
	"html/template"

	"github.com/dfryer1193/catalog/api"
	"github.com/dfryer1193/catalog/catalog/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// parseTemplates loads the page templates. Pages are addressed by file name.
func parseTemplates(assetURL string) (*template.Template, error) {
	funcs := template.FuncMap{
		"imageURL": func(storedName string) string {
			return api.ImageURL(assetURL, storedName)
		},
	}
	return template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

type page struct {
	Title   string
	Flashes []string
}

type productRow struct {
	*domain.Product
	Snippet string
}

type indexPage struct {
	page
	Products []productRow
}

type formPage struct {
	page
	Action  string
	Method  string
	Submit  string
	Product *domain.Product
	Values  map[string]string
	Errors  map[string]string
}

type showPage struct {
	page
	Product *domain.Product
	Details template.HTML
}

type errorPage struct {
	page
	Status  int
	Message string
}
