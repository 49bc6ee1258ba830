package web

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"PriceScanner/internal/domain"
	"PriceScanner/internal/ports"
)

var validSorts = map[string]bool{
	"prix_asc":  true,
	"prix_desc": true,
	"nom_asc":   true,
	"nom_desc":  true,
}

// Server renders the price query page on top of a PriceQuerier.
type Server struct {
	querier ports.PriceQuerier
	logger  *slog.Logger
	engine  *gin.Engine
}

// NewServer builds the router and registers the query page.
func NewServer(querier ports.PriceQuerier, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.SetHTMLTemplate(template.Must(template.New("").Funcs(template.FuncMap{
		"prix": formatPrice,
	}).Parse(pageTemplate)))

	s := &Server{querier: querier, logger: logger, engine: engine}
	engine.GET("/", s.handleIndex)
	return s
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	if err := s.engine.Run(addr); err != nil {
		return fmt.Errorf("serve web: %w", err)
	}
	return nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleIndex(c *gin.Context) {
	query := domain.PriceQuery{
		Name:  strings.TrimSpace(c.Query("nom")),
		Brand: strings.TrimSpace(c.Query("marque")),
		Sort:  c.DefaultQuery("tri", "prix_asc"),
	}
	if !validSorts[query.Sort] {
		query.Sort = "prix_asc"
	}
	if id, err := strconv.ParseInt(c.Query("cat_id"), 10, 64); err == nil {
		query.CategoryID = id
	}
	if id, err := strconv.ParseInt(c.Query("magasin_id"), 10, 64); err == nil {
		query.StoreID = id
	}

	ctx := c.Request.Context()

	categories, err := s.querier.Categories(ctx)
	if err != nil {
		s.fail(c, "list categories", err)
		return
	}
	brands, err := s.querier.Brands(ctx)
	if err != nil {
		s.fail(c, "list brands", err)
		return
	}
	stores, err := s.querier.Stores(ctx)
	if err != nil {
		s.fail(c, "list stores", err)
		return
	}
	rows, err := s.querier.MinPrices(ctx, query)
	if err != nil {
		s.fail(c, "query prices", err)
		return
	}

	c.HTML(http.StatusOK, "index", gin.H{
		"Query":      query,
		"Categories": categories,
		"Brands":     brands,
		"Stores":     stores,
		"Rows":       rows,
	})
}

func (s *Server) fail(c *gin.Context, action string, err error) {
	if s.logger != nil {
		s.logger.Error("query page failed", "action", action, "error", err)
	}
	c.HTML(http.StatusInternalServerError, "error", gin.H{
		"Message": "La base de données est indisponible. Réessayez plus tard.",
	})
}

func formatPrice(p *float64) string {
	if p == nil {
		return "—"
	}
	return strings.Replace(fmt.Sprintf("%.2f €", *p), ".", ",", 1)
}

const pageTemplate = `
{{define "index"}}<!DOCTYPE html>
<html lang="fr">
<head>
  <meta charset="utf-8">
  <title>Comparateur de prix</title>
  <style>
    body { font-family: sans-serif; margin: 2rem; }
    form { margin-bottom: 1.5rem; }
    label { margin-right: 0.3rem; }
    input, select { margin-right: 1rem; }
    table { border-collapse: collapse; width: 100%; }
    th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
    th { background: #f0f0f0; }
  </style>
</head>
<body>
  <h1>Prix minimum par produit</h1>
  <form method="get" action="/">
    <label for="nom">Produit</label>
    <input type="text" id="nom" name="nom" value="{{.Query.Name}}">
    <label for="marque">Marque</label>
    <select id="marque" name="marque">
      <option value="">Toutes</option>
      {{range .Brands}}<option value="{{.}}"{{if eq . $.Query.Brand}} selected{{end}}>{{.}}</option>{{end}}
    </select>
    <label for="cat_id">Catégorie</label>
    <select id="cat_id" name="cat_id">
      <option value="">Toutes</option>
      {{range .Categories}}<option value="{{.ID}}"{{if eq .ID $.Query.CategoryID}} selected{{end}}>{{.Name}}</option>{{end}}
    </select>
    <label for="magasin_id">Magasin</label>
    <select id="magasin_id" name="magasin_id">
      <option value="">Tous</option>
      {{range .Stores}}<option value="{{.ID}}"{{if eq .ID $.Query.StoreID}} selected{{end}}>{{.Name}}</option>{{end}}
    </select>
    <label for="tri">Tri</label>
    <select id="tri" name="tri">
      <option value="prix_asc"{{if eq .Query.Sort "prix_asc"}} selected{{end}}>Prix croissant</option>
      <option value="prix_desc"{{if eq .Query.Sort "prix_desc"}} selected{{end}}>Prix décroissant</option>
      <option value="nom_asc"{{if eq .Query.Sort "nom_asc"}} selected{{end}}>Nom A→Z</option>
      <option value="nom_desc"{{if eq .Query.Sort "nom_desc"}} selected{{end}}>Nom Z→A</option>
    </select>
    <button type="submit">Filtrer</button>
  </form>
  <table>
    <thead>
      <tr><th>Produit</th><th>Marque</th><th>Catégorie</th><th>Prix minimum</th></tr>
    </thead>
    <tbody>
      {{range .Rows}}
      <tr><td>{{.ProductName}}</td><td>{{.Brand}}</td><td>{{.Category}}</td><td>{{prix .Price}}</td></tr>
      {{else}}
      <tr><td colspan="4">Aucun produit trouvé.</td></tr>
      {{end}}
    </tbody>
  </table>
</body>
</html>{{end}}

{{define "error"}}<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Erreur</title></head>
<body><h1>Erreur</h1><p>{{.Message}}</p></body>
</html>{{end}}
`
