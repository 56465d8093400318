package main

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arrondavide/psite/internal/app"
	"github.com/arrondavide/psite/internal/app/domain/game"
	"github.com/arrondavide/psite/internal/app/domain/product"
	"github.com/arrondavide/psite/internal/app/domain/vote"
	"github.com/arrondavide/psite/internal/app/services/catalog"
	"github.com/arrondavide/psite/internal/router"
	"github.com/arrondavide/psite/pkg/logger"
)

// server renders a minimal HTML preview of the portal screens so the flows
// can be exercised without a browser extension.
type server struct {
	portal *app.Application
	log    *logger.Logger
	tmpl   *template.Template
}

func newServer(portal *app.Application, log *logger.Logger) *server {
	return &server{
		portal: portal,
		log:    log,
		tmpl: template.Must(template.New("portal").Funcs(template.FuncMap{
			"add": func(a, b int) int { return a + b },
			"sub": func(a, b int) int { return a - b },
		}).Parse(portalTemplate)),
	}
}

func (s *server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.PathPrefix("/").HandlerFunc(s.handleScreen).Methods(http.MethodGet)
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type screenData struct {
	Route    router.Route
	Nav      []router.NavLink
	Identity string

	Trending []game.Game
	Games    []game.Game
	Products []product.Product
	Stats    map[string]vote.Stats
	Page     catalog.PageInfo
	Filters  catalog.Filters
}

func (s *server) handleScreen(w http.ResponseWriter, r *http.Request) {
	identity := s.portal.Wallet.Address()
	route := router.Resolve(r.URL.Path, identity)

	data := screenData{
		Route:    route,
		Nav:      router.NavLinks(identity),
		Identity: identity,
	}

	switch route.Screen {
	case router.ScreenShop:
		s.fillShop(r, &data)
	case router.ScreenGames:
		s.fillGames(r, &data)
	case router.ScreenUpload:
		if !route.Gated {
			if mine, err := s.portal.Games.ByOwner(r.Context(), identity); err == nil {
				data.Games = mine
			}
		}
	case router.ScreenBecomeSeller:
		if !route.Gated {
			if mine, err := s.portal.Products.BySeller(r.Context(), identity); err == nil {
				data.Products = mine
			}
		}
	case router.ScreenNotFound:
		w.WriteHeader(http.StatusNotFound)
	}

	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.WithError(err).Error("render screen")
	}
}

func (s *server) fillShop(r *http.Request, data *screenData) {
	q := r.URL.Query()

	f := catalog.Filters{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	if v, err := strconv.ParseFloat(q.Get("min"), 64); err == nil {
		f.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("max"), 64); err == nil {
		f.MaxPrice = &v
	}

	s.portal.Products.Load(r.Context())
	s.portal.Products.SetFilters(f)
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		s.portal.Products.GoTo(page)
	}

	data.Products, data.Page = s.portal.Products.Page()
	data.Filters = s.portal.Products.Filters()
}

func (s *server) fillGames(r *http.Request, data *screenData) {
	q := r.URL.Query()

	s.portal.Games.Load(r.Context())
	s.portal.Games.SetFilters(catalog.Filters{Query: q.Get("q")})
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		s.portal.Games.GoTo(page)
	}

	if trending, err := s.portal.Games.Trending(r.Context()); err == nil {
		data.Trending = trending
	}

	data.Games, data.Page = s.portal.Games.Page()
	data.Filters = s.portal.Games.Filters()

	data.Stats = make(map[string]vote.Stats, len(data.Games))
	for _, g := range data.Games {
		if st, err := s.portal.Votes.Stats(r.Context(), g.ID); err == nil {
			data.Stats[g.ID] = st
		}
	}
}

const portalTemplate = `<!doctype html>
<html>
<head><title>Portal</title></head>
<body>
<nav>
{{- range .Nav }}
  <a href="{{ .Path }}">{{ .Label }}</a>
{{- end }}
  <span>{{ if .Identity }}{{ .Identity }}{{ else }}not connected{{ end }}</span>
</nav>

{{ if .Route.Gated }}
<p>Please connect your wallet to use this page.</p>
{{ else if eq .Route.Screen "shop" }}
<h1>Shop</h1>
<ul>
{{- range .Products }}
  <li>{{ .Name }} - {{ printf "%.2f" .Price }} ({{ .Category }})</li>
{{- end }}
</ul>
{{ else if eq .Route.Screen "games" }}
<h1>Games</h1>
{{ if .Trending }}<h2>Trending</h2><ul>{{ range .Trending }}<li>{{ .Title }}</li>{{ end }}</ul>{{ end }}
<ul>
{{- range .Games }}
  <li>{{ .Title }} [{{ with index $.Stats .ID }}+{{ .Upvotes }}/-{{ .Downvotes }}{{ end }}]</li>
{{- end }}
</ul>
{{ else if eq .Route.Screen "upload" }}
<h1>Your Games</h1>
<ul>
{{- range .Games }}
  <li>{{ .Title }}</li>
{{- end }}
</ul>
{{ else if eq .Route.Screen "become-seller" }}
<h1>Your Listings</h1>
<ul>
{{- range .Products }}
  <li>{{ .Name }} - {{ printf "%.2f" .Price }}</li>
{{- end }}
</ul>
{{ else if eq .Route.Screen "how-it-works" }}
<h1>How It Works</h1>
<p>Connect a wallet, browse games, list products, trade peer to peer.</p>
{{ else if eq .Route.Screen "not-found" }}
<h1>Not Found</h1>
{{ end }}

{{ if .Page.ShowControls }}
<p>Page {{ .Page.Number }} of {{ .Page.Total }}
{{ if .Page.HasPrev }}<a href="?page={{ sub .Page.Number 1 }}">prev</a>{{ end }}
{{ if .Page.HasNext }}<a href="?page={{ add .Page.Number 1 }}">next</a>{{ end }}
</p>
{{ end }}
</body>
</html>`
