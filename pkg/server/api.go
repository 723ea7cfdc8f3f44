package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"mercator-hq/quarry/pkg/catalog"
	"mercator-hq/quarry/pkg/catalog/queries"
	"mercator-hq/quarry/pkg/config"
	"mercator-hq/quarry/pkg/query"
	"mercator-hq/quarry/pkg/repository"
)

// API serves the catalog queries over HTTP. Every handler goes through the
// repository, so requests are logged, measured and traced per query.
type API struct {
	repo   *repository.Repository
	query  config.QueryConfig
	logger *slog.Logger
}

// NewAPI creates the catalog API over repo. Page sizes come from cfg.
func NewAPI(repo *repository.Repository, cfg config.QueryConfig, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{repo: repo, query: cfg, logger: logger.With("component", "api")}
}

// productsRequest is the parsed form of GET /v1/products.
type productsRequest struct {
	names     []string
	projected bool
	first     bool
	page      *query.Pagination
}

// Products handles GET /v1/products.
//
// Query parameters:
//   - name: product names to match, repeated or comma separated; defaults to
//     bananas and apples
//   - projected: return name, price and category name instead of products
//   - first: return only the cheapest match, 404 when there is none
//   - skip, take: return one page with the total match count
func (a *API) Products(w http.ResponseWriter, r *http.Request) {
	if !a.allowed(w, r) {
		return
	}

	req, err := a.parseProducts(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	result, found, err := a.products(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, codeNotFound, "no product matches")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) products(ctx context.Context, req productsRequest) (any, bool, error) {
	plain := queries.ByNames{Names: req.names}
	projected := queries.ByNamesProjected{Names: req.names}

	switch {
	case req.first && req.projected:
		p, err := repository.Get(ctx, a.repo, queries.ByNamesFirst{Names: req.names})
		return p, p != nil, err
	case req.first:
		p, err := repository.Get(ctx, a.repo, query.FirstOrDefault[catalog.Product, catalog.Product](plain))
		return p, p != nil, err
	case req.page != nil && req.projected:
		page, err := repository.Get(ctx, a.repo, query.Page[catalog.Product, catalog.ProductProjection](projected, *req.page))
		return page, true, err
	case req.page != nil:
		page, err := repository.Get(ctx, a.repo, query.Page[catalog.Product, catalog.Product](plain, *req.page))
		return page, true, err
	case req.projected:
		rows, err := repository.GetList(ctx, a.repo, projected)
		return rows, true, err
	default:
		rows, err := repository.GetList(ctx, a.repo, plain)
		return rows, true, err
	}
}

func (a *API) parseProducts(r *http.Request) (productsRequest, error) {
	values := r.URL.Query()
	req := productsRequest{names: parseNames(values["name"])}
	if len(req.names) == 0 {
		req.names = queries.BananasOrApples
	}

	var err error
	if req.projected, err = parseBool(values.Get("projected"), "projected"); err != nil {
		return req, err
	}
	if req.first, err = parseBool(values.Get("first"), "first"); err != nil {
		return req, err
	}

	skipRaw, takeRaw := values.Get("skip"), values.Get("take")
	if skipRaw == "" && takeRaw == "" {
		return req, nil
	}
	if req.first {
		return req, NewRequestError("first", "cannot be combined with skip or take")
	}

	p := query.Pagination{Take: a.query.DefaultPageSize}
	if skipRaw != "" {
		if p.Skip, err = parseCount(skipRaw, "skip"); err != nil {
			return req, err
		}
	}
	if takeRaw != "" {
		if p.Take, err = parseCount(takeRaw, "take"); err != nil {
			return req, err
		}
		if p.Take == 0 {
			return req, NewRequestError("take", "must be positive")
		}
	}
	if a.query.MaxPageSize > 0 && p.Take > a.query.MaxPageSize {
		return req, NewRequestError("take", "must not exceed "+strconv.Itoa(a.query.MaxPageSize))
	}
	req.page = &p
	return req, nil
}

// CategorySummaries handles GET /v1/categories/summary.
func (a *API) CategorySummaries(w http.ResponseWriter, r *http.Request) {
	if !a.allowed(w, r) {
		return
	}

	rows, err := repository.GetContextList(r.Context(), a.repo, queries.CategorySummaries{})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Stats handles GET /v1/stats.
func (a *API) Stats(w http.ResponseWriter, r *http.Request) {
	if !a.allowed(w, r) {
		return
	}

	stats, err := repository.GetContext(r.Context(), a.repo, queries.CatalogStats{})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) allowed(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := statusOf(err)
	if status >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: detail})
}

// parseNames flattens repeated and comma-separated name parameters, keeping
// their order and dropping blanks.
func parseNames(raw []string) []string {
	var names []string
	for _, v := range raw {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func parseBool(raw, param string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, NewRequestError(param, "must be a boolean")
	}
	return v, nil
}

func parseCount(raw, param string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, NewRequestError(param, "must be a non-negative integer")
	}
	return v, nil
}
