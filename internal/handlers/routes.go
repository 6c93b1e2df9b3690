package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the admin API and the visitor-facing
// redirect. The redirect pattern matches any {basePath}/{slug} pair;
// the handler itself rejects base paths outside the current routing
// snapshot, so base-path updates take effect without re-registering
// routes.
func RegisterRoutes(api huma.API, links *LinkHandler, redirect *RedirectHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/links",
		Summary:     "Create short link",
		Description: "Creates a short link, auto-generating a slug when none is supplied.",
		Tags:        []string{"Links"},
	}, links.CreateLink)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/links",
		Summary: "List links",
		Tags:    []string{"Links"},
	}, links.ListLinks)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPost,
		Path:    "/api/links/{id}/toggle",
		Summary: "Enable or disable a link",
		Tags:    []string{"Links"},
	}, links.ToggleLink)

	huma.Register(api, huma.Operation{
		Method:  http.MethodPut,
		Path:    "/api/links/{id}/expiration",
		Summary: "Set link expiration",
		Tags:    []string{"Links"},
	}, links.SetExpiration)

	huma.Register(api, huma.Operation{
		Method:  http.MethodDelete,
		Path:    "/api/links/{id}/expiration",
		Summary: "Clear link expiration",
		Tags:    []string{"Links"},
	}, links.ClearExpiration)

	huma.Register(api, huma.Operation{
		Method:  http.MethodDelete,
		Path:    "/api/links/{id}",
		Summary: "Delete link",
		Tags:    []string{"Links"},
	}, links.DeleteLink)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/api/settings/base-paths",
		Summary: "List configured base paths",
		Tags:    []string{"Settings"},
	}, links.GetBasePaths)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPut,
		Path:        "/api/settings/base-paths",
		Summary:     "Replace configured base paths",
		Description: "Accepts one base path per line; blanks and duplicates are dropped.",
		Tags:        []string{"Settings"},
	}, links.UpdateBasePaths)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/{basePath}/{slug}",
		Summary: "Redirect to destination",
		Tags:    []string{"Redirect"},
	}, redirect.Redirect)
}
