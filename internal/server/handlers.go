package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/featureql/internal/catalog"
	"github.com/roach88/featureql/internal/crs"
	"github.com/roach88/featureql/internal/queryir"
)

// itemParams are the query parameters accepted by the items endpoint.
var itemParams = []string{"limit", "cursor", "bbox", "bbox-crs", "datetime", "filter", "crs"}

type collectionDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ItemType    string   `json:"itemType"`
	CRS         []string `json:"crs"`
	StorageCRS  string   `json:"storageCrs"`
	Datetime    bool     `json:"datetime"`
	Links       []link   `json:"links"`
}

type collectionsDoc struct {
	Collections []collectionDoc `json:"collections"`
	Links       []link          `json:"links"`
}

func (s *Server) listCollections(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	colls := s.svc.Collections()

	doc := collectionsDoc{
		Collections: make([]collectionDoc, 0, len(colls)),
		Links: []link{
			{Href: base + "/collections", Rel: "self", Type: contentTypeJSON},
		},
	}
	for _, c := range colls {
		doc.Collections = append(doc.Collections, describe(base, c))
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) getCollection(w http.ResponseWriter, r *http.Request) {
	coll, err := s.svc.Collection(chi.URLParam(r, "collectionId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, describe(baseURL(r), coll))
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	collectionID := chi.URLParam(r, "collectionId")

	params, err := parseItemParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := s.svc.Items(r.Context(), collectionID, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	base := baseURL(r)
	itemsPath := base + "/collections/" + url.PathEscape(collectionID) + "/items"

	links := []link{
		{Href: itemsPath + encodeQuery(r.URL.Query()), Rel: "self", Type: contentTypeGeoJSON},
		{Href: base + "/collections/" + url.PathEscape(collectionID), Rel: "collection", Type: contentTypeJSON},
	}
	if page.HasNext() {
		next := r.URL.Query()
		next.Set("cursor", strconv.FormatInt(page.NextCursor, 10))
		links = append(links, link{Href: itemsPath + encodeQuery(next), Rel: "next", Type: contentTypeGeoJSON})
	}

	fc := page.FeatureCollection()
	fc.ExtraMembers["links"] = links

	w.Header().Set("Content-Crs", "<"+crs.URIFor(page.Query.OutputSRID)+">")
	writeBody(w, http.StatusOK, contentTypeGeoJSON, fc)
}

// parseItemParams copies the recognised query parameters. Repeating a
// parameter is rejected; unrecognised parameters are ignored.
func parseItemParams(q url.Values) (queryir.Params, error) {
	for _, name := range itemParams {
		if len(q[name]) > 1 {
			return queryir.Params{}, queryir.NewInvalidParameter(name, "given more than once")
		}
	}
	return queryir.Params{
		Limit:    q.Get("limit"),
		Cursor:   q.Get("cursor"),
		BBox:     q.Get("bbox"),
		BBoxCRS:  q.Get("bbox-crs"),
		Datetime: q.Get("datetime"),
		Filter:   q.Get("filter"),
		CRS:      q.Get("crs"),
	}, nil
}

func describe(base string, c *catalog.Collection) collectionDoc {
	uris := make([]string, 0, len(c.CRS))
	for _, srid := range c.CRS {
		uris = append(uris, crs.URIFor(srid))
	}
	self := base + "/collections/" + url.PathEscape(c.ID)
	return collectionDoc{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		ItemType:    "feature",
		CRS:         uris,
		StorageCRS:  crs.URIFor(c.StorageSRID),
		Datetime:    c.HasDatetime(),
		Links: []link{
			{Href: self, Rel: "self", Type: contentTypeJSON},
			{Href: self + "/items", Rel: "items", Type: contentTypeGeoJSON},
		},
	}
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func encodeQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
