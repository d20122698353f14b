package server

import (
	"errors"
	"fmt"
	"strings"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageSize = 3
	maxPageSize     = 100
)

// Page holds parsed page-number pagination parameters.
type Page struct {
	Number int
	Size   int
}

// Limit returns the row limit for the page.
func (p Page) Limit() int { return p.Size }

// Offset returns the row offset for the page.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// parsePage extracts the page and page_size query parameters.
func parsePage(c *fiber.Ctx) Page {
	number := c.QueryInt("page", 1)
	if number < 1 {
		number = 1
	}
	size := c.QueryInt("page_size", defaultPageSize)
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return Page{Number: number, Size: size}
}

// PageEnvelope is the standard list response: total row count, links to
// the adjacent pages and the rows of the current page.
type PageEnvelope struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// respondWithPage writes the paginated envelope. Requesting a page past
// the end of a non-empty result set is a 404, matching list clients that
// walk the next links until they run out.
func respondWithPage(c *fiber.Ctx, page Page, count int64, results interface{}) error {
	lastPage := int((count + int64(page.Size) - 1) / int64(page.Size))
	if lastPage < 1 {
		lastPage = 1
	}
	if page.Number > lastPage {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewValidationError("Invalid page"))
	}

	envelope := PageEnvelope{
		Count:   count,
		Results: results,
	}
	if page.Number < lastPage {
		envelope.Next = pageURL(c, page, page.Number+1)
	}
	if page.Number > 1 {
		envelope.Previous = pageURL(c, page, page.Number-1)
	}
	return c.Status(fiber.StatusOK).JSON(envelope)
}

// pageURL rebuilds the request URL with the page query parameter set to
// the given number.
func pageURL(c *fiber.Ctx, page Page, number int) *string {
	base := c.BaseURL() + c.Path()

	params := []string{fmt.Sprintf("page=%d", number)}
	if page.Size != defaultPageSize {
		params = append(params, fmt.Sprintf("page_size=%d", page.Size))
	}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		if k == "page" || k == "page_size" {
			return
		}
		params = append(params, fmt.Sprintf("%s=%s", k, string(value)))
	})

	url := base + "?" + strings.Join(params, "&")
	return &url
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		return strings.ToLower(param[:len(param)-2]) + " ID"
	}
	return param
}

// currentUserID returns the authenticated caller set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// queryUint parses an optional numeric query parameter; absent or
// malformed values resolve to zero.
func queryUint(c *fiber.Ctx, key string) uint {
	v := c.QueryInt(key, 0)
	if v < 0 {
		return 0
	}
	return uint(v)
}
