package helper

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Options: batas per_page per jenis list.
type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

var (
	// list milik mahasiswa/dosen (riwayat, sesi, pengajuan)
	DefaultOpts = Options{DefaultPerPage: 25, MaxPerPage: 200}
	// master data admin (users, kelas, mapel, dosen, mahasiswa)
	AdminOpts = Options{DefaultPerPage: 50, MaxPerPage: 500}
)

var errNoSortKey = errors.New("no valid default sort key")

// Params hasil parsing ?page=&per_page=&sort_by=&order=&q=
type Params struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string // asc|desc
	Search    string // ?q=
}

func queryInt(c *fiber.Ctx, keys ...string) (int, bool) {
	for _, k := range keys {
		if v := strings.TrimSpace(c.Query(k)); v != "" {
			n, err := strconv.Atoi(v)
			return n, err == nil
		}
	}
	return 0, false
}

func normOrder(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "asc":
		return "asc"
	case "desc":
		return "desc"
	}
	return ""
}

// ParseFiber membaca parameter list. per_page di-clamp ke opt.MaxPerPage,
// nilai yang tidak valid jatuh ke default.
func ParseFiber(c *fiber.Ctx, defaultSortBy, defaultSortOrder string, opt Options) Params {
	p := Params{Page: 1, PerPage: opt.DefaultPerPage}

	if n, ok := queryInt(c, "page"); ok && n > 0 {
		p.Page = n
	}
	if n, ok := queryInt(c, "per_page", "limit"); ok && n > 0 {
		p.PerPage = min(n, opt.MaxPerPage)
	}

	p.SortBy = strings.TrimSpace(c.Query("sort_by", defaultSortBy))
	if p.SortBy == "" {
		p.SortBy = defaultSortBy
	}
	p.SortOrder = normOrder(c.Query("order", c.Query("sort")))
	if p.SortOrder == "" {
		p.SortOrder = normOrder(defaultSortOrder)
	}
	if p.SortOrder == "" {
		p.SortOrder = "desc"
	}

	p.Search = strings.TrimSpace(c.Query("q"))
	return p
}

func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

// SafeOrderClause memetakan sort_by ke kolom whitelist. Key asing jatuh ke
// defaultKey. Hasil tanpa "ORDER BY", langsung untuk gorm .Order().
func (p Params) SafeOrderClause(allowed map[string]string, defaultKey string) (string, error) {
	col, ok := allowed[p.SortBy]
	if !ok {
		if col, ok = allowed[defaultKey]; !ok {
			return "", errNoSortKey
		}
	}
	if p.SortOrder == "asc" {
		return col + " ASC", nil
	}
	return col + " DESC", nil
}

func (p Params) Pagination(total int64) Pagination {
	return BuildPaginationFromPage(total, p.Page, p.PerPage)
}
