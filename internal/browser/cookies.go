package browser

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
)

//Cookie represents a browser cookie from a JSON export
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// loadCookiesInto reads every cookies-*.json in dir and adds them to the
// context. Missing or malformed files are skipped; cookie warm-start is an
// optimization, never a requirement.
func loadCookiesInto(ctx playwright.BrowserContext, dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "cookies-*.json"))
	if err != nil {
		return 0, err
	}

	total := 0
	for _, file := range files {
		cookies, err := LoadCookies(file)
		if err != nil {
			continue
		}
		opt := make([]playwright.OptionalCookie, len(cookies))
		for i, c := range cookies {
			opt[i] = c.ToOptional()
		}
		if err := ctx.AddCookies(opt); err != nil {
			continue
		}
		total += len(cookies)
	}
	return total, nil
}

func LoadCookies(path string) ([]Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, err
	}
	return cookies, nil
}

func (c Cookie) ToOptional() playwright.OptionalCookie {
	cookie := playwright.OptionalCookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: playwright.String(c.Domain),
		Path:   playwright.String(c.Path),
	}

	if c.Expires > 0 {
		cookie.Expires = playwright.Float(c.Expires)
	}
	if c.HTTPOnly {
		cookie.HttpOnly = playwright.Bool(true)
	}
	if c.Secure {
		cookie.Secure = playwright.Bool(true)
	}

	switch c.SameSite {
	case "Lax":
		cookie.SameSite = playwright.SameSiteAttributeLax
	case "Strict":
		cookie.SameSite = playwright.SameSiteAttributeStrict
	case "None":
		cookie.SameSite = playwright.SameSiteAttributeNone
	}

	return cookie
}
