package browser

import (
	"github.com/playwright-community/playwright-go"
)

// Mirrors the CDP script the original automation injected via
// Page.addScriptToEvaluateOnNewDocument.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3] });
window.chrome = window.chrome || { runtime: {} };
`

func applyStealth(ctx playwright.BrowserContext) error {
	return ctx.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)})
}
