package registry

import (
	"regexp"
	"strings"

	"github.com/glorpus-work/pyscope/pkg/model"
)

// snippetPattern matches the name/version spans of a search result snippet on
// the registry's HTML search page. Scraping is the last-resort search path.
var snippetPattern = regexp.MustCompile(
	`(?s)<span[^>]*class="[^"]*package-snippet__name[^"]*"[^>]*>([^<]{1,100})</span>` +
		`.*?<span[^>]*class="[^"]*package-snippet__version[^"]*"[^>]*>([^<]{1,50})</span>`)

func scrapeSearchPage(html string) []model.SearchResult {
	var results []model.SearchResult
	for _, match := range snippetPattern.FindAllStringSubmatch(html, -1) {
		name := strings.TrimSpace(match[1])
		if name == "" {
			continue
		}
		ver := strings.TrimSpace(match[2])
		if ver == "" {
			ver = model.VersionUnknown
		}
		results = append(results, model.SearchResult{
			Name:    name,
			Version: ver,
			Summary: "No description available",
		})
	}
	return results
}
