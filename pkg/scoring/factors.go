package scoring

import (
	"regexp"
	"slices"
	"strings"

	"github.com/dukex/flowcheck/pkg/models"
)

// Factor names.
const (
	FactorKnownField    = "known_field"
	FactorFieldPattern  = "field_name_pattern"
	FactorValueFormat   = "value_format"
	FactorExactType     = "exact_type"
	FactorTypeAffix     = "type_affix"
	FactorTypeSubstring = "type_substring"
	FactorTokenOverlap  = "token_overlap"
)

const (
	resourceIDMinLength  = 8
	tokenOverlapRequired = 0.5
)

var (
	// resourceLocatorFields lists the fields known to take a resource locator,
	// keyed by the lower-cased type suffix.
	resourceLocatorFields = map[string][]string{
		"googlesheets":   {"documentId", "sheetName"},
		"googledrive":    {"fileId", "folderId", "driveId"},
		"googledocs":     {"documentId"},
		"slack":          {"channelId", "channel", "user"},
		"notion":         {"databaseId", "pageId", "blockId"},
		"airtable":       {"base", "table"},
		"github":         {"owner", "repository"},
		"gitlab":         {"owner", "repository"},
		"trello":         {"boardId", "listId", "cardId"},
		"mondaycom":      {"boardId", "groupId"},
		"clickup":        {"list", "team", "space", "folder"},
		"jira":           {"project", "issueKey"},
		"hubspot":        {"dealId", "contactId", "companyId"},
		"microsoftexcel": {"workbook", "worksheet", "table"},
	}

	locatorFieldPattern = regexp.MustCompile(`(?i)(id|url|uri|resource|locator|key)$`)
	urlPattern          = regexp.MustCompile(`^https?://[^\s]+$`)
	resourceIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)
	tokenSeparator      = regexp.MustCompile(`[^a-z0-9]+`)
)

// ResourceLocatorFactors builds the factors rating whether a field of a node type
// is a resource locator.
func ResourceLocatorFactors(nodeType, field, value string) []models.ConfidenceFactor {
	suffix := strings.ToLower(models.TypeSuffix(nodeType))

	known := slices.ContainsFunc(resourceLocatorFields[suffix], func(candidate string) bool {
		return strings.EqualFold(candidate, field)
	})

	value = strings.TrimSpace(value)
	formatted := urlPattern.MatchString(value) ||
		(len(value) >= resourceIDMinLength && resourceIDPattern.MatchString(value))

	return []models.ConfidenceFactor{
		{
			Name:        FactorKnownField,
			Weight:      0.4,
			Matched:     known,
			Description: "field is a known resource locator of the node type",
		},
		{
			Name:        FactorFieldPattern,
			Weight:      0.3,
			Matched:     locatorFieldPattern.MatchString(field),
			Description: "field name looks like an identifier or URL",
		},
		{
			Name:        FactorValueFormat,
			Weight:      0.3,
			Matched:     formatted,
			Description: "value is formatted as a URL or an opaque identifier",
		},
	}
}

// NodeTypeMatchFactors builds the factors rating whether a node type answers a
// search query.
func NodeTypeMatchFactors(query, nodeType string) []models.ConfidenceFactor {
	query = models.TypeSuffix(strings.TrimSpace(query))
	q := normalizeToken(query)
	suffix := normalizeToken(models.TypeSuffix(nodeType))

	exact := q != "" && q == suffix
	affix := q != "" && (strings.HasPrefix(suffix, q) || strings.HasSuffix(suffix, q))
	substring := q != "" && strings.Contains(suffix, q)

	return []models.ConfidenceFactor{
		{
			Name:        FactorExactType,
			Weight:      0.4,
			Matched:     exact,
			Description: "query equals the node type",
		},
		{
			Name:        FactorTypeAffix,
			Weight:      0.2,
			Matched:     affix,
			Description: "node type starts or ends with the query",
		},
		{
			Name:        FactorTypeSubstring,
			Weight:      0.2,
			Matched:     substring,
			Description: "node type contains the query",
		},
		{
			Name:        FactorTokenOverlap,
			Weight:      0.2,
			Matched:     tokenOverlap(query, suffix) >= tokenOverlapRequired,
			Description: "most query words appear in the node type",
		},
	}
}

func normalizeToken(s string) string {
	return tokenSeparator.ReplaceAllString(strings.ToLower(s), "")
}

// tokenOverlap returns the share of query words contained in the target.
func tokenOverlap(query, target string) float64 {
	var tokens []string

	for _, token := range tokenSeparator.Split(strings.ToLower(query), -1) {
		if token != "" {
			tokens = append(tokens, token)
		}
	}

	if len(tokens) == 0 {
		return 0
	}

	hits := 0

	for _, token := range tokens {
		if strings.Contains(target, token) {
			hits++
		}
	}

	return float64(hits) / float64(len(tokens))
}
