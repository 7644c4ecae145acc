// Package sow - SOW and chat parsing for knowledge ingestion
package sow

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"sow-estimator/core/types"
)

// parserKeywords maps canonical feature tags to the keywords that mark
// them in a SOW document
var parserKeywords = []struct {
	tag      types.FeatureTag
	keywords []string
}{
	{tag: "booking", keywords: []string{"booking", "appointment"}},
	{tag: "ecommerce", keywords: []string{"ecommerce", "shop"}},
	{tag: "blog", keywords: []string{"blog"}},
	{tag: "auth", keywords: []string{"auth"}},
	{tag: "api", keywords: []string{"api"}},
	{tag: "integration", keywords: []string{"integration"}},
	{tag: "reports", keywords: []string{"reports"}},
	{tag: "monitoring", keywords: []string{"monitoring"}},
	{tag: "ci_cd", keywords: []string{"ci/cd"}},
	{tag: "backup", keywords: []string{"backup"}},
}

var (
	dollarPrice = regexp.MustCompile(`\$[\s,]*([0-9.,]+)`)
	usdPrice    = regexp.MustCompile(`usd[\s:]*([0-9.,]+)`)
	chatPrice   = regexp.MustCompile(`\$?([0-9]{3,}(?:\.[0-9]{1,2})?)`)
)

// Parsed is the knowledge-relevant content of a SOW document
type Parsed struct {
	// Features are the canonical feature tags found in the text
	Features []types.FeatureTag `json:"features"`

	// FinalPrice is the first price mentioned, zero when none
	FinalPrice decimal.Decimal `json:"final_price"`
}

// Parse extracts features and the final price from a SOW document.
// It is total: any input yields a valid (possibly empty) result.
func Parse(text string) *Parsed {
	lowered := strings.ToLower(text)

	features := []types.FeatureTag{}
	for _, pk := range parserKeywords {
		for _, keyword := range pk.keywords {
			if strings.Contains(lowered, keyword) {
				features = append(features, pk.tag)
				break
			}
		}
	}

	return &Parsed{
		Features:   features,
		FinalPrice: parsePrice(text),
	}
}

func parsePrice(text string) decimal.Decimal {
	m := dollarPrice.FindStringSubmatch(text)
	if m == nil {
		m = usdPrice.FindStringSubmatch(strings.ToLower(text))
	}
	if m == nil {
		return decimal.Zero
	}
	cleaned := strings.TrimRight(strings.ReplaceAll(m[1], ",", ""), ".")
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// ParseChat builds a knowledge record from a chat transcript: features come
// from the combined message text, the final price from the most recent bot
// message containing a dollar amount.
func ParseChat(messages []types.ChatMessage) *Parsed {
	var combined strings.Builder
	for _, m := range messages {
		combined.WriteString(m.Text)
		combined.WriteString(" ")
	}
	parsed := Parse(combined.String())

	parsed.FinalPrice = decimal.Zero
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.From != "bot" {
			continue
		}
		if match := chatPrice.FindStringSubmatch(strings.ReplaceAll(m.Text, ",", "")); match != nil {
			if price, err := decimal.NewFromString(match[1]); err == nil {
				parsed.FinalPrice = price
				break
			}
		}
	}
	return parsed
}
